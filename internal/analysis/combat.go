package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

type CombatResult struct {
	Eliminations int     `json:"eliminations"`
	DamageGiven  float64 `json:"damage_given"`
	DamageTaken  float64 `json:"damage_taken"`
	Headshots    int     `json:"headshots"`
	ShotsFired   int     `json:"shots_fired"`
	ShotsHit     int     `json:"shots_hit"`
	// Accuracy is ShotsHit/ShotsFired as a percentage, 0 when nothing was fired.
	Accuracy float64 `json:"accuracy"`
}

// Combat counts eliminations, headshots, damage in both directions and shot
// accuracy. Every damage event against an enemy counts as one hit.
func Combat(events []event.Event) CombatResult {
	var res CombatResult

	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case event.Elimination:
			res.Eliminations++
		case event.Damage:
			switch p.Target {
			case "enemy":
				res.DamageGiven += quantity(p.Amount)
				res.ShotsHit++
			case "self":
				res.DamageTaken += quantity(p.Amount)
			}
		case event.ShotFired:
			res.ShotsFired++
		case event.Headshot:
			res.Headshots++
		}
	}

	res.DamageGiven = round2(res.DamageGiven)
	res.DamageTaken = round2(res.DamageTaken)
	res.Accuracy = percent(float64(res.ShotsHit), float64(res.ShotsFired))
	return res
}
