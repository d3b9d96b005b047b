package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

type PlayerResult struct {
	TimeAlive float64 `json:"time_alive"`
	// Placement is nil until a match_end event is seen.
	Placement       *int    `json:"placement"`
	HealthRemaining float64 `json:"health_remaining"`
	ShieldRemaining float64 `json:"shield_remaining"`
	Revives         int     `json:"revives"`
	Reboots         int     `json:"reboots"`
}

// Player reports survival and end-of-match state. For time_alive, health and
// placement the last event wins.
func Player(events []event.Event) PlayerResult {
	var res PlayerResult

	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case event.MatchEnd:
			placement := p.Placement
			res.Placement = &placement
		case event.Span:
			if ev.Kind == event.KindTimeAlive {
				res.TimeAlive = round2(quantity(p.Duration))
			}
		case event.HealthUpdate:
			res.HealthRemaining = round2(quantity(p.Health))
			res.ShieldRemaining = round2(quantity(p.Shield))
		case event.Marker:
			switch ev.Kind {
			case event.KindRevive:
				res.Revives++
			case event.KindReboot:
				res.Reboots++
			}
		}
	}
	return res
}
