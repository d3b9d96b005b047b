package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

// closeEncounterDistance is the spotting distance below which an encounter
// counts as close.
const closeEncounterDistance = 15.0

type ProximityResult struct {
	Encounters      int     `json:"encounters"`
	AvgDistance     float64 `json:"avg_distance"`
	CloseEncounters int     `json:"close_encounters"`
}

func EnemyProximity(events []event.Event) ProximityResult {
	var (
		res   ProximityResult
		total float64
	)

	for _, ev := range events {
		p, ok := ev.Payload.(event.EnemySpotted)
		if !ok {
			continue
		}
		d := quantity(p.Distance)
		total += d
		res.Encounters++
		if d < closeEncounterDistance {
			res.CloseEncounters++
		}
	}

	if res.Encounters > 0 {
		res.AvgDistance = round2(total / float64(res.Encounters))
	}
	return res
}
