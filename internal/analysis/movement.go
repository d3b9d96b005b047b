package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

type MovementResult struct {
	DistanceTraveled float64 `json:"distance_traveled"`
	SprintTime       float64 `json:"sprint_time"`
	WalkTime         float64 `json:"walk_time"`
	JumpCount        int     `json:"jump_count"`
	ZiplineUsed      int     `json:"zipline_used"`
}

func Movement(events []event.Event) MovementResult {
	var res MovementResult

	for _, ev := range events {
		switch ev.Kind {
		case event.KindMovement:
			m, ok := ev.Payload.(event.Movement)
			if !ok {
				continue
			}
			res.DistanceTraveled += quantity(m.Distance)
			switch m.Mode {
			case "sprint":
				res.SprintTime += quantity(m.Duration)
			case "walk":
				res.WalkTime += quantity(m.Duration)
			}
		case event.KindJump:
			res.JumpCount++
		case event.KindZiplineUsed:
			res.ZiplineUsed++
		}
	}

	res.DistanceTraveled = round2(res.DistanceTraveled)
	res.SprintTime = round2(res.SprintTime)
	res.WalkTime = round2(res.WalkTime)
	return res
}
