package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

type PositioningResult struct {
	TimeInCover      float64 `json:"time_in_cover"`
	TimeInOpen       float64 `json:"time_in_open"`
	TimeOnHighGround float64 `json:"time_on_high_ground"`
	ExposedTime      float64 `json:"exposed_time"`
	// Score is the share of cover plus high ground time, 0..100.
	Score float64 `json:"score"`
}

func Positioning(events []event.Event) PositioningResult {
	var res PositioningResult

	for _, ev := range events {
		p, ok := ev.Payload.(event.Position)
		if !ok {
			continue
		}
		res.TimeInCover += quantity(p.InCover)
		res.TimeInOpen += quantity(p.InOpen)
		res.TimeOnHighGround += quantity(p.HighGround)
		res.ExposedTime += quantity(p.Exposed)
	}

	safe := res.TimeInCover + res.TimeOnHighGround
	total := safe + res.TimeInOpen + res.ExposedTime
	res.Score = percent(safe, total)

	res.TimeInCover = round2(res.TimeInCover)
	res.TimeInOpen = round2(res.TimeInOpen)
	res.TimeOnHighGround = round2(res.TimeOnHighGround)
	res.ExposedTime = round2(res.ExposedTime)
	return res
}
