package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

const (
	rotationBaseScore        = 100
	longRotationDistance     = 100.0
	longRotationPenalty      = 15
	slowRotationSpeed        = 5.0
	slowRotationSpeedPenalty = 10
)

type RotationEntry struct {
	From        event.Point `json:"from"`
	To          event.Point `json:"to"`
	Distance    float64     `json:"distance"`
	StartTime   float64     `json:"start_time"`
	EndTime     float64     `json:"end_time"`
	TimeBetween float64     `json:"time_between"`
}

type RotationResult struct {
	Rotations           []RotationEntry `json:"rotations"`
	AvgRotationDistance float64         `json:"avg_rotation_distance"`
	AvgTimeBetween      float64         `json:"avg_time_between"`
	AvgRotationSpeed    float64         `json:"avg_rotation_speed"`
	Score               int             `json:"score"`
}

// Rotation measures travel between consecutive safe-zone centers. A new_zone
// event without a usable center breaks the chain.
func Rotation(events []event.Event) RotationResult {
	res := RotationResult{Rotations: []RotationEntry{}, Score: rotationBaseScore}

	var (
		prevCenter event.Point
		prevTime   float64

		moves    int
		path     float64
		lastStep event.Point
	)

	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case event.NewZone:
			center := p.Center
			if len(center) < 2 {
				center = nil
			}
			if prevCenter != nil && center != nil {
				res.Rotations = append(res.Rotations, RotationEntry{
					From:        prevCenter,
					To:          center,
					Distance:    round2(distance(prevCenter, center)),
					StartTime:   prevTime,
					EndTime:     ev.Time,
					TimeBetween: round2(ev.Time - prevTime),
				})
			}
			prevCenter = center
			prevTime = ev.Time
		case event.Movement:
			moves++
			if lastStep != nil && len(p.Position) >= 2 {
				path += distance(lastStep, p.Position)
			}
			if len(p.Position) >= 2 {
				lastStep = p.Position
			}
		}
	}

	if n := len(res.Rotations); n > 0 {
		var dist, elapsed float64
		for _, r := range res.Rotations {
			dist += r.Distance
			elapsed += r.TimeBetween
		}
		res.AvgRotationDistance = round2(dist / float64(n))
		res.AvgTimeBetween = round2(elapsed / float64(n))
		if res.AvgRotationDistance > longRotationDistance {
			res.Score -= longRotationPenalty
		}
	}

	if moves > 0 {
		res.AvgRotationSpeed = round2(path / float64(moves))
		if res.AvgRotationSpeed < slowRotationSpeed {
			res.Score -= slowRotationSpeedPenalty
		}
	}

	res.Score = int(clamp(float64(res.Score), 0, rotationBaseScore))
	return res
}
