package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

type ZoneResult struct {
	TimeInZone       float64 `json:"time_in_zone"`
	TimeInStorm      float64 `json:"time_in_storm"`
	ZoneEntries      int     `json:"zone_entries"`
	StormDamageTaken float64 `json:"storm_damage_taken"`
	// StormExposureRatio is storm time over total tracked time, in [0, 1).
	StormExposureRatio float64 `json:"storm_exposure_ratio"`
}

func Zone(events []event.Event) ZoneResult {
	var res ZoneResult

	for _, ev := range events {
		switch ev.Kind {
		case event.KindZoneEnter:
			res.ZoneEntries++
			if s, ok := ev.Payload.(event.Span); ok {
				res.TimeInZone += quantity(s.Duration)
			}
		case event.KindStorm:
			if s, ok := ev.Payload.(event.Storm); ok {
				res.TimeInStorm += quantity(s.Duration)
				res.StormDamageTaken += quantity(s.Damage)
			}
		}
	}

	res.StormExposureRatio = round2(res.TimeInStorm / (res.TimeInZone + res.TimeInStorm + epsilon))
	if res.StormExposureRatio >= 1 {
		// storm-only matches round up to 1
		res.StormExposureRatio = 0.99
	}

	res.TimeInZone = round2(res.TimeInZone)
	res.TimeInStorm = round2(res.TimeInStorm)
	res.StormDamageTaken = round2(res.StormDamageTaken)
	return res
}
