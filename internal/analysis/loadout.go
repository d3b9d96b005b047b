package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

type ItemUsage struct {
	Uses         int     `json:"uses"`
	Damage       float64 `json:"damage"`
	DamagePerUse float64 `json:"damage_per_use"`
}

// Loadout tracks per-item usage. Damage is credited to an item only when the
// damage event names it as source after the item has been used at least once.
func Loadout(events []event.Event) map[string]ItemUsage {
	stats := map[string]*ItemUsage{}

	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case event.Item:
			if ev.Kind != event.KindItemUsed || p.Item == "" {
				continue
			}
			u, ok := stats[p.Item]
			if !ok {
				u = &ItemUsage{}
				stats[p.Item] = u
			}
			u.Uses++
		case event.Damage:
			if u, ok := stats[p.Source]; ok {
				u.Damage += quantity(p.Amount)
			}
		}
	}

	out := make(map[string]ItemUsage, len(stats))
	for item, u := range stats {
		out[item] = ItemUsage{
			Uses:         u.Uses,
			Damage:       round2(u.Damage),
			DamagePerUse: round2(u.Damage / float64(u.Uses)),
		}
	}
	return out
}
