package analysis

import (
	"github.com/Zuo-Peng/replay-coach/internal/event"
	"github.com/samber/lo"
)

var (
	healingItems = []string{"medkit", "bandage", "slurp_juice", "shield_potion", "mini_shield"}
	utilityItems = []string{"shockwave_grenade", "impulse_grenade", "port-a-fort", "launch_pad"}
)

type InventoryResult struct {
	ItemsCollected   map[string]int `json:"items_collected"`
	ItemsDropped     map[string]int `json:"items_dropped"`
	HealingItemsUsed int            `json:"healing_items_used"`
	UtilityItemsUsed int            `json:"utility_items_used"`
}

func Inventory(events []event.Event) InventoryResult {
	res := InventoryResult{
		ItemsCollected: map[string]int{},
		ItemsDropped:   map[string]int{},
	}

	for _, ev := range events {
		p, ok := ev.Payload.(event.Item)
		if !ok || p.Item == "" {
			continue
		}
		switch ev.Kind {
		case event.KindItemCollected:
			res.ItemsCollected[p.Item]++
		case event.KindItemDropped:
			res.ItemsDropped[p.Item]++
		case event.KindItemUsed:
			switch {
			case lo.Contains(healingItems, p.Item):
				res.HealingItemsUsed++
			case lo.Contains(utilityItems, p.Item):
				res.UtilityItemsUsed++
			}
		}
	}
	return res
}
