package analysis

import "github.com/Zuo-Peng/replay-coach/internal/event"

type Materials struct {
	Wood  int `json:"wood"`
	Brick int `json:"brick"`
	Metal int `json:"metal"`
}

type BuildingResult struct {
	StructuresBuilt  int       `json:"structures_built"`
	MaterialsUsed    Materials `json:"materials_used"`
	DefensiveBuilds  int       `json:"defensive_builds"`
	AggressiveBuilds int       `json:"aggressive_builds"`
	EditsMade        int       `json:"edits_made"`
	BuildFights      int       `json:"build_fights"`
}

func Building(events []event.Event) BuildingResult {
	var res BuildingResult

	for _, ev := range events {
		switch ev.Kind {
		case event.KindBuild:
			res.StructuresBuilt++
			b, _ := ev.Payload.(event.Build)
			switch b.Material {
			case "wood":
				res.MaterialsUsed.Wood++
			case "brick":
				res.MaterialsUsed.Brick++
			case "metal":
				res.MaterialsUsed.Metal++
			}
			switch b.Style {
			case "defensive":
				res.DefensiveBuilds++
			case "aggressive":
				res.AggressiveBuilds++
			}
		case event.KindEdit:
			res.EditsMade++
		case event.KindBuildFight:
			res.BuildFights++
		}
	}
	return res
}
