package analysis

// Summary is a projection of headline numbers from the other modules.
type Summary struct {
	Kills            int     `json:"kills"`
	Accuracy         float64 `json:"accuracy"`
	RotationScore    int     `json:"rotation_score"`
	PositioningScore float64 `json:"positioning_score"`
	ZoneSafety       float64 `json:"zone_safety"`
}

func Summarize(a *Analysis) Summary {
	return Summary{
		Kills:            a.Combat.Eliminations,
		Accuracy:         a.Combat.Accuracy,
		RotationScore:    a.Rotation.Score,
		PositioningScore: a.Positioning.Score,
		ZoneSafety:       a.Zone.TimeInZone,
	}
}
