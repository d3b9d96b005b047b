package feedback

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/samber/lo"
)

const SystemPrompt = "You are a Fortnite coach providing tactical gameplay feedback."

// BuildPrompt renders the headline numbers and the per-module detail of a
// match into the user prompt sent to the model.
func BuildPrompt(a *analysis.Analysis, lossy bool) string {
	var b strings.Builder

	b.WriteString("Here's a summary of a player's Fortnite match. Please provide personalized tactical feedback, ")
	b.WriteString("including positioning, combat decisions, loadout usage, and rotation quality.\n\n")

	if lossy {
		b.WriteString("NOTE: these numbers were estimated from unstructured replay text and may be incomplete.\n\n")
	}

	weapons := "N/A"
	if len(a.Loadout) > 0 {
		names := lo.Keys(a.Loadout)
		slices.Sort(names)
		weapons = strings.Join(names, ", ")
	}

	b.WriteString("MATCH SUMMARY:\n")
	fmt.Fprintf(&b, "- Kills: %d\n", a.Summary.Kills)
	fmt.Fprintf(&b, "- Accuracy: %.2f%%\n", a.Summary.Accuracy)
	fmt.Fprintf(&b, "- Positioning Score: %.2f\n", a.Summary.PositioningScore)
	fmt.Fprintf(&b, "- Rotation Score: %d\n", a.Summary.RotationScore)
	fmt.Fprintf(&b, "- Zone Safety Time: %.2f seconds\n", a.Summary.ZoneSafety)
	fmt.Fprintf(&b, "- Average Enemy Distance: %.2f meters\n", a.EnemyProximity.AvgDistance)
	fmt.Fprintf(&b, "- Weapons Used: %s\n", weapons)

	section(&b, "COMBAT", a.Combat)
	section(&b, "ROTATION", a.Rotation)
	section(&b, "POSITIONING", a.Positioning)
	section(&b, "LOADOUT EFFICIENCY", a.Loadout)
	section(&b, "ENEMY PROXIMITY", a.EnemyProximity)

	b.WriteString("\nPlease keep your feedback concise but informative.\n")
	return b.String()
}

func section(b *strings.Builder, title string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	fmt.Fprintf(b, "\n%s:\n%s\n", title, data)
}
