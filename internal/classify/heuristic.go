package classify

import (
	"strconv"
	"strings"

	"github.com/Zuo-Peng/replay-coach/internal/event"
	"github.com/Zuo-Peng/replay-coach/internal/replay"
)

const damageMarker = "DamageDealt"

// maxDamageDigits keeps a run of garbage digits from overflowing.
const maxDamageDigits = 9

// Facts are keyword-derived estimates. Every field is an approximation.
type Facts struct {
	Eliminations    int `json:"eliminations"`
	ZoneEntries     int `json:"zone_entries"`
	DamageDealt     int `json:"damage_dealt"`
	Jumps           int `json:"jumps"`
	StructuresBuilt int `json:"structures_built"`
	// Unclassified texts matched no keyword, Ambiguous ones matched more than
	// one fact family.
	Unclassified int `json:"unclassified"`
	Ambiguous    int `json:"ambiguous"`
}

// Heuristic is the best-effort keyword extractor for replays whose event
// chunks are not structured records.
type Heuristic struct{}

func (Heuristic) Name() string { return StrategyHeuristic }

func (Heuristic) Extract(rep *replay.Replay) (Extraction, error) {
	facts := &Facts{}
	events := []event.Event{}

	for _, c := range rep.Chunks {
		if c.Kind != replay.KindEvent {
			continue
		}
		at := float64(c.TimestampMs) / 1000
		events = append(events, classifyText(c.Text, at, facts)...)
	}

	return Extraction{
		Strategy: StrategyHeuristic,
		Lossy:    true,
		Events:   events,
		Facts:    facts,
	}, nil
}

// ClassifyTexts runs the keyword rules over bare texts, without timestamps.
func ClassifyTexts(texts []string) Facts {
	var facts Facts
	for _, text := range texts {
		classifyText(text, 0, &facts)
	}
	return facts
}

func classifyText(text string, at float64, facts *Facts) []event.Event {
	var (
		out      []event.Event
		families int
	)

	if strings.Contains(text, "Elimination") || strings.Contains(text, "Kill") {
		facts.Eliminations++
		families++
		out = append(out, event.New(event.KindElimination, at, event.Elimination{}))
	}
	if strings.Contains(text, "SafeZone") {
		facts.ZoneEntries++
		families++
		out = append(out, event.New(event.KindZoneEnter, at, event.Span{}))
	}
	if strings.Contains(text, damageMarker) {
		families++
		for _, amount := range damageAmounts(text) {
			facts.DamageDealt += amount
			out = append(out, event.New(event.KindDamage, at, event.Damage{Target: "enemy", Amount: float64(amount)}))
		}
	}
	if strings.Contains(text, "Jump") {
		facts.Jumps++
		families++
		out = append(out, event.New(event.KindJump, at, event.Marker{}))
	}
	if strings.Contains(text, "Build") || strings.Contains(text, "Structure") {
		facts.StructuresBuilt++
		families++
		out = append(out, event.New(event.KindBuild, at, event.Build{}))
	}

	switch {
	case families == 0:
		facts.Unclassified++
	case families > 1:
		facts.Ambiguous++
	}
	return out
}

// damageAmounts returns the integer that directly follows each DamageDealt
// marker, allowing ':', '=' or spaces in between.
func damageAmounts(text string) []int {
	var amounts []int
	rest := text
	for {
		idx := strings.Index(rest, damageMarker)
		if idx < 0 {
			return amounts
		}
		rest = rest[idx+len(damageMarker):]

		i := 0
		for i < len(rest) && (rest[i] == ' ' || rest[i] == ':' || rest[i] == '=') {
			i++
		}
		j := i
		for j < len(rest) && j-i < maxDamageDigits && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		if j > i {
			if n, err := strconv.Atoi(rest[i:j]); err == nil {
				amounts = append(amounts, n)
			}
		}
		rest = rest[j:]
	}
}
