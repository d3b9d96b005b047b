package tui

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Zuo-Peng/replay-coach/internal/classify"
	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/search"
	"github.com/samber/lo"
)

type sortOrder int

const (
	// sortDefault keeps the query order: rank for search, play time for list.
	sortDefault sortOrder = iota
	sortKills
	sortAccuracy
	sortOrders
)

func (o sortOrder) next() sortOrder { return (o + 1) % sortOrders }

func (o sortOrder) String() string {
	switch o {
	case sortKills:
		return "kills"
	case sortAccuracy:
		return "accuracy"
	default:
		return "default"
	}
}

// listView holds the settings applied locally on top of a query result.
type listView struct {
	order     sortOrder
	hideLossy bool
}

// apply returns the rows to show without modifying results.
func (v listView) apply(results []search.Result) []search.Result {
	var out []search.Result
	if v.hideLossy {
		out = lo.Reject(results, func(r search.Result, _ int) bool { return isLossy(r) })
	} else {
		out = slices.Clone(results)
	}

	switch v.order {
	case sortKills:
		slices.SortStableFunc(out, func(a, b search.Result) int { return cmp.Compare(b.Kills, a.Kills) })
	case sortAccuracy:
		slices.SortStableFunc(out, func(a, b search.Result) int { return cmp.Compare(b.Accuracy, a.Accuracy) })
	}
	return out
}

func isLossy(r search.Result) bool {
	return r.Strategy == classify.StrategyHeuristic
}

// nextKind cycles the note filter: all, coach, event.
func nextKind(kind string) string {
	switch kind {
	case "":
		return index.NoteFeedback
	case index.NoteFeedback:
		return index.NoteEvent
	default:
		return ""
	}
}

func kindLabel(kind string) string {
	switch kind {
	case index.NoteFeedback:
		return "coach notes"
	case index.NoteEvent:
		return "event notes"
	default:
		return "all notes"
	}
}

// summarize is the aggregate line above the panels.
func summarize(results []search.Result) string {
	if len(results) == 0 {
		return ""
	}
	kills := lo.SumBy(results, func(r search.Result) int { return r.Kills })
	acc := lo.SumBy(results, func(r search.Result) float64 { return r.Accuracy }) / float64(len(results))
	lossy := lo.CountBy(results, isLossy)
	return fmt.Sprintf("%d matches  %d kills  %.1f%% avg accuracy  %d lossy", len(results), kills, acc, lossy)
}
