package tui

import (
	"testing"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/search"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func sampleResults() []search.Result {
	return []search.Result{
		{ReportKey: "early", NoteID: -1, Strategy: "structured", Kills: 2, Accuracy: 40},
		{ReportKey: "scrim", NoteID: -1, Strategy: "heuristic", Kills: 6, Accuracy: 10},
		{ReportKey: "finals", NoteID: -1, Strategy: "structured", Kills: 6, Accuracy: 55.5},
	}
}

func reportKeys(t *testing.T, rs []search.Result) []string {
	t.Helper()
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ReportKey
	}
	return out
}

func TestFormatResultLine(t *testing.T) {
	r := search.Result{
		ReportKey: "scrim_finals",
		PlayedAt:  "2026-10-18T09:30:00Z",
		Strategy:  "heuristic",
		Kills:     4,
		Accuracy:  31.5,
		Kind:      index.NoteFeedback,
		Snippet:   "Rotate >>>earlier<<< next\tgame",
	}

	lines := formatResultLine(r, 60, true)
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "scrim_finals")
	require.Contains(t, lines[0], "10-18")
	require.Contains(t, lines[0], "4k 32%")
	require.Contains(t, lines[0], "~")
	require.Contains(t, lines[1], "coach")
	require.Contains(t, lines[1], "Rotate earlier next game")
	require.NotContains(t, lines[1], ">>>")
}

func TestListViewApply(t *testing.T) {
	in := sampleResults()

	require.Equal(t, []string{"early", "scrim", "finals"}, reportKeys(t, listView{}.apply(in)))
	require.Equal(t, []string{"scrim", "finals", "early"}, reportKeys(t, listView{order: sortKills}.apply(in)))
	require.Equal(t, []string{"finals", "early", "scrim"}, reportKeys(t, listView{order: sortAccuracy}.apply(in)))
	require.Equal(t, []string{"finals", "early"}, reportKeys(t, listView{order: sortKills, hideLossy: true}.apply(in)))

	// the query result itself is never reordered
	require.Equal(t, []string{"early", "scrim", "finals"}, reportKeys(t, in))
}

func TestSortOrderCycles(t *testing.T) {
	o := sortDefault
	var seen []string
	for i := 0; i < 4; i++ {
		seen = append(seen, o.String())
		o = o.next()
	}
	require.Equal(t, []string{"default", "kills", "accuracy", "default"}, seen)
}

func TestNextKind(t *testing.T) {
	require.Equal(t, index.NoteFeedback, nextKind(""))
	require.Equal(t, index.NoteEvent, nextKind(index.NoteFeedback))
	require.Equal(t, "", nextKind(index.NoteEvent))
}

func TestSummarize(t *testing.T) {
	require.Empty(t, summarize(nil))
	require.Equal(t, "3 matches  14 kills  35.2% avg accuracy  1 lossy", summarize(sampleResults()))
}

func TestAdjustListScroll(t *testing.T) {
	m := model{results: make([]search.Result, 20)}
	m.cursor = 10
	m.adjustListScroll(8) // four rows visible
	require.Equal(t, 7, m.listOffset)

	m.cursor = 2
	m.adjustListScroll(8)
	require.Equal(t, 2, m.listOffset)
}

func TestUpdateNavigationAndOpen(t *testing.T) {
	m := newModel(nil, modeSearch, "", search.Options{})
	m.results = []search.Result{{ReportKey: "a", NoteID: -1}, {ReportKey: "b", NoteID: 4}}
	m.previewKey = previewCacheKey("b", 4)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	require.Equal(t, 1, m.cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	require.Equal(t, 1, m.cursor)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, cmd)
	require.True(t, m.quitting)
	require.Equal(t, exitOpen, m.action)
	require.Equal(t, "b", m.chosen.ReportKey)
	require.Equal(t, 4, m.chosen.NoteID)
}

func TestCopyKeyChoosesReport(t *testing.T) {
	m := newModel(nil, modeList, "", search.Options{})
	m.results = sampleResults()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = next.(model)
	require.NotNil(t, cmd)
	require.Equal(t, exitCopy, m.action)
	require.Equal(t, "early", m.chosen.ReportKey)
}

func TestChooseWithoutResultsDoesNothing(t *testing.T) {
	m := newModel(nil, modeList, "", search.Options{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Nil(t, next.(model).chosen)
}

func TestSortAndLossyKeysRelayout(t *testing.T) {
	m := newModel(nil, modeList, "", search.Options{})
	next, _ := m.Update(searchResultMsg{results: sampleResults()})
	m = next.(model)
	m.cursor = 2

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(model)
	require.Equal(t, sortKills, m.view.order)
	require.Equal(t, 0, m.cursor)
	require.Equal(t, "scrim", m.results[0].ReportKey)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(model)
	require.True(t, m.view.hideLossy)
	require.Equal(t, []string{"finals", "early"}, reportKeys(t, m.results))
	require.Len(t, m.all, 3)
	require.Contains(t, m.statusBar(), "exact only")
}

func TestKindKeyRefetchesAndDropsStaleKind(t *testing.T) {
	m := newModel(nil, modeSearch, "storm", search.Options{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = next.(model)
	require.NotNil(t, cmd)
	require.Equal(t, index.NoteFeedback, m.searchOpts.Kind)
	require.Contains(t, m.statusBar(), "coach notes")

	// a result fetched before the kind changed is ignored
	next, _ = m.Update(searchResultMsg{query: "storm", results: sampleResults()})
	require.Empty(t, next.(model).results)

	next, _ = m.Update(searchResultMsg{query: "storm", kind: index.NoteFeedback, results: sampleResults()})
	require.Len(t, next.(model).results, 3)
}

func TestStaleSearchResultIgnored(t *testing.T) {
	m := newModel(nil, modeSearch, "pump", search.Options{})

	next, _ := m.Update(searchResultMsg{query: "pu", results: []search.Result{{ReportKey: "x"}}})
	require.Empty(t, next.(model).results)

	next, _ = m.Update(searchResultMsg{query: "pump"})
	m = next.(model)
	require.Empty(t, m.results)
	require.Contains(t, m.statusBar(), "0 results")
	require.Equal(t, "No matches", m.emptyText())
}

func TestHitTest(t *testing.T) {
	m := newModel(nil, modeList, "", search.Options{})
	m.width, m.height = 100, 30
	m.results = make([]search.Result, 10)
	listW, _ := m.split()

	region, idx := m.hitTest(1, panelTop)
	require.Equal(t, regionList, region)
	require.Equal(t, 0, idx)

	region, idx = m.hitTest(listW, panelTop+3)
	require.Equal(t, regionList, region)
	require.Equal(t, 1, idx)

	region, _ = m.hitTest(listW+5, panelTop)
	require.Equal(t, regionPreview, region)

	region, _ = m.hitTest(1, 0)
	require.Equal(t, regionNone, region)
}
