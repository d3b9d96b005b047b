package tui

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each report row occupies.
const linesPerItem = 2

func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return styleEmpty.Width(width).Height(height).Render(m.emptyText())
	}

	end := min(len(m.results), m.listOffset+height/linesPerItem)
	lines := make([]string, 0, height)
	for i := m.listOffset; i < end; i++ {
		lines = append(lines, formatResultLine(m.results[i], width, i == m.cursor)...)
	}

	blank := strings.Repeat(" ", width)
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

func (m model) emptyText() string {
	switch {
	case len(m.all) > 0:
		return "Every match is lossy (C-l to show)"
	case m.query != "":
		return "No matches"
	case m.mode == modeList:
		return "No reports yet"
	default:
		return "Type to search"
	}
}

// formatResultLine renders a report row:
//
//	[>] key  MM-DD  kills accuracy[~]
//	    coach|event snippet
func formatResultLine(r search.Result, width int, selected bool) []string {
	date := r.PlayedAt
	if len(date) >= 10 {
		date = date[5:10]
	}

	stats := styleStats.Render(fmt.Sprintf("%dk %.0f%%", r.Kills, r.Accuracy))
	if isLossy(r) {
		stats += styleLossy.Render("~")
	}

	key := runewidth.Truncate(r.ReportKey, max(width-20, 0), "")
	line1 := fmt.Sprintf("%s %s %s", styleReportKey.Render(key), date, stats)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	var label string
	switch r.Kind {
	case index.NoteFeedback:
		label = styleKindFeedback.Render("coach ")
	case index.NoteEvent:
		label = styleKindEvent.Render("event ")
	}

	snippet := strings.NewReplacer("\n", " ", "\t", " ", ">>>", "", "<<<", "").Replace(r.Snippet)
	snippet = runewidth.Truncate(snippet, max(width-4-lipgloss.Width(label), 0), "")
	line2 := "    " + label + styleSnippet.Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor row inside the visible window.
func (m *model) adjustListScroll(listHeight int) {
	visible := max(listHeight/linesPerItem, 1)
	m.listOffset = min(m.listOffset, m.cursor)
	m.listOffset = max(m.listOffset, m.cursor-visible+1)
}
