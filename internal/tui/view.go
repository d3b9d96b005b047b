package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// panelTop is the first row inside the panels: input, summary, border.
const panelTop = 3

// chromeLines are the input, summary and status rows plus the list and
// preview borders.
const chromeLines = 3 + 4

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW, previewW := m.split()
	h := m.panelHeight()

	list := stylePanelBorder.Width(listW).Height(h).Render(m.renderList(listW, h))
	m.preview.Width, m.preview.Height = previewW, h
	preview := styleActiveBorder.Width(previewW).Height(h).Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.filterInput.View(),
		styleSummary.Render(summarize(m.results)),
		lipgloss.JoinHorizontal(lipgloss.Top, list, preview),
		m.statusBar(),
	)
}

// split gives 40% of the width to the list and 60% to the report, minus
// borders.
func (m model) split() (list, preview int) {
	if m.width <= 0 {
		return 40, 60
	}
	return max(m.width*40/100-4, 20), max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-chromeLines, 5)
}

func (m model) maxListOffset() int {
	return max(len(m.results)-m.panelHeight()/linesPerItem, 0)
}

// hitTest maps terminal coordinates to a panel and a list row index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	row := y - panelTop
	if row < 0 || row >= m.panelHeight() {
		return regionNone, -1
	}

	listW, _ := m.split()
	switch {
	case x >= 1 && x <= listW:
		return regionList, m.listOffset + row/linesPerItem
	case x > listW+2:
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	state := fmt.Sprintf("%d results | sort %s | %s", len(m.results), m.view.order, kindLabel(m.searchOpts.Kind))
	if m.view.hideLossy {
		state += " | exact only"
	}
	return styleStatusBar.Render(state) + " " + m.help.ShortHelpView(keys.ShortHelp())
}
