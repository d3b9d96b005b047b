package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		_, w := m.split()
		m.preview = newViewport(w, m.panelHeight())
		m.previewKey = ""
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case debounceTickMsg:
		if msg.query != m.query {
			return m, nil
		}
		return m, m.fetch(msg.query)

	case searchResultMsg:
		if msg.query != m.query || msg.kind != m.searchOpts.Kind {
			return m, nil // stale
		}
		if msg.err != nil {
			m.all, m.results = nil, nil
			m.cursor, m.listOffset = 0, 0
			m.preview.SetContent("Error: " + msg.err.Error())
			m.previewKey = ""
			return m, nil
		}
		m.all = msg.results
		return m.relayout()

	case previewRenderedMsg:
		return m.showPreview(msg), nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Open):
		return m.choose(exitOpen)
	case key.Matches(msg, keys.Copy):
		return m.choose(exitCopy)
	case key.Matches(msg, keys.Up):
		return m.moveTo(m.cursor - 1)
	case key.Matches(msg, keys.Down):
		return m.moveTo(m.cursor + 1)
	case key.Matches(msg, keys.ScrollUp):
		m.preview.LineUp(m.panelHeight() / 2)
		return m, nil
	case key.Matches(msg, keys.ScrollDown):
		m.preview.LineDown(m.panelHeight() / 2)
		return m, nil
	case key.Matches(msg, keys.Sort):
		m.view.order = m.view.order.next()
		return m.relayout()
	case key.Matches(msg, keys.Lossy):
		m.view.hideLossy = !m.view.hideLossy
		return m.relayout()
	case key.Matches(msg, keys.Kind):
		m.searchOpts.Kind = nextKind(m.searchOpts.Kind)
		return m, m.fetch(m.query)
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if q := m.filterInput.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(cmd, m.debounce(q))
	}
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}

	region, idx := m.hitTest(msg.X, msg.Y)
	switch region {
	case regionList:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.listOffset = max(m.listOffset-1, 0)
		case msg.Button == tea.MouseButtonWheelDown:
			m.listOffset = min(m.listOffset+1, m.maxListOffset())
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			return m.moveTo(idx)
		}
	case regionPreview:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) moveTo(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.results) || i == m.cursor {
		return m, nil
	}
	m.cursor = i
	m.adjustListScroll(m.panelHeight())
	return m, m.loadCurrentPreview()
}

func (m model) choose(a exitAction) (tea.Model, tea.Cmd) {
	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.chosen = &r
	m.action = a
	m.quitting = true
	return m, tea.Quit
}

// relayout reapplies the view settings to the last query result and selects
// the first row.
func (m model) relayout() (tea.Model, tea.Cmd) {
	m.results = m.view.apply(m.all)
	m.cursor, m.listOffset = 0, 0
	if len(m.results) == 0 {
		m.preview.SetContent("")
		m.previewKey = ""
		return m, nil
	}
	return m, m.loadCurrentPreview()
}

func (m model) showPreview(msg previewRenderedMsg) model {
	key := previewCacheKey(msg.reportKey, msg.noteID)
	r, ok := m.selected()
	if !ok || key == m.previewKey || key != previewCacheKey(r.ReportKey, r.NoteID) {
		return m
	}

	if msg.err != nil {
		m.preview.SetContent("Preview error: " + msg.err.Error())
	} else {
		m.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		} else {
			m.preview.GotoTop()
		}
	}
	m.previewKey = key
	return m
}
