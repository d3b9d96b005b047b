// Package tui is the interactive report browser behind `list` and `search`.
package tui

import (
	"fmt"
	"time"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/open"
	"github.com/Zuo-Peng/replay-coach/internal/search"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeList
)

// exitAction is what happens to the chosen report after the browser closes.
type exitAction int

const (
	exitNone exitAction = iota
	exitOpen
	exitCopy
)

type searchResultMsg struct {
	query   string
	kind    string
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

type model struct {
	db          *index.DB
	searchOpts  search.Options
	mode        tuiMode
	query       string
	all         []search.Result // as returned by the last query
	results     []search.Result // all, after view
	view        listView
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // "reportKey:noteID" of the rendered preview
	help        help.Model
	width       int
	height      int
	ready       bool
	quitting    bool
	chosen      *search.Result
	action      exitAction
}

func newModel(db *index.DB, mode tuiMode, query string, opts search.Options) model {
	ti := textinput.New()
	ti.Placeholder = "Search match events and coaching..."
	if mode == modeList {
		ti.Placeholder = "Filter reports..."
	}
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256
	ti.SetValue(query)
	ti.Focus()

	h := help.New()
	h.ShortSeparator = " | "

	return model{
		db:          db,
		searchOpts:  opts,
		mode:        mode,
		query:       query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
		help:        h,
	}
}

// Run starts the browser on a full-text query.
func Run(db *index.DB, query string, opts search.Options) error {
	return run(db, newModel(db, modeSearch, query, opts))
}

// RunList starts the browser on every report, newest match first.
func RunList(db *index.DB, opts search.Options) error {
	return run(db, newModel(db, modeList, "", opts))
}

func run(db *index.DB, m model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := final.(model)
	if fm.chosen == nil {
		return nil
	}
	switch fm.action {
	case exitOpen:
		return open.OpenReport(db, fm.chosen.ReportKey, fm.chosen.NoteID)
	case exitCopy:
		return copyReportDir(db, fm.chosen.ReportKey)
	}
	return nil
}

// copyReportDir puts the report directory on the clipboard, or prints it
// when no clipboard is available.
func copyReportDir(db *index.DB, key string) error {
	row, err := db.GetReportByKey(key)
	if err != nil {
		return fmt.Errorf("get report: %w", err)
	}
	if row == nil {
		return fmt.Errorf("report not found: %s", key)
	}

	if err := clipboard.WriteAll(row.ReportDir); err != nil {
		fmt.Println(row.ReportDir)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", row.ReportDir)
	return nil
}

func (m model) Init() tea.Cmd {
	if m.mode == modeList || m.query != "" {
		return tea.Batch(textinput.Blink, m.fetch(m.query))
	}
	return textinput.Blink
}

// fetch runs query for the current mode. An empty query lists every report
// in list mode and clears the results in search mode.
func (m model) fetch(query string) tea.Cmd {
	db, mode := m.db, m.mode
	opts := m.searchOpts
	opts.Query = query
	return func() tea.Msg {
		msg := searchResultMsg{query: query, kind: opts.Kind}
		switch {
		case query != "":
			msg.results, msg.err = search.Search(db, opts)
		case mode == modeList:
			msg.results, msg.err = search.ListAll(db, opts)
		}
		return msg
	}
}

func (m model) debounce(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) selected() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

func (m model) loadCurrentPreview() tea.Cmd {
	r, ok := m.selected()
	if !ok || previewCacheKey(r.ReportKey, r.NoteID) == m.previewKey {
		return nil
	}
	_, width := m.split()
	return loadPreviewCmd(m.db, r, m.query, width)
}

func previewCacheKey(reportKey string, noteID int) string {
	return fmt.Sprintf("%s:%d", reportKey, noteID)
}
