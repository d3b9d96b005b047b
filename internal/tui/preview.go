package tui

import (
	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/render"
	"github.com/Zuo-Peng/replay-coach/internal/search"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type previewRenderedMsg struct {
	reportKey string
	noteID    int
	content   string
	hitLine   int
	err       error
}

// loadPreviewCmd renders the whole report off the update loop, scrolled to
// the hit note.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderReport(db, r.ReportKey, render.Options{
			HitNoteID: r.NoteID,
			Context:   -1,
			Width:     width,
			Query:     query,
		})
		return previewRenderedMsg{
			reportKey: r.ReportKey,
			noteID:    r.NoteID,
			content:   content,
			hitLine:   hitLine,
			err:       err,
		}
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
