package render

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/report"
	"github.com/stretchr/testify/require"
)

func TestWrapLineSkipsEscapes(t *testing.T) {
	lines := wrapLine(colorBoldRed+"abcdef"+colorReset, 4)
	require.Len(t, lines, 2)
	require.Equal(t, colorBoldRed+"abcd", lines[0])

	require.Equal(t, []string{"全角"}, wrapLine("全角", 4))
	require.Len(t, wrapLine("全角字", 4), 2)
	require.Equal(t, []string{""}, wrapLine("", 10))
}

func TestHighlightKeywords(t *testing.T) {
	out := highlightKeywords("Pump and SMG", "pump AND smg")
	require.Equal(t, colorBoldRed+"Pump"+colorReset+" and "+colorBoldRed+"SMG"+colorReset, out)
	require.Equal(t, "text", highlightKeywords("text", ""))
}

func TestRenderReport(t *testing.T) {
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "rcoach.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	r := &report.MatchReport{
		Key:        "m1",
		Texts:      []string{"e0", "e1", "e2", "e3"},
		Analysis:   analysis.Compute(nil),
		Extraction: report.ExtractionInfo{Strategy: "heuristic", Lossy: true},
	}
	require.NoError(t, db.PutReport(ctx, "/r/m1", r))
	require.NoError(t, db.PutFeedback(ctx, "m1", "Rotate earlier."))

	out, hitLine, err := RenderReport(db, "m1", Options{HitNoteID: 4, Context: 1, Now: time.Now()})
	require.NoError(t, err)
	require.Contains(t, out, "numbers estimated")
	require.Contains(t, out, "(3 notes before)")
	require.Contains(t, out, "Rotate earlier.")

	lines := strings.Split(out, "\n")
	require.Greater(t, hitLine, 0)
	require.Contains(t, lines[hitLine], ">> COACH #4 <<")

	_, _, err = RenderReport(db, "missing", Options{})
	require.Error(t, err)
}
