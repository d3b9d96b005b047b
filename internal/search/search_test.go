package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/report"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "rcoach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, key := range []string{"m1", "m2"} {
		r := &report.MatchReport{
			Key:        key,
			Texts:      []string{"Elimination with pump", "SafeZone reached 击杀"},
			Analysis:   analysis.Compute(nil),
			Extraction: report.ExtractionInfo{Strategy: "heuristic"},
		}
		require.NoError(t, db.PutReport(ctx, "/r/"+key, r))
	}
	require.NoError(t, db.PutFeedback(ctx, "m2", "Your rotations were late.\nUse the pump less."))
	return db
}

func TestSearchFTS(t *testing.T) {
	db := seed(t)

	results, err := Search(db, Options{Query: "pump"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	results, err = Search(db, Options{Query: "rotations", Kind: index.NoteFeedback})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "m2", results[0].ReportKey)
	require.Contains(t, results[0].Snippet, ">>>rotations<<<")

	results, err = Search(db, Options{Query: "pump", Limit: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearchLike(t *testing.T) {
	db := seed(t)

	results, err := Search(db, Options{Query: "击杀"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Contains(t, results[0].Snippet, ">>>击杀<<<")
}

func TestListAll(t *testing.T) {
	db := seed(t)

	results, err := ListAll(db, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, -1, r.NoteID)
		require.NotEmpty(t, r.Snippet)
	}
}

func TestMakeSnippet(t *testing.T) {
	require.Equal(t, "...ab>>>cd<<<ef...", makeSnippet("xxabcdefyy", "CD", 2))
	require.Equal(t, "short", makeSnippet("short", "zz", 10))
	require.Equal(t, "abcd...", makeSnippet("abcdefgh", "", 2))
}
