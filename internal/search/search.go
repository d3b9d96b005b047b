package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/replay-coach/internal/index"
)

type Result struct {
	ReportKey string
	NoteID    int
	PlayedAt  string
	Strategy  string
	Kills     int
	Accuracy  float64
	Snippet   string
	Kind      string
	Rank      float64
}

type Options struct {
	Query string
	Kind  string // "" = all, "event", "feedback"
	Since string // "" = no filter, e.g. "2024-01-01"
	Limit int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	runes := []rune(text)
	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if idx < 0 || query == "" {
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}
	qLen := len([]rune(query))
	runePos := len([]rune(text[:idx]))
	start := max(runePos-contextChars, 0)
	end := min(runePos+qLen+contextChars, len(runes))

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(string(runes[start:runePos]))
	b.WriteString(">>>" + string(runes[runePos:runePos+qLen]) + "<<<")
	b.WriteString(string(runes[runePos+qLen : end]))
	if end < len(runes) {
		b.WriteString("...")
	}
	return b.String()
}

// Search matches notes and returns the best hit per report.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// fetch extra rows so enough remain after dedup
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var (
		results []Result
		err     error
	)
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.ReportKey] {
			continue
		}
		seen[r.ReportKey] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

func filters(opts Options) ([]string, []any) {
	var (
		conditions []string
		args       []any
	)
	if opts.Kind != "" {
		conditions = append(conditions, "n.kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.Since != "" {
		conditions = append(conditions, "r.played_at >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts)
	conditions = append([]string{"notes_fts MATCH ?"}, conditions...)
	args = append([]any{opts.Query}, args...)

	query := fmt.Sprintf(`
		SELECT
			n.report_key,
			n.note_id,
			r.played_at,
			r.strategy,
			r.kills,
			r.accuracy,
			snippet(notes_fts, 0, '>>>','<<<', '...', 40) as snip,
			n.kind,
			bm25(notes_fts, 1.0) as rank
		FROM notes_fts
		JOIN notes n ON notes_fts.rowid = n.rowid
		JOIN reports r ON n.report_key = r.report_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions, args := filters(opts)
	conditions = append([]string{"n.text LIKE ?"}, conditions...)
	args = append([]any{"%" + opts.Query + "%"}, args...)

	query := fmt.Sprintf(`
		SELECT
			n.report_key,
			n.note_id,
			r.played_at,
			r.strategy,
			r.kills,
			r.accuracy,
			n.text,
			n.kind,
			0
		FROM notes n
		JOIN reports r ON n.report_key = r.report_key
		WHERE %s
		ORDER BY r.played_at DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	results, err := scanResults(rows)
	for i := range results {
		results[i].Snippet = makeSnippet(results[i].Snippet, opts.Query, 30)
	}
	return results, err
}

// ListAll returns one entry per report, newest first, for browsing without a
// query. The snippet is the head of the stored feedback.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	rows, err := db.ListReports(opts.Since, opts.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(rows))
	for _, r := range rows {
		snippet := r.Feedback
		if snippet == "" {
			snippet = fmt.Sprintf("rotation %d, positioning %.2f, zone %.2fs", r.RotationScore, r.PositioningScore, r.ZoneSafety)
		}
		results = append(results, Result{
			ReportKey: r.ReportKey,
			NoteID:    -1,
			PlayedAt:  r.PlayedAt,
			Strategy:  r.Strategy,
			Kills:     r.Kills,
			Accuracy:  r.Accuracy,
			Snippet:   makeSnippet(snippet, "", 60),
		})
	}
	return results, nil
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.ReportKey, &r.NoteID, &r.PlayedAt,
			&r.Strategy, &r.Kills, &r.Accuracy,
			&r.Snippet, &r.Kind, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
