package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset    = "\033[0m"
	colorEvent    = "\033[1;34m" // bold blue
	colorFeedback = "\033[1;32m" // bold green
	colorLossy    = "\033[2;35m" // dim magenta for estimated numbers
	colorDim      = "\033[2m"
	colorHit      = "\033[43m"   // yellow background
	colorBoldRed  = "\033[1;31m" // bold red for keyword highlights
)

type Options struct {
	HitNoteID int
	Context   int    // notes before/after hit to show
	Width     int    // wrap width (0 = no wrap)
	Query     string // search query for keyword highlighting
	Now       time.Time
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	terms := strings.Fields(query)
	var filtered []string
	for _, t := range terms {
		if !fts5Operators[t] {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return text
	}
	for _, term := range filtered {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// RenderReport renders the headline numbers of a report followed by its
// notes, and returns the content and the 0-based line of the hit note
// (-1 if there is none).
func RenderReport(db *index.DB, key string, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if opts.Context < 0 {
		opts.Context = 1000000 // no limit
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	row, err := db.GetReportByKey(key)
	if err != nil {
		return "", -1, fmt.Errorf("get report: %w", err)
	}
	if row == nil {
		return "", -1, fmt.Errorf("report not found: %s", key)
	}

	notes, hitIdx, startPos, totalCount, err := db.GetNotesWindow(key, opts.HitNoteID, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get notes: %w", err)
	}

	var (
		b         strings.Builder
		hitLine   = -1
		lineCount = 0
		separator = colorDim + "--------------------------------------------------" + colorReset
	)

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(fmt.Sprintf("%s--- %s [%s] %s ---%s", colorDim, key, row.Strategy, playedAgo(row.PlayedAt, opts.Now), colorReset))
	if info, err := db.GetReportInfo(key); err == nil && info != nil && info.Size > 0 {
		writeLine(fmt.Sprintf("%ssource %s (%s)%s", colorDim, row.SourcePath, humanize.Bytes(uint64(info.Size)), colorReset))
	}
	if row.Lossy {
		writeLine(colorLossy + "numbers estimated from replay text" + colorReset)
	}
	if row.StopReason != "" {
		writeLine(fmt.Sprintf("%sdecoding stopped: %s%s", colorDim, row.StopReason, colorReset))
	}
	writeLine(fmt.Sprintf("  kills %d  accuracy %.2f%%  rotation %d  positioning %.2f  zone %.2fs",
		row.Kills, row.Accuracy, row.RotationScore, row.PositioningScore, row.ZoneSafety))
	writeLine("")

	if totalCount == 0 {
		writeLine(colorDim + "(no notes)" + colorReset)
		return b.String(), hitLine, nil
	}

	if startPos > 0 {
		writeLine(fmt.Sprintf("%s... (%d notes before) ...%s", colorDim, startPos, colorReset))
	}

	for i, n := range notes {
		isHit := i == hitIdx
		if i > 0 && notes[i-1].Kind != n.Kind {
			writeLine(separator)
		}
		if isHit {
			hitLine = lineCount
		}

		label, color := "EVENT", colorEvent
		if n.Kind == index.NoteFeedback {
			label, color = "COACH", colorFeedback
		}

		text := indentLines(highlightKeywords(n.Text, opts.Query), "  ")
		if isHit {
			writeLine(fmt.Sprintf("%s>> %s #%d <<%s", colorHit, label, n.NoteID, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s%s %s#%d%s", color, label, colorReset, colorDim, n.NoteID, colorReset))
		}
		for _, tl := range strings.Split(text, "\n") {
			writeLine(tl)
		}
	}

	if skipAfter := totalCount - startPos - len(notes); skipAfter > 0 {
		writeLine(fmt.Sprintf("%s... (%d notes after) ...%s", colorDim, skipAfter, colorReset))
	}

	return b.String(), hitLine, nil
}

func playedAgo(playedAt string, now time.Time) string {
	t, err := time.Parse("2006-01-02T15:04:05Z", playedAt)
	if err != nil {
		return playedAt
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
