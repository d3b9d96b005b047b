package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/search"
	"github.com/Zuo-Peng/replay-coach/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorYellow  = "\033[1;33m"
	sColorCyan    = "\033[1;36m"
	sColorDim     = "\033[2m"
)

func colorizeKind(kind string) string {
	switch kind {
	case index.NoteFeedback:
		return sColorCyan + kind + sColorReset
	case index.NoteEvent:
		return sColorYellow + kind + sColorReset
	default:
		return kind
	}
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func searchCmd() *cobra.Command {
	var kind, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across match events and coaching feedback",
		Long: `Search indexed reports using FTS5. Output is TSV for fzf integration:
  reportKey, noteId, playedAt, kind, kills, snippet

Recommended shell function (add to .zshrc):
  rcf() {
    rcoach search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'rcoach show {1} --hit {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(rcoach open {1} --hit {2})'
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := index.Prune(db); err != nil {
				return err
			}

			opts := search.Options{
				Kind:  kind,
				Since: since,
				Limit: limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				// first two fields (reportKey, noteID) stay plain for fzf {1} {2}
				fmt.Printf("%s\t%d\t%s%s%s\t%s\t%dk\t%s\n",
					r.ReportKey,
					r.NoteID,
					sColorDim, r.PlayedAt, sColorReset,
					colorizeKind(r.Kind),
					r.Kills,
					colorizeSnippet(oneLine(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by note kind (event/feedback)")
	cmd.Flags().StringVar(&since, "since", "", "Filter matches played since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
