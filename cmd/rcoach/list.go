package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/search"
	"github.com/Zuo-Peng/replay-coach/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func listCmd() *cobra.Command {
	var since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all reports, newest match first",
		Long:  `Opens a TUI panel showing every indexed report sorted by play time (newest first). Type to filter by report name or coaching text.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			// drop rows whose replay was deleted since the last run
			if _, err := index.Prune(db); err != nil {
				return err
			}

			opts := search.Options{
				Since: since,
				Limit: limit,
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.RunList(db, opts)
			}

			results, err := search.ListAll(db, opts)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%s\t%s\t%s\t%d\t%.2f\t%s\n",
					r.ReportKey,
					r.PlayedAt,
					r.Strategy,
					r.Kills,
					r.Accuracy,
					oneLine(r.Snippet),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Filter matches played since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
