package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/replay-coach/internal/ledger"
	"github.com/Zuo-Peng/replay-coach/internal/report"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	var (
		strategy   string
		noFeedback bool
		printJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Analyse replay (.replay) or event stream (.json) files and write reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, appOptions{strategy: strategy, noFeedback: noFeedback})
			if err != nil {
				return err
			}
			defer a.Close()

			l := ledger.NewFile(a.cfg.LedgerPath)
			if err := l.Load(); err != nil {
				return err
			}

			var failed int
			for _, path := range args {
				res, err := a.pipeline.Run(ctx, path)
				if err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "  WARN: %s: %v\n", path, err)
					continue
				}
				l.Append(res.Report.Metadata.Source)

				if printJSON {
					if err := report.Encode(os.Stdout, res.Report); err != nil {
						return err
					}
				} else {
					fmt.Println(res.Dir)
				}
			}

			if err := l.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Extraction strategy for .replay files (heuristic/structured)")
	cmd.Flags().BoolVar(&noFeedback, "no-feedback", false, "Skip the coaching feedback call")
	cmd.Flags().BoolVar(&printJSON, "print", false, "Print the full report JSON instead of the report directory")

	return cmd
}
