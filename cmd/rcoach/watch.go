package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zuo-Peng/replay-coach/internal/ledger"
	"github.com/Zuo-Peng/replay-coach/internal/watch"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var (
		dir        string
		strategy   string
		noFeedback bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the replay directory and analyse new replays as they appear",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, appOptions{strategy: strategy, noFeedback: noFeedback})
			if err != nil {
				return err
			}
			defer a.Close()

			if dir == "" {
				dir = a.cfg.ReplayDir
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return fmt.Errorf("replay directory not found: %s", dir)
			}

			w := &watch.Watcher{
				Dir:      dir,
				Interval: a.cfg.PollInterval.Duration,
				Ledger:   ledger.NewFile(a.cfg.LedgerPath),
				Run: func(ctx context.Context, path string) error {
					_, err := a.pipeline.Run(ctx, path)
					return err
				},
			}
			return w.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Replay directory (defaults to replay_dir from config)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Extraction strategy for .replay files (heuristic/structured)")
	cmd.Flags().BoolVar(&noFeedback, "no-feedback", false, "Skip the coaching feedback call")

	return cmd
}
