// Package watch polls a replay directory and processes new files as they
// appear.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/ledger"
)

type Watcher struct {
	Dir      string
	Interval time.Duration
	Ledger   ledger.Ledger
	Run      index.Runner
	// OnPass is called after every poll, mainly for tests.
	OnPass func(index.Stats)
}

// Start polls until ctx is done. The first pass runs immediately.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.Ledger.Load(); err != nil {
		return err
	}

	slog.Info("Watching for replays", slog.String("dir", w.Dir), slog.Duration("interval", w.Interval))

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		w.pass(ctx)

		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Watcher) pass(ctx context.Context) {
	stats, err := index.ProcessAll(ctx, w.Ledger, w.Run, w.Dir)
	if err != nil && ctx.Err() == nil {
		slog.Error("Poll failed", slog.String("error", err.Error()))
	}
	if stats.Processed > 0 || stats.Errors > 0 {
		slog.Info("Poll complete", slog.String("stats", stats.String()))
	}
	if w.OnPass != nil {
		w.OnPass(stats)
	}
}
