package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/ledger"
	"github.com/Zuo-Peng/replay-coach/internal/watch"
	"github.com/stretchr/testify/require"
)

func TestWatcherProcessesNewFilesOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.replay"), []byte("x"), 0o644))

	ledgerPath := filepath.Join(t.TempDir(), "processed.json")
	l := ledger.NewFile(ledgerPath)

	var (
		mu     sync.Mutex
		seen   []string
		passes int
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &watch.Watcher{
		Dir:      dir,
		Interval: 5 * time.Millisecond,
		Ledger:   l,
		Run: func(_ context.Context, path string) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, filepath.Base(path))
			return nil
		},
		OnPass: func(index.Stats) {
			mu.Lock()
			defer mu.Unlock()
			passes++
			if passes == 1 {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "two.replay"), []byte("x"), 0o644))
			}
			if passes == 4 {
				cancel()
			}
		},
	}

	require.NoError(t, w.Start(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"one.replay", "two.replay"}, seen)

	reloaded := ledger.NewFile(ledgerPath)
	require.NoError(t, reloaded.Load())
	require.True(t, reloaded.Contains("two.replay"))
}
