package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Zuo-Peng/replay-coach/internal/ledger"
	"github.com/Zuo-Peng/replay-coach/internal/scan"
)

// Runner processes one input file end to end.
type Runner func(ctx context.Context, path string) error

type Stats struct {
	Scanned   int
	Processed int
	Skipped   int
	Pruned    int
	Errors    int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d processed=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Processed, s.Skipped, s.Pruned, s.Errors)
}

// ProcessAll runs every input under dir that the ledger has not seen yet.
// A file is appended to the ledger only after run succeeds, so failures are
// retried on the next call. The ledger is flushed once at the end.
func ProcessAll(ctx context.Context, l ledger.Ledger, run Runner, dir string) (Stats, error) {
	var stats Stats

	files, err := scan.ScanDir(dir)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	for _, fi := range files {
		if err := ctx.Err(); err != nil {
			return stats, errors.Join(err, l.Flush())
		}
		if l.Contains(fi.Name) {
			stats.Skipped++
			continue
		}

		if err := run(ctx, fi.Path); err != nil {
			stats.Errors++
			slog.Warn("Failed to process replay", slog.String("path", fi.Path), slog.String("error", err.Error()))
			continue
		}
		l.Append(fi.Name)
		stats.Processed++
	}

	if err := l.Flush(); err != nil {
		return stats, fmt.Errorf("flush ledger: %w", err)
	}
	return stats, nil
}

// Prune removes index rows whose source file no longer exists. Report
// directories on disk are left alone.
func Prune(db *DB) (int, error) {
	sources, err := db.AllSources()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key, path := range sources {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := db.DeleteReport(key); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

// NeedsUpdate reports whether the indexed row for key is missing or older
// than the file described by fi.
func NeedsUpdate(db *DB, key string, fi scan.FileInfo) (bool, error) {
	info, err := db.GetReportInfo(key)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil
	}
	return info.Mtime != fi.Mtime || info.Size != fi.Size, nil
}
