package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/replay-coach/internal/config"
	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/ledger"
	"github.com/Zuo-Peng/replay-coach/internal/scan"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify directories, DB, FTS5, feedback setup, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			if cfg.Path != "" {
				fmt.Printf("  File: %s\n", cfg.Path)
			} else {
				fmt.Println("  File: none (defaults)")
			}
			fmt.Printf("  Strategy: %s\n", cfg.Strategy)
			fmt.Printf("  Poll interval: %s\n", cfg.PollInterval.Duration)

			fmt.Println("\n=== Directories ===")
			checkDir("Replays", cfg.ReplayDir)
			checkDir("Reports", cfg.ReportsDir)
			checkDir("Training", cfg.TrainingDir)

			fmt.Println("\n=== File Scan ===")
			files, err := scan.ScanDir(cfg.ReplayDir)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			}
			replays, streams := 0, 0
			for _, f := range files {
				if f.Kind == scan.KindReplay {
					replays++
				} else {
					streams++
				}
			}
			fmt.Printf("  Replay files:       %d\n", replays)
			fmt.Printf("  Event stream files: %d\n", streams)

			fmt.Println("\n=== Ledger ===")
			l := ledger.NewFile(cfg.LedgerPath)
			if err := l.Load(); err != nil {
				fmt.Printf("  %s: %v\n", cfg.LedgerPath, err)
			} else {
				pending := 0
				for _, f := range files {
					if !l.Contains(f.Name) {
						pending++
					}
				}
				fmt.Printf("  Processed: %d\n", l.Len())
				fmt.Printf("  Pending:   %d\n", pending)
			}

			fmt.Println("\n=== Feedback ===")
			switch {
			case !cfg.Feedback.Enabled:
				fmt.Println("  Status: disabled")
			case cfg.Feedback.APIKey == "":
				fmt.Println("  Status: NO API KEY (set GEMINI_API_KEY or feedback.api_key)")
			default:
				fmt.Printf("  Status: OK (model %s, timeout %s)\n", cfg.Feedback.Model, cfg.Feedback.Timeout.Duration)
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'rcoach analyze' or 'rcoach watch' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			reportCount, err := db.ReportCount()
			if err != nil {
				return fmt.Errorf("count reports: %w", err)
			}
			noteCount, err := db.NoteCount()
			if err != nil {
				return fmt.Errorf("count notes: %w", err)
			}
			fmt.Printf("  Reports: %d\n", reportCount)
			fmt.Printf("  Notes:   %d\n", noteCount)

			stale := 0
			for _, f := range files {
				key := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
				if !l.Contains(f.Name) {
					continue
				}
				if needs, err := index.NeedsUpdate(db, key, f); err == nil && needs {
					stale++
				}
			}
			fmt.Printf("  Stale:   %d\n", stale)

			fmt.Println("\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM notes_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == noteCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (notes=%d, fts=%d)\n", noteCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %s ===\n", humanize.Bytes(uint64(info.Size())))
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
