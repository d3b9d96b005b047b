package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Zuo-Peng/replay-coach/internal/classify"
	"github.com/Zuo-Peng/replay-coach/internal/config"
	"github.com/Zuo-Peng/replay-coach/internal/feedback"
	"github.com/Zuo-Peng/replay-coach/internal/index"
	"github.com/Zuo-Peng/replay-coach/internal/log"
	"github.com/Zuo-Peng/replay-coach/internal/pipeline"
	"github.com/Zuo-Peng/replay-coach/internal/report"
)

// app holds what the processing commands share.
type app struct {
	cfg      *config.Config
	db       *index.DB
	pipeline *pipeline.Pipeline
	closeLog func()
}

type appOptions struct {
	strategy   string
	noFeedback bool
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	closeLog, err := log.Setup(cfg.Log.File, log.Level(cfg.Log.Level))
	if err != nil {
		return nil, err
	}

	strategy := cfg.Strategy
	if opts.strategy != "" {
		strategy = opts.strategy
	}
	extractor, err := classify.New(strategy)
	if err != nil {
		closeLog()
		return nil, err
	}

	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open db: %w", err)
	}

	asm := &report.Assembler{
		ReportsDir:  cfg.ReportsDir,
		TrainingDir: cfg.TrainingDir,
		Index:       db,
		Timeout:     cfg.Feedback.Timeout.Duration,
	}
	if cfg.Feedback.Enabled && !opts.noFeedback {
		coach, err := newCoach(ctx, cfg)
		if err != nil {
			slog.Warn("Feedback disabled", slog.String("reason", err.Error()))
		} else {
			asm.Coach = coach
		}
	}

	return &app{
		cfg:      cfg,
		db:       db,
		pipeline: &pipeline.Pipeline{Extractor: extractor, Assembler: asm},
		closeLog: closeLog,
	}, nil
}

func newCoach(ctx context.Context, cfg *config.Config) (report.Coach, error) {
	gen, err := feedback.NewGemini(ctx, cfg.Feedback.APIKey, cfg.Feedback.Model)
	if err != nil {
		return nil, err
	}
	return feedback.NewAssistant(gen, cfg.Feedback.Attempts), nil
}

func (a *app) Close() {
	a.db.Close()
	a.closeLog()
}

// openIndex loads config and opens the report index for the read-only commands.
func openIndex() (*config.Config, *index.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
