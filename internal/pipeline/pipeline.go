// Package pipeline wires decoding, extraction, analysis and report assembly
// into a single run over one input file.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/replay-coach/internal/analysis"
	"github.com/Zuo-Peng/replay-coach/internal/classify"
	"github.com/Zuo-Peng/replay-coach/internal/event"
	"github.com/Zuo-Peng/replay-coach/internal/replay"
	"github.com/Zuo-Peng/replay-coach/internal/report"
	"github.com/Zuo-Peng/replay-coach/internal/scan"
)

var (
	ErrEmptyInput       = errors.New("input file is empty")
	ErrUnsupportedInput = errors.New("unsupported input file")
)

type Pipeline struct {
	Extractor classify.Extractor
	Assembler *report.Assembler
}

type Result struct {
	Report *report.MatchReport
	Dir    string
}

// Run builds and persists the report for path.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	r, err := p.Build(ctx, path)
	if err != nil {
		return nil, err
	}

	dir, err := p.Assembler.Assemble(ctx, r)
	if err != nil {
		return nil, err
	}

	slog.Info("Report written",
		slog.String("report", r.Key),
		slog.String("dir", dir),
		slog.Int("kills", r.Analysis.Summary.Kills),
		slog.Bool("lossy", r.Extraction.Lossy),
		slog.Bool("feedback", r.AIFeedback != "" && r.AIFeedback != report.FeedbackUnavailable))

	return &Result{Report: r, Dir: dir}, nil
}

// Build decodes and analyses path without persisting anything.
func (p *Pipeline) Build(ctx context.Context, path string) (*report.MatchReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedInput, path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	var (
		r   *report.MatchReport
		ext classify.Extraction
	)
	switch scan.KindOf(path) {
	case scan.KindReplay:
		r, ext, err = p.fromReplay(path)
	case scan.KindEvents:
		r, ext, err = fromStream(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	a, err := analysis.Run(ctx, ext.Events)
	if err != nil {
		return nil, fmt.Errorf("analyse: %w", err)
	}

	name := filepath.Base(path)
	r.Key = strings.TrimSuffix(name, filepath.Ext(name))
	r.SourcePath = abs
	r.Metadata.Source = name
	r.Analysis = a
	r.Extraction = report.ExtractionFrom(ext)

	slog.Debug("Extracted events",
		slog.String("path", path),
		slog.String("strategy", ext.Strategy),
		slog.Int("events", len(ext.Events)),
		slog.Int("skipped", ext.Skipped))

	return r, nil
}

func (p *Pipeline) fromReplay(path string) (*report.MatchReport, classify.Extraction, error) {
	rep, err := replay.DecodeFile(path)
	if err != nil {
		return nil, classify.Extraction{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if rep.Stop != nil {
		slog.Warn("Replay decoding stopped early",
			slog.String("path", path),
			slog.Int("chunks", len(rep.Chunks)),
			slog.String("reason", rep.Stop.Error()))
	}

	extractor := p.Extractor
	if extractor == nil {
		extractor = classify.Heuristic{}
	}
	ext, err := extractor.Extract(rep)
	if err != nil {
		return nil, classify.Extraction{}, fmt.Errorf("extract: %w", err)
	}

	return &report.MatchReport{
		Metadata: report.MetadataFromReplay(rep),
		Texts:    rep.EventTexts,
	}, ext, nil
}

func fromStream(path string) (*report.MatchReport, classify.Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classify.Extraction{}, err
	}
	defer f.Close()

	stream, err := event.ReadStream(f)
	if err != nil {
		return nil, classify.Extraction{}, fmt.Errorf("read events %s: %w", path, err)
	}

	texts := make([]string, 0, len(stream.Events))
	for _, ev := range stream.Events {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		texts = append(texts, string(data))
	}

	return &report.MatchReport{
		Metadata: report.Metadata{
			InputKind: report.InputEvents,
			Extra:     stream.Metadata,
		},
		Texts: texts,
	}, classify.FromStream(stream), nil
}
