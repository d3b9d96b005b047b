package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	ReportFile   = "report.json"
	FullFile     = "analysis_full.json"
	FeedbackFile = "feedback.txt"
)

type Narrative struct {
	Prompt string
	Text   string
}

// Coach turns a numeric report into a coaching narrative.
type Coach interface {
	Coach(ctx context.Context, r *MatchReport) (Narrative, error)
}

// Index records assembled reports for later browsing.
type Index interface {
	PutReport(ctx context.Context, dir string, r *MatchReport) error
	PutFeedback(ctx context.Context, key, text string) error
}

type TrainingSample struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

type Assembler struct {
	ReportsDir  string
	TrainingDir string
	// Index and Coach are optional.
	Index Index
	Coach Coach
	// Timeout bounds a single Coach call, including its retries.
	Timeout time.Duration
	Now     func() time.Time
}

// Assemble persists r under ReportsDir/<key> and, when a coach is set,
// attaches its narrative. Only failures to persist the numeric report are
// returned; everything in the feedback stage is logged and swallowed.
func (a *Assembler) Assemble(ctx context.Context, r *MatchReport) (string, error) {
	if r.Key == "" {
		return "", errors.New("report key is empty")
	}
	dir := filepath.Join(a.ReportsDir, r.Key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	numeric, err := Marshal(r.Numeric())
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ReportFile), numeric, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if a.Index != nil {
		if err := a.Index.PutReport(ctx, dir, r); err != nil {
			return "", fmt.Errorf("index report: %w", err)
		}
	}

	if a.Coach == nil {
		return dir, nil
	}
	if r.Analysis == nil || r.Analysis.IsEmpty() {
		slog.Warn("Analysis is empty, skipping feedback", slog.String("report", r.Key))
		return dir, nil
	}

	a.feedback(ctx, dir, r)
	return dir, nil
}

// feedback attaches the coach's narrative, or the unavailable sentinel, and
// writes feedback.txt and analysis_full.json either way. Only a real
// narrative is indexed and kept as a training sample.
func (a *Assembler) feedback(ctx context.Context, dir string, r *MatchReport) {
	n, err := a.coach(ctx, r)
	if err != nil {
		slog.Error("Feedback unavailable", slog.String("report", r.Key), slog.String("error", err.Error()))
		r.AIFeedback = FeedbackUnavailable
	} else {
		r.AIFeedback = n.Text
	}

	if err := os.WriteFile(filepath.Join(dir, FeedbackFile), []byte(r.AIFeedback), 0o644); err != nil {
		slog.Error("Failed to write feedback", slog.String("error", err.Error()))
	}
	if full, err := Marshal(r); err != nil {
		slog.Error("Failed to encode full report", slog.String("error", err.Error()))
	} else if err := os.WriteFile(filepath.Join(dir, FullFile), full, 0o644); err != nil {
		slog.Error("Failed to write full report", slog.String("error", err.Error()))
	}
	if err != nil {
		return
	}

	if a.Index != nil {
		if err := a.Index.PutFeedback(ctx, r.Key, n.Text); err != nil {
			slog.Error("Failed to index feedback", slog.String("error", err.Error()))
		}
	}
	if path, err := a.saveSample(TrainingSample{Prompt: n.Prompt, Response: n.Text}); err != nil {
		slog.Error("Failed to save training sample", slog.String("error", err.Error()))
	} else {
		slog.Debug("Saved training sample", slog.String("path", path))
	}
}

// coach bounds the Coach call by Timeout without shortening ctx for the
// writes that follow it.
func (a *Assembler) coach(ctx context.Context, r *MatchReport) (Narrative, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	return a.Coach.Coach(ctx, r.Numeric())
}

func (a *Assembler) saveSample(s TrainingSample) (string, error) {
	if a.TrainingDir == "" {
		return "", errors.New("training dir not configured")
	}
	if err := os.MkdirAll(a.TrainingDir, 0o755); err != nil {
		return "", err
	}
	data, err := Marshal(s)
	if err != nil {
		return "", err
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	stamp := now().Format("20060102_150405")

	// several matches can finish within one second
	path := filepath.Join(a.TrainingDir, "sample_"+stamp+".json")
	for i := 2; ; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			path = filepath.Join(a.TrainingDir, fmt.Sprintf("sample_%s_%d.json", stamp, i))
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}
}
