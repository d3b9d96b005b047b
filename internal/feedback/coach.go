// Package feedback produces natural-language coaching from a match report
// using a hosted language model.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Zuo-Peng/replay-coach/internal/report"
	"github.com/avast/retry-go/v4"
)

// ErrUnavailable wraps every failure to obtain a narrative.
var ErrUnavailable = errors.New("feedback unavailable")

const defaultAttempts = 2

// Generator is a single model completion.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Assistant implements report.Coach on top of a Generator.
type Assistant struct {
	gen      Generator
	attempts uint
	delay    time.Duration
}

func NewAssistant(gen Generator, attempts uint) *Assistant {
	if attempts == 0 {
		attempts = defaultAttempts
	}
	return &Assistant{gen: gen, attempts: attempts, delay: time.Second}
}

func (a *Assistant) Coach(ctx context.Context, r *report.MatchReport) (report.Narrative, error) {
	if r.Analysis == nil {
		return report.Narrative{}, fmt.Errorf("%w: report has no analysis", ErrUnavailable)
	}
	prompt := BuildPrompt(r.Analysis, r.Extraction.Lossy)

	slog.Info("Requesting feedback", slog.String("report", r.Key))
	text, err := retry.DoWithData(
		func() (string, error) {
			out, err := a.gen.Generate(ctx, SystemPrompt, prompt)
			if err != nil {
				return "", err
			}
			out = strings.TrimSpace(out)
			if out == "" {
				return "", errors.New("empty response")
			}
			return out, nil
		},
		retry.Context(ctx),
		retry.Attempts(a.attempts),
		retry.Delay(a.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Feedback attempt failed", slog.Uint64("attempt", uint64(n+1)), slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		return report.Narrative{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return report.Narrative{Prompt: prompt, Text: text}, nil
}
