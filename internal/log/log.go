package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dotse/slug"
	slogmulti "github.com/samber/slog-multi"
)

type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// ToSlogLevel maps our levels to the equivalent slog level. Unknown levels
// fall back to info.
func ToSlogLevel(level Level) slog.Level {
	switch level {
	case Debug:
		return slog.LevelDebug
	case Warn:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a console handler on w and, when filePath is set, a second
// handler appending to that file. The returned closer releases the file.
func NewLogger(w io.Writer, filePath string, level Level) (*slog.Logger, func() error, error) {
	var (
		closer = func() error { return nil }
		opts   = slug.HandlerOptions{
			HandlerOptions: slog.HandlerOptions{
				Level: ToSlogLevel(level),
			},
		}
		handlers = []slog.Handler{slug.NewHandler(opts, w)}
	)

	if filePath != "" {
		logFile, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		closer = logFile.Close
		handlers = append(handlers, slog.NewJSONHandler(logFile, &opts.HandlerOptions))
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Setup installs the logger as the slog default. Console output goes to
// stderr so stdout stays clean for command output.
func Setup(filePath string, level Level) (func(), error) {
	logger, closer, err := NewLogger(os.Stderr, filePath, level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return func() {
		if err := closer(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}, nil
}
