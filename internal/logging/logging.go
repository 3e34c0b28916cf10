// Package logging sets up the process-wide slog logger. The terminal belongs
// to the UI, so records go to a file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseLevel maps a level name to a slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a text logger writing to w
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Setup opens path for appending, installs a logger on it as the slog
// default and returns it with a cleanup function. An empty path discards
// all records.
func Setup(path, level string) (*slog.Logger, func(), error) {
	if path == "" {
		logger := New(io.Discard, level)
		slog.SetDefault(logger)
		return logger, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening log file %s", path)
	}

	logger := New(f, level)
	slog.SetDefault(logger)
	return logger, func() { _ = f.Close() }, nil
}
