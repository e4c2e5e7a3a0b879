// Package logging configures structured logging with tint.
//
// LOG_LEVEL selects the level: debug, info, warn, error (default: info).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures colored logging to stderr.
func Setup() {
	slog.SetDefault(New(os.Stderr, LevelFromEnv(), false))
}

// SetupFile routes logs to a file so they do not draw over a full-screen UI.
// The returned function closes the file.
func SetupFile(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(New(f, LevelFromEnv(), true))
	return f.Close, nil
}

// New builds a tint-backed logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}))
}

// LevelFromEnv parses LOG_LEVEL.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
