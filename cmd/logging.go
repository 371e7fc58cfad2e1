package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/marcus/mbrowse/internal/config"
)

// parseLevel maps a config level name to a slog level. Unknown names log
// at info.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLogHandler returns the handler for the configured format: JSON lines
// for "json", otherwise charmbracelet/log's human-readable output.
func newLogHandler(w io.Writer, lc config.LogConfig) slog.Handler {
	level := parseLevel(lc.Level)
	if lc.Format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return log.NewWithOptions(w, log.Options{
		Level:           log.Level(level),
		Prefix:          "mbrowse",
		ReportTimestamp: true,
	})
}

// setupLogging installs the default slog logger. Logs go to lc.File when
// set, otherwise to stderr. The returned func closes the log file.
func setupLogging(lc config.LogConfig, stderr io.Writer) (func() error, error) {
	w := stderr
	closer := func() error { return nil }

	if lc.File != "" {
		if err := os.MkdirAll(filepath.Dir(lc.File), 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f.Close
	}

	slog.SetDefault(slog.New(newLogHandler(w, lc)))
	return closer, nil
}

// quietLogging keeps logs off the terminal while a full-screen program runs,
// unless they already go to a file.
func quietLogging(lc config.LogConfig) {
	if lc.File != "" {
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
