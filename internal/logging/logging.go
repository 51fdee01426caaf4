// Package logging configures structured logging for touch-settings.
//
// The TUI owns the terminal, so log records go to a file. Components
// derive their loggers with For.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtg01100/touch-settings/pkg/utils"
)

// Options configures Setup.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// File is the log file path. Empty discards records.
	File string
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

var level = new(slog.LevelVar)

// SetLevel changes the level of loggers built by Setup.
func SetLevel(name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	level.Set(l)
	return nil
}

// Setup builds the application logger, installs it as the slog default
// and returns a function that closes the log file.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	if err := SetLevel(opts.Level); err != nil {
		return nil, nil, err
	}

	var w io.Writer = io.Discard
	closer := func() error { return nil }
	if opts.File != "" {
		path := utils.ExpandHome(opts.File)
		if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = f.Close
	}

	logger := slog.New(NewHandler(w, level, opts.JSON))
	slog.SetDefault(logger)
	return logger, closer, nil
}

// NewHandler returns a text or JSON handler writing to w.
func NewHandler(w io.Writer, level slog.Leveler, json bool) slog.Handler {
	hopts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// For returns a logger tagged with the component name. A nil base uses
// the default logger.
func For(base *slog.Logger, component string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With("component", component)
}
