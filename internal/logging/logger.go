// Package logging configures the global slog logger used throughout
// screenctld. Modeled directly on the teacher's internal/logger: JSON or
// text output via log/slog, rotated via lumberjack when a log directory is
// configured.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Init.
type Options struct {
	// Dir is the directory rotated log files are written to. Empty means
	// stdout-only logging.
	Dir string

	// Debug enables debug-level logging and source-location annotation.
	Debug bool

	// JSON selects JSON output; otherwise text.
	JSON bool

	// Component tags every log line, e.g. "wsclient", "dispatcher".
	Component string
}

// Init installs the process-wide default slog.Logger and returns it.
func Init(opts Options) (*slog.Logger, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stdout
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, err
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "screenctld.log"),
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stdout, file)
	}

	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: opts.Debug}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	if opts.Component != "" {
		logger = logger.With("component", opts.Component)
	}

	slog.SetDefault(logger)
	return logger, nil
}

// With returns a derived logger with additional attributes, e.g. a
// per-connection or per-session id.
func With(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}

// Component returns a derived logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
