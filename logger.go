package flatcol

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with flatcol-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogOpen logs the result of a bootstrap scan.
func (l *Logger) LogOpen(path string, count, width int) {
	l.Info("collection opened",
		"path", path,
		"documents", count,
		"slot_width", width,
	)
}

// LogResize logs a slot width growth.
func (l *Logger) LogResize(oldWidth, newWidth int) {
	l.Info("slot width grown",
		"old_width", oldWidth,
		"new_width", newWidth,
	)
}

// LogRewrite logs a structural file rewrite (resize or delete compaction).
func (l *Logger) LogRewrite(reason string, count int, err error) {
	if err != nil {
		l.Error("file rewrite failed",
			"reason", reason,
			"documents", count,
			"error", err,
		)
	} else {
		l.Debug("file rewrite completed",
			"reason", reason,
			"documents", count,
		)
	}
}
