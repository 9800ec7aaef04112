package vfsgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vfsgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
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

// WithProcess adds a process ID field to the logger.
func (l *Logger) WithProcess(pid uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("pid", pid),
	}
}

// WithFD adds a file descriptor field to the logger.
func (l *Logger) WithFD(fd int) *Logger {
	return &Logger{
		Logger: l.Logger.With("fd", fd),
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogOpen logs an open operation.
func (l *Logger) LogOpen(ctx context.Context, pid uint64, path string, fd int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"pid", pid,
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "open completed",
			"pid", pid,
			"path", path,
			"fd", fd,
		)
	}
}

// LogClose logs a close operation.
func (l *Logger) LogClose(ctx context.Context, pid uint64, fd int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"pid", pid,
			"fd", fd,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "close completed",
			"pid", pid,
			"fd", fd,
		)
	}
}

// LogDup logs a descriptor duplication.
func (l *Logger) LogDup(ctx context.Context, pid uint64, ofd, nfd int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dup failed",
			"pid", pid,
			"ofd", ofd,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "dup completed",
			"pid", pid,
			"ofd", ofd,
			"nfd", nfd,
		)
	}
}

// LogExit logs process descriptor table teardown.
func (l *Logger) LogExit(ctx context.Context, pid uint64, closed int) {
	l.InfoContext(ctx, "process exited",
		"pid", pid,
		"closed", closed,
	)
}
