package cache

import (
	"context"
	"log/slog"
)

// Logger provides structured logging for the cache. It wraps an slog.Logger
// so callers that do not configure logging pay nothing: the zero-value and
// the nop logger both discard every record.
type Logger struct {
	impl *slog.Logger
}

// NewLogger creates a Logger backed by the given slog.Logger.
// Passing nil yields a nop logger.
func NewLogger(l *slog.Logger) *Logger {
	return &Logger{impl: l}
}

// NewNopLogger creates a logger that discards all records.
func NewNopLogger() *Logger {
	return &Logger{}
}

// With returns a Logger with the given attributes attached to every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.impl == nil {
		return l
	}
	return &Logger{impl: l.impl.With(args...)}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	if l == nil || l.impl == nil {
		return
	}
	l.impl.DebugContext(ctx, msg, args...)
}

// Info logs an info-level message.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l == nil || l.impl == nil {
		return
	}
	l.impl.InfoContext(ctx, msg, args...)
}

// Warn logs a warn-level message.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l == nil || l.impl == nil {
		return
	}
	l.impl.WarnContext(ctx, msg, args...)
}

// Error logs an error-level message.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l == nil || l.impl == nil {
		return
	}
	l.impl.ErrorContext(ctx, msg, args...)
}
