// Package logger provides logging abstractions for sqlbridge.
// It supports standard library log/slog and allows custom logger implementations.
package logger

import "log/slog"

// Logger is the structured logging interface consumed by the adapter.
// Args are alternating key-value pairs, slog style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoopLogger discards everything. It is the behavior when no logger is
// configured.
type NoopLogger struct{}

// Debug does nothing.
func (NoopLogger) Debug(string, ...any) {}

// Info does nothing.
func (NoopLogger) Info(string, ...any) {}

// Warn does nothing.
func (NoopLogger) Warn(string, ...any) {}

// Error does nothing.
func (NoopLogger) Error(string, ...any) {}

// SlogAdapter adapts a log/slog.Logger to the Logger interface.
type SlogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter wraps the given slog.Logger, which must not be nil.
func NewSlogAdapter(l *slog.Logger) *SlogAdapter {
	return &SlogAdapter{l: l}
}

// Debug logs at debug level.
func (a *SlogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }

// Info logs at info level.
func (a *SlogAdapter) Info(msg string, args ...any) { a.l.Info(msg, args...) }

// Warn logs at warn level.
func (a *SlogAdapter) Warn(msg string, args ...any) { a.l.Warn(msg, args...) }

// Error logs at error level.
func (a *SlogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
