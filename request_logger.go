package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// RequestLogger is the interface used by [Client] for logging HTTP requests
// and errors. It is also handed to the underlying resty client. Implement
// this interface to integrate with your logging library and supply the
// implementation via [WithLogger] or [WithRequestLogger].
type RequestLogger interface {
	Errorf(format string, v ...any)
	Warnf(format string, v ...any)
	Debugf(format string, v ...any)
}

// NoopLogger is a [RequestLogger] that silently discards all log messages.
// It is used when no logger is configured.
type NoopLogger struct{}

func (l *NoopLogger) Errorf(_ string, _ ...any) {}
func (l *NoopLogger) Warnf(_ string, _ ...any)  {}
func (l *NoopLogger) Debugf(_ string, _ ...any) {}

// SlogLogger adapts a [*slog.Logger] to [RequestLogger].
type SlogLogger struct {
	Logger *slog.Logger
}

// NewSlogLogger returns a RequestLogger writing to logger, or to
// [slog.Default] when logger is nil.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{Logger: logger.With("component", "multicard")}
}

func (l *SlogLogger) Errorf(format string, v ...any) {
	l.log(slog.LevelError, format, v...)
}

func (l *SlogLogger) Warnf(format string, v ...any) {
	l.log(slog.LevelWarn, format, v...)
}

func (l *SlogLogger) Debugf(format string, v ...any) {
	l.log(slog.LevelDebug, format, v...)
}

func (l *SlogLogger) log(level slog.Level, format string, v ...any) {
	if !l.Logger.Enabled(context.Background(), level) {
		return
	}
	// resty terminates its messages with newlines
	l.Logger.Log(context.Background(), level, strings.TrimRight(fmt.Sprintf(format, v...), "\n"))
}

// safeLogger shields requests from a misbehaving logger.
type safeLogger struct {
	next RequestLogger
}

func newSafeLogger(next RequestLogger) *safeLogger {
	if next == nil {
		next = &NoopLogger{}
	}
	return &safeLogger{next: next}
}

func (l *safeLogger) Errorf(format string, v ...any) {
	defer func() { _ = recover() }()
	l.next.Errorf(format, v...)
}

func (l *safeLogger) Warnf(format string, v ...any) {
	defer func() { _ = recover() }()
	l.next.Warnf(format, v...)
}

func (l *safeLogger) Debugf(format string, v ...any) {
	defer func() { _ = recover() }()
	l.next.Debugf(format, v...)
}
