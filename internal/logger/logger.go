// Package logger provides logging abstractions for tabsert.
// It supports standard library log/slog and allows custom logger implementations.
package logger

import (
	"log/slog"
	"os"
	"strconv"
	"sync"
)

// LevelEnvVar is the environment variable holding the default log level for
// Default(), as an slog level number (-4 debug, 0 info, 4 warn, 8 error).
const LevelEnvVar = "TABSERT_LOG_LEVEL"

// Logger defines the logging interface for tabsert.
// Implementations should handle structured logging with key-value pairs.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs
	Debug(msg string, args ...any)
	// Info logs informational messages with optional key-value pairs
	Info(msg string, args ...any)
	// Warn logs warning messages with optional key-value pairs
	Warn(msg string, args ...any)
	// Error logs error messages with optional key-value pairs
	Error(msg string, args ...any)
}

// NoopLogger is a logger that does nothing (zero overhead when logging is disabled).
// This is the default logger used when no logger is configured.
type NoopLogger struct{}

// Debug does nothing.
func (n *NoopLogger) Debug(_ string, _ ...any) {}

// Info does nothing.
func (n *NoopLogger) Info(_ string, _ ...any) {}

// Warn does nothing.
func (n *NoopLogger) Warn(_ string, _ ...any) {}

// Error does nothing.
func (n *NoopLogger) Error(_ string, _ ...any) {}

// SlogAdapter wraps log/slog.Logger to implement the Logger interface.
// This allows seamless integration with the standard library's structured logging.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new logger adapter wrapping an slog.Logger.
// The provided logger must not be nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Debug logs a debug-level message with structured key-value pairs.
func (a *SlogAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

// Info logs an info-level message with structured key-value pairs.
func (a *SlogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

// Warn logs a warning-level message with structured key-value pairs.
func (a *SlogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

// Error logs an error-level message with structured key-value pairs.
func (a *SlogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

var (
	defaultOnce   sync.Once
	defaultLogger Logger
)

// Default returns a process-wide slog-backed logger writing to stderr whose
// level is read from TABSERT_LOG_LEVEL exactly once, on first call. The
// environment is never consulted again after that; set the variable before
// the first call.
func Default() Logger {
	defaultOnce.Do(func() {
		level := slog.LevelInfo
		if raw := os.Getenv(LevelEnvVar); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				level = slog.Level(n)
			}
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		defaultLogger = NewSlogAdapter(slog.New(handler))
	})
	return defaultLogger
}
