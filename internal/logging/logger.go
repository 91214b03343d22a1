// Package logging provides the application's structured logger. The
// reconcile engine's activity log is separate: it is domain output, not
// diagnostics.
package logging

import (
	"log/slog"
	"os"
)

// New creates a structured logger at the given level ("debug", "info",
// "warn", "error").
func New(level string) *slog.Logger {
	l := slog.LevelInfo
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	return slog.New(handler)
}
