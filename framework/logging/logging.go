// Package logging builds the application logger: a log/slog handler exposed
// as a logr.Logger, so the container and HTTP layer share one sink.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/go-logr/logr"

	"github.com/km-arc/go-locator/framework/config"
)

// New returns a logger writing to w in the format and at the level cfg names.
// logr verbosity V(n) maps to slog level -n, so V(1) events show up at
// "debug" and are dropped at "info".
func New(cfg config.LogConfig, w io.Writer) logr.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return logr.FromSlogHandler(h)
}

// ParseLevel maps a level name to a slog.Level. Unknown names are Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
