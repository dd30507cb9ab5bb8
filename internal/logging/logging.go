// Package logging builds the structured logger used by the CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tayloree/cookr/internal/config"
)

// New creates a *slog.Logger writing to w.
//
// Format "json" produces structured JSON output; anything else produces
// human-readable text. Level is one of: debug, info, warn, error
// (case-insensitive); it defaults to warn so normal runs stay quiet.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewRunID returns an identifier for one pipeline pass.
func NewRunID() string {
	return uuid.NewString()
}
