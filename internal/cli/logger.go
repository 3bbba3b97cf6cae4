package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns the text logger used for diagnostics. Debug records
// are only written in verbose mode.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
