package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init installs the default slog logger writing to stderr. Warnings and
// errors are always shown; verbose enables debug output.
func Init(verbose bool) {
	slog.SetDefault(New(os.Stderr, verbose))
}

// New returns a text logger writing to w.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
