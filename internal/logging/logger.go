// Package logging provides a configured slog logger for sqlembed.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Options configures the default slog logger used by sqlembed.
type Options struct {
	// Verbose toggles debug level logging when true.
	Verbose bool
	// Writer directs log output; defaults to os.Stderr when nil.
	Writer io.Writer
	// Color forces colored output. Without it, color is used only when
	// Writer is a terminal.
	Color bool
}

// New constructs a slog.Logger with sqlembed defaults.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	if opts.Color || isTerminal(writer) {
		return slog.New(tint.NewHandler(writer, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		}))
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
