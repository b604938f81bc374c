// Package logging provides structured logging setup for the CLI.
package logging

import (
	"io"
	"log/slog"
)

// Options controls diagnostic verbosity. Verbose counts the number of -v
// flags; Quiet suppresses everything below error level.
type Options struct {
	Verbose int
	Quiet   bool
}

// Level maps the options onto a slog level. The default shows warnings and
// errors; -v adds info, -vv adds debug.
func (o Options) Level() slog.Level {
	if o.Quiet {
		return slog.LevelError
	}
	switch {
	case o.Verbose >= 2:
		return slog.LevelDebug
	case o.Verbose == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// New creates a logger writing human-readable diagnostics to w.
func New(opts Options, w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level()})
	return slog.New(handler)
}
