package tls

import (
	"io"
	"log/slog"
)

// WarningEmitter emits operator-facing warnings when a relaxed trust mode is
// selected. Warnings for the relaxed modes bypass verbosity settings; the
// strict modes emit verbose-only detail about which trust source is in use.
// Each warning is emitted at most once per execution. The emitter is used
// from a single goroutine and needs no locking.
type WarningEmitter struct {
	logger  *slog.Logger
	alert   *slog.Logger
	emitted map[ModeKind]bool
}

// NewWarningEmitter creates an emitter. logger is the verbosity-gated
// diagnostic logger; stderr receives the always-on security warnings.
func NewWarningEmitter(logger *slog.Logger, stderr io.Writer) *WarningEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	alert := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return &WarningEmitter{
		logger:  logger,
		alert:   alert,
		emitted: make(map[ModeKind]bool),
	}
}

// Warn emits the warning appropriate for the resolved mode, once.
func (e *WarningEmitter) Warn(mode Mode) {
	if e.emitted[mode.Kind] {
		return
	}
	e.emitted[mode.Kind] = true

	switch mode.Kind {
	case ModeAcceptInvalid:
		e.alert.Warn("certificate validation disabled: the connection is not protected against interception",
			"flag", ModeAcceptInvalid.Flag())
	case ModeSkipHostnameVerify:
		e.alert.Warn("hostname verification disabled: chain of trust and expiry are still enforced, but any certificate from a trusted CA is accepted for this host",
			"flag", ModeSkipHostnameVerify.Flag())
	case ModeCustomCA:
		e.logger.Debug("using custom CA trust anchors", "ca_file", mode.CAFile)
	default:
		e.logger.Debug("using platform certificate store")
	}
}
