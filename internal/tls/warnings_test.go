package tls

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarningEmitter_RelaxedModesAlwaysWarn(t *testing.T) {
	var stderr bytes.Buffer
	// A quiet diagnostic logger must not suppress the security warning.
	quiet := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	emitter := NewWarningEmitter(quiet, &stderr)

	emitter.Warn(Mode{Kind: ModeAcceptInvalid})
	out := stderr.String()
	assert.Contains(t, out, "certificate validation disabled")
	assert.Contains(t, out, "--allow-invalid-certificate")

	stderr.Reset()
	emitter.Warn(Mode{Kind: ModeSkipHostnameVerify})
	out = stderr.String()
	assert.Contains(t, out, "hostname verification disabled")
	assert.Contains(t, out, "chain of trust and expiry are still enforced")
}

func TestWarningEmitter_OncePerExecution(t *testing.T) {
	var stderr bytes.Buffer
	emitter := NewWarningEmitter(discardLogger(), &stderr)

	mode := Mode{Kind: ModeAcceptInvalid}
	emitter.Warn(mode)
	emitter.Warn(mode)
	emitter.Warn(mode)

	assert.Equal(t, 1, strings.Count(stderr.String(), "certificate validation disabled"))
}

func TestWarningEmitter_StrictModesStayQuiet(t *testing.T) {
	var stderr, diag bytes.Buffer
	verbose := slog.New(slog.NewTextHandler(&diag, &slog.HandlerOptions{Level: slog.LevelDebug}))
	emitter := NewWarningEmitter(verbose, &stderr)

	emitter.Warn(Mode{Kind: ModePlatform})
	emitter.Warn(Mode{Kind: ModeCustomCA, CAFile: "/etc/ssl/corp-ca.pem"})

	// Nothing on the alert stream, trust-source detail on the diagnostic one.
	assert.Empty(t, stderr.String())
	assert.Contains(t, diag.String(), "platform certificate store")
	assert.Contains(t, diag.String(), "/etc/ssl/corp-ca.pem")
}
