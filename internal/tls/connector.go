package tls

import (
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"time"
)

// Connector builds ready-to-use client TLS configurations for the database
// layer. It performs no socket I/O itself.
type Connector struct {
	mode     Mode
	verifier Verifier
}

// Mode returns the trust mode the connector was built for.
func (c *Connector) Mode() Mode {
	return c.mode
}

// TLSConfigFor returns a client configuration that validates the peer
// against serverName. The name is captured here rather than read from the
// connection state: on the client side ConnectionState.ServerName carries
// only what went out in SNI, which is empty for IP literals.
func (c *Connector) TLSConfigFor(serverName string) *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         serverName,
		InsecureSkipVerify: true,
		VerifyConnection: func(cs tls.ConnectionState) error {
			var leaf *x509.Certificate
			var intermediates []*x509.Certificate
			if len(cs.PeerCertificates) > 0 {
				leaf = cs.PeerCertificates[0]
				intermediates = cs.PeerCertificates[1:]
			}
			outcome := c.verifier.Verify(leaf, intermediates, serverName, time.Now(), cs.OCSPResponse)
			if outcome.Accepted {
				return nil
			}
			return errorFromOutcome(outcome)
		},
	}
}

// Build combines a resolved mode and its trust anchors into a connector.
//
// Verification is routed through VerifyConnection so that the mode's
// verifier controls exactly which checks run; the handshake's built-in
// verification is disabled to keep a single validation path. An empty anchor
// set under any mode except accept-invalid is a configuration-stage error.
func Build(mode Mode, anchors *AnchorSet) (*Connector, error) {
	if mode.Kind != ModeAcceptInvalid && anchors.Empty() {
		return nil, NewTLSError(ErrorTypeEmptyTrustStore, StageConfig,
			"no trust anchors loaded for mode "+mode.Kind.String()).
			WithContext("mode", mode.Kind.String())
	}

	return &Connector{mode: mode, verifier: NewVerifier(mode, anchors)}, nil
}

// BuildConnector is the entry point used by the application: it resolves the
// mode, emits any security warning, loads trust anchors, and builds the
// connector. All failures are configuration-stage TLSErrors.
func BuildConnector(opts Options, emitter *WarningEmitter, logger *slog.Logger) (*Connector, error) {
	mode, err := ResolveMode(opts)
	if err != nil {
		return nil, err
	}
	if emitter != nil {
		emitter.Warn(mode)
	}
	anchors, err := LoadAnchors(mode, logger)
	if err != nil {
		return nil, err
	}
	return Build(mode, anchors)
}
