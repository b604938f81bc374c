package tls

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"
)

// AnchorSet is the immutable collection of trusted root certificates built
// once per execution. For a CA-file load the parsed certificates are kept
// alongside the pool; the platform pool is opaque.
type AnchorSet struct {
	pool   *x509.CertPool
	roots  []*x509.Certificate
	source string
}

// Pool returns the certificate pool used by path validation.
func (a *AnchorSet) Pool() *x509.CertPool {
	if a == nil {
		return nil
	}
	return a.pool
}

// Roots returns the individually parsed anchors, when known. Platform loads
// return nil because the system store is enumerated by the platform itself.
func (a *AnchorSet) Roots() []*x509.Certificate {
	if a == nil {
		return nil
	}
	return a.roots
}

// Source describes where the anchors came from, for diagnostics.
func (a *AnchorSet) Source() string {
	if a == nil {
		return ""
	}
	return a.source
}

// Empty reports whether the set holds no trust anchors.
func (a *AnchorSet) Empty() bool {
	return a == nil || a.pool == nil
}

// LoadAnchors builds the trust-anchor set for the resolved mode.
//
// ModeSkipHostnameVerify shares the platform anchors; only its verifier
// differs. ModeAcceptInvalid loads nothing because its verifier ignores
// anchors entirely.
func LoadAnchors(mode Mode, logger *slog.Logger) (*AnchorSet, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch mode.Kind {
	case ModeCustomCA:
		return loadCAFile(mode.CAFile, logger)
	case ModeAcceptInvalid:
		return &AnchorSet{source: "none"}, nil
	default:
		return loadSystemAnchors()
	}
}

func loadSystemAnchors() (*AnchorSet, error) {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		return nil, NewTLSErrorWithCause(ErrorTypeEmptyTrustStore, StageConfig,
			"no trust anchors available from the platform certificate store", err).
			WithSuggestion("Supply a CA file with --tls-ca-file").
			WithSuggestedMode(ModeCustomCA)
	}
	return &AnchorSet{pool: pool, source: "system"}, nil
}

// loadCAFile reads one or more concatenated PEM certificate blocks. Each
// block is parsed independently; comments and blank lines between blocks are
// tolerated, and malformed blocks are skipped and logged. Only a file that
// yields zero valid certificates fails.
func loadCAFile(path string, logger *slog.Logger) (*AnchorSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewCAFileAccessError(path, "not readable", err)
	}

	pool := x509.NewCertPool()
	var roots []*x509.Certificate
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			logger.Debug("skipping non-certificate PEM block", "ca_file", path, "block_type", block.Type)
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			logger.Debug("skipping malformed certificate in CA file", "ca_file", path, "error", err)
			continue
		}
		pool.AddCert(cert)
		roots = append(roots, cert)
	}

	if len(roots) == 0 {
		return nil, NewTLSError(ErrorTypeCAFormat, StageConfig,
			fmt.Sprintf("invalid CA format: %s contains no valid PEM-encoded certificates", path)).
			WithContext("ca_file", path).
			WithSuggestion("Check that the file holds PEM CERTIFICATE blocks").
			WithSuggestion("Convert DER certificates to PEM before use")
	}

	return &AnchorSet{pool: pool, roots: roots, source: path}, nil
}
