package tls

import (
	"crypto/x509"
	"errors"
	"strings"
	"time"
)

// Outcome is the result of evaluating a server certificate chain.
type Outcome struct {
	Accepted bool
	Failure  FailureKind
	Detail   string
}

func accepted() Outcome {
	return Outcome{Accepted: true}
}

func rejected(kind FailureKind, detail string) Outcome {
	return Outcome{Failure: kind, Detail: detail}
}

// Verifier evaluates the certificate chain presented by the remote peer.
// Implementations are stateless beyond the anchors they close over and are
// safe to invoke repeatedly.
//
// The ocspResponse parameter is accepted for interface completeness but
// never consulted: revocation checking is out of scope in every mode.
type Verifier interface {
	Verify(leaf *x509.Certificate, intermediates []*x509.Certificate, serverName string, now time.Time, ocspResponse []byte) Outcome
}

// NewVerifier returns the verifier for the resolved mode.
func NewVerifier(mode Mode, anchors *AnchorSet) Verifier {
	switch mode.Kind {
	case ModeAcceptInvalid:
		return acceptAllVerifier{}
	case ModeSkipHostnameVerify:
		return &chainVerifier{anchors: anchors, checkHostname: false}
	default:
		return &chainVerifier{anchors: anchors, checkHostname: true}
	}
}

// chainVerifier performs full path validation via the standard library's
// x509 verifier. Chain-of-trust and validity-period checks always run;
// hostname matching runs only when checkHostname is set. The hostname check
// is a separate, final step so that trust and freshness failures are always
// reported ahead of identity failures.
type chainVerifier struct {
	anchors       *AnchorSet
	checkHostname bool
}

func (v *chainVerifier) Verify(leaf *x509.Certificate, intermediates []*x509.Certificate, serverName string, now time.Time, _ []byte) Outcome {
	if leaf == nil {
		return rejected(FailureOther, "no certificate presented by server")
	}

	interPool := x509.NewCertPool()
	for _, cert := range intermediates {
		if cert != nil {
			interPool.AddCert(cert)
		}
	}

	// DNSName is deliberately left unset so the primitive validates the
	// chain and validity periods without a name check; hostname matching
	// happens below under the verifier's own control.
	opts := x509.VerifyOptions{
		Roots:         v.anchors.Pool(),
		Intermediates: interPool,
		CurrentTime:   now,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	if _, err := leaf.Verify(opts); err != nil {
		return v.classifyVerifyError(err, leaf, intermediates, now)
	}

	if v.checkHostname {
		if err := leaf.VerifyHostname(serverName); err != nil {
			return rejected(FailureHostnameMismatch, err.Error())
		}
	}

	return accepted()
}

// classifyVerifyError maps a path-validation error onto the most specific
// applicable failure kind.
func (v *chainVerifier) classifyVerifyError(err error, leaf *x509.Certificate, intermediates []*x509.Certificate, now time.Time) Outcome {
	var invalid x509.CertificateInvalidError
	if errors.As(err, &invalid) {
		if invalid.Reason == x509.Expired {
			cert := invalid.Cert
			if cert == nil {
				cert = leaf
			}
			if now.Before(cert.NotBefore) {
				return rejected(FailureNotYetValid, err.Error())
			}
			return rejected(FailureExpired, err.Error())
		}
		return rejected(FailureOther, err.Error())
	}

	var insecure x509.InsecureAlgorithmError
	if errors.As(err, &insecure) {
		return rejected(FailureBadSignature, err.Error())
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		// The chain may have failed to terminate because a candidate
		// authority was outside its validity window. When the anchors are
		// known individually (CA-file loads), report that as a time
		// failure instead of a generic trust failure.
		if kind, ok := authorityTimeFailure(leaf, v.anchors.Roots(), intermediates, now); ok {
			return rejected(kind, err.Error())
		}
		if strings.Contains(err.Error(), "signature") {
			return rejected(FailureBadSignature, err.Error())
		}
		return rejected(FailureChainUntrusted, err.Error())
	}

	return rejected(FailureOther, err.Error())
}

// authorityTimeFailure reports whether an authority certificate that is
// plausibly on the presented chain is outside its validity window at the
// evaluation time. Only authorities whose subject matches an issuer named by
// the leaf or an intermediate are considered, so an unrelated stale root in
// a CA bundle cannot reclassify a genuine trust failure.
func authorityTimeFailure(leaf *x509.Certificate, roots, intermediates []*x509.Certificate, now time.Time) (FailureKind, bool) {
	issuers := map[string]bool{string(leaf.RawIssuer): true}
	for _, cert := range intermediates {
		if cert != nil {
			issuers[string(cert.RawIssuer)] = true
		}
	}

	for _, certs := range [][]*x509.Certificate{roots, intermediates} {
		for _, cert := range certs {
			if cert == nil || !issuers[string(cert.RawSubject)] {
				continue
			}
			if now.After(cert.NotAfter) {
				return FailureExpired, true
			}
			if now.Before(cert.NotBefore) {
				return FailureNotYetValid, true
			}
		}
	}
	return FailureNone, false
}

// acceptAllVerifier unconditionally accepts. It tolerates malformed or
// absent certificates: in this mode a decode failure means there is nothing
// further to check, not an error to propagate.
type acceptAllVerifier struct{}

func (acceptAllVerifier) Verify(*x509.Certificate, []*x509.Certificate, string, time.Time, []byte) Outcome {
	return accepted()
}
