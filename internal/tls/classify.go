package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
)

// errorFromOutcome converts a rejected validation outcome into a structured
// connection-stage error with the remediation mapping applied.
func errorFromOutcome(outcome Outcome) *TLSError {
	switch outcome.Failure {
	case FailureChainUntrusted:
		return NewTLSError(ErrorTypeChainUntrusted, StageConnection,
			"server certificate does not chain to a trusted root").
			WithFailure(FailureChainUntrusted).
			WithContext("detail", SanitizeMessage(outcome.Detail)).
			WithSuggestion("Provide the server's CA with --tls-ca-file").
			WithSuggestion("For testing only, --allow-invalid-certificate disables validation").
			WithSuggestedMode(ModeCustomCA).
			WithSuggestedMode(ModeAcceptInvalid)
	case FailureExpired:
		return NewTLSError(ErrorTypeCertificateExpired, StageConnection,
			"server certificate chain contains an expired certificate").
			WithFailure(FailureExpired).
			WithContext("detail", SanitizeMessage(outcome.Detail)).
			WithSuggestion("Renew the server certificate").
			WithSuggestion("For testing only, --allow-invalid-certificate disables validation").
			WithSuggestedMode(ModeAcceptInvalid)
	case FailureNotYetValid:
		return NewTLSError(ErrorTypeNotYetValid, StageConnection,
			"server certificate chain contains a certificate that is not yet valid").
			WithFailure(FailureNotYetValid).
			WithContext("detail", SanitizeMessage(outcome.Detail)).
			WithSuggestion("Check the system clock on both ends").
			WithSuggestion("For testing only, --allow-invalid-certificate disables validation").
			WithSuggestedMode(ModeAcceptInvalid)
	case FailureHostnameMismatch:
		return NewTLSError(ErrorTypeHostnameMismatch, StageConnection,
			"server certificate is not valid for the requested host").
			WithFailure(FailureHostnameMismatch).
			WithContext("detail", SanitizeMessage(outcome.Detail)).
			WithSuggestion("Connect using a name listed in the certificate's SAN").
			WithSuggestion("--insecure-skip-hostname-verify keeps chain and expiry checks while skipping the name match").
			WithSuggestedMode(ModeSkipHostnameVerify)
	case FailureBadSignature:
		return NewTLSError(ErrorTypeBadSignature, StageConnection,
			"server certificate chain contains an invalid signature").
			WithFailure(FailureBadSignature).
			WithContext("detail", SanitizeMessage(outcome.Detail)).
			WithSuggestion("Provide the correct CA with --tls-ca-file").
			WithSuggestedMode(ModeCustomCA)
	default:
		return NewTLSError(ErrorTypeHandshakeFailure, StageConnection,
			"certificate validation failed").
			WithFailure(FailureOther).
			WithContext("detail", SanitizeMessage(outcome.Detail))
	}
}

// Classify converts a handshake or validation failure into a structured
// TLSError. Errors already produced by this package pass through unchanged;
// raw x509 and TLS record errors from the network layer are mapped onto the
// remediation table, and anything else is reported as a generic handshake
// failure with no suggested mode. All messages are sanitized.
func Classify(err error) *TLSError {
	if err == nil {
		return nil
	}

	var tlsErr *TLSError
	if errors.As(err, &tlsErr) {
		return tlsErr
	}

	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return errorFromOutcome(rejected(FailureHostnameMismatch, hostnameErr.Error()))
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return errorFromOutcome(rejected(FailureChainUntrusted, unknownAuthority.Error()))
	}

	var invalid x509.CertificateInvalidError
	if errors.As(err, &invalid) {
		if invalid.Reason == x509.Expired {
			return errorFromOutcome(rejected(FailureExpired, invalid.Error()))
		}
		return errorFromOutcome(rejected(FailureOther, invalid.Error()))
	}

	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return NewTLSErrorWithCause(ErrorTypeHandshakeFailure, StageConnection,
			"TLS handshake failed: the server did not speak TLS on this port", err).
			WithSuggestion("Check that the server has TLS enabled on the target port")
	}

	return NewTLSErrorWithCause(ErrorTypeHandshakeFailure, StageConnection,
		fmt.Sprintf("TLS handshake failed: %s", SanitizeMessage(err.Error())),
		errors.New(SanitizeMessage(err.Error())))
}
