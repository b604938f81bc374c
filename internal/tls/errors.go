package tls

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents different categories of TLS errors.
type ErrorType string

const (
	// Configuration-time errors.
	ErrorTypeConflictingOptions ErrorType = "conflicting_options"
	ErrorTypeCAFileAccess       ErrorType = "ca_file_access"
	ErrorTypeCAFormat           ErrorType = "ca_format"
	ErrorTypeEmptyTrustStore    ErrorType = "empty_trust_store"

	// Connection-time errors.
	ErrorTypeChainUntrusted     ErrorType = "chain_untrusted"
	ErrorTypeCertificateExpired ErrorType = "certificate_expired"
	ErrorTypeNotYetValid        ErrorType = "certificate_not_yet_valid"
	ErrorTypeHostnameMismatch   ErrorType = "hostname_mismatch"
	ErrorTypeBadSignature       ErrorType = "bad_signature"
	ErrorTypeHandshakeFailure   ErrorType = "handshake_failure"
)

// Stage distinguishes "you misconfigured this" from "the server rejected you".
// The exit-code mapper keys off this.
type Stage int

const (
	StageConfig Stage = iota
	StageConnection
)

// FailureKind identifies which validation check rejected the chain.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureChainUntrusted
	FailureExpired
	FailureNotYetValid
	FailureHostnameMismatch
	FailureBadSignature
	FailureOther
)

// String returns the failure kind's name.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureChainUntrusted:
		return "chain_untrusted"
	case FailureExpired:
		return "expired"
	case FailureNotYetValid:
		return "not_yet_valid"
	case FailureHostnameMismatch:
		return "hostname_mismatch"
	case FailureBadSignature:
		return "bad_signature"
	default:
		return "other"
	}
}

// TLSError represents a structured TLS error with context and remediation
// guidance. Messages and context values are sanitized before display; they
// never carry credentials or raw certificate bytes.
type TLSError struct {
	Type           ErrorType
	Stage          Stage
	Failure        FailureKind
	Message        string
	Cause          error
	Context        map[string]any
	Suggestions    []string
	SuggestedModes []ModeKind
}

// Error implements the error interface.
func (e *TLSError) Error() string {
	parts := []string{fmt.Sprintf("[%s] %s", e.Type, e.Message)}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for key := range e.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		contextParts := make([]string, 0, len(keys))
		for _, key := range keys {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", key, e.Context[key]))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(contextParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TLSError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *TLSError) WithContext(key string, value any) *TLSError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for resolving the error.
func (e *TLSError) WithSuggestion(suggestion string) *TLSError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestedMode records a trust mode the operator could retry with.
func (e *TLSError) WithSuggestedMode(kind ModeKind) *TLSError {
	e.SuggestedModes = append(e.SuggestedModes, kind)
	return e
}

// WithFailure records which validation check rejected the chain.
func (e *TLSError) WithFailure(kind FailureKind) *TLSError {
	e.Failure = kind
	return e
}

// GetDetailedMessage returns the error message with numbered suggestions.
func (e *TLSError) GetDetailedMessage() string {
	message := e.Error()

	if len(e.Suggestions) > 0 {
		message += "\n\nSuggestions:"
		for i, suggestion := range e.Suggestions {
			message += fmt.Sprintf("\n  %d. %s", i+1, suggestion)
		}
	}

	return message
}

// NewTLSError creates a new TLS error with the specified type and message.
func NewTLSError(errorType ErrorType, stage Stage, message string) *TLSError {
	return &TLSError{
		Type:    errorType,
		Stage:   stage,
		Message: message,
		Context: make(map[string]any),
	}
}

// NewTLSErrorWithCause creates a new TLS error with an underlying cause.
func NewTLSErrorWithCause(errorType ErrorType, stage Stage, message string, cause error) *TLSError {
	err := NewTLSError(errorType, stage, message)
	err.Cause = cause
	return err
}

// IsConfigurationError reports whether err is a configuration-stage TLSError.
func IsConfigurationError(err error) bool {
	tlsErr, ok := err.(*TLSError)
	return ok && tlsErr.Stage == StageConfig
}

// IsConnectionError reports whether err is a connection-stage TLSError.
func IsConnectionError(err error) bool {
	tlsErr, ok := err.(*TLSError)
	return ok && tlsErr.Stage == StageConnection
}
