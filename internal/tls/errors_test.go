package tls

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTLSError_Error(t *testing.T) {
	err := NewTLSError(ErrorTypeChainUntrusted, StageConnection, "chain does not terminate at a trusted root")
	assert.Equal(t, "[chain_untrusted] chain does not terminate at a trusted root", err.Error())

	err = err.WithContext("host", "db.example.com").WithContext("anchors", 3)
	assert.Equal(t,
		"[chain_untrusted] chain does not terminate at a trusted root | context: anchors=3, host=db.example.com",
		err.Error())

	withCause := NewTLSErrorWithCause(ErrorTypeHandshakeFailure, StageConnection,
		"handshake failed", errors.New("connection reset"))
	assert.Equal(t, "[handshake_failure] handshake failed | cause: connection reset", withCause.Error())
}

func TestTLSError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewTLSErrorWithCause(ErrorTypeHandshakeFailure, StageConnection, "handshake failed", cause)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("connecting: %w", err)
	var tlsErr *TLSError
	require.ErrorAs(t, wrapped, &tlsErr)
	assert.Equal(t, ErrorTypeHandshakeFailure, tlsErr.Type)
}

func TestTLSError_GetDetailedMessage(t *testing.T) {
	err := NewTLSError(ErrorTypeHostnameMismatch, StageConnection, "name mismatch").
		WithSuggestion("use a SAN name").
		WithSuggestion("or skip hostname verification")

	detailed := err.GetDetailedMessage()
	assert.Contains(t, detailed, "[hostname_mismatch] name mismatch")
	assert.Contains(t, detailed, "Suggestions:")
	assert.Contains(t, detailed, "1. use a SAN name")
	assert.Contains(t, detailed, "2. or skip hostname verification")

	// No suggestions, no trailing section.
	bare := NewTLSError(ErrorTypeHandshakeFailure, StageConnection, "failed")
	assert.Equal(t, bare.Error(), bare.GetDetailedMessage())
}

func TestStagePredicates(t *testing.T) {
	configErr := NewTLSError(ErrorTypeConflictingOptions, StageConfig, "conflict")
	connErr := NewTLSError(ErrorTypeChainUntrusted, StageConnection, "untrusted")

	assert.True(t, IsConfigurationError(configErr))
	assert.False(t, IsConnectionError(configErr))
	assert.True(t, IsConnectionError(connErr))
	assert.False(t, IsConfigurationError(connErr))
	assert.False(t, IsConfigurationError(errors.New("plain")))
}

func TestFailureKind_String(t *testing.T) {
	assert.Equal(t, "none", FailureNone.String())
	assert.Equal(t, "chain_untrusted", FailureChainUntrusted.String())
	assert.Equal(t, "expired", FailureExpired.String())
	assert.Equal(t, "not_yet_valid", FailureNotYetValid.String())
	assert.Equal(t, "hostname_mismatch", FailureHostnameMismatch.String())
	assert.Equal(t, "bad_signature", FailureBadSignature.String())
	assert.Equal(t, "other", FailureOther.String())
}
