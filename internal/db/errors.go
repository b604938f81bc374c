package db

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	tlspolicy "github.com/unclesp1d3r/gold-digger/internal/tls"
)

// MySQL server error numbers that indicate rejected credentials or
// insufficient privileges.
const (
	erAccessDenied   = 1045
	erDBAccessDenied = 1044
	erNotSupported   = 1251
)

// ConfigError reports an unusable database URL. It is a configuration-stage
// failure, distinct from connection failures.
type ConfigError struct {
	Detail string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Cause)
	}
	return e.Detail
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// AuthError reports rejected credentials or an unreachable server.
type AuthError struct {
	Detail string
	Cause  error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Cause)
	}
	return e.Detail
}

func (e *AuthError) Unwrap() error { return e.Cause }

// QueryError reports a statement the server could not execute. Query holds
// only the statement's first line.
type QueryError struct {
	Query string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Cause)
}

func (e *QueryError) Unwrap() error { return e.Cause }

// classifyConnError maps a dial or ping failure onto a typed error. TLS
// failures route through the policy layer's classifier so their remediation
// guidance survives; credential rejections become AuthErrors; anything else
// is reported as a connection failure.
func classifyConnError(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case erAccessDenied, erDBAccessDenied:
			return &AuthError{Detail: "access denied by server", Cause: err}
		case erNotSupported:
			return &AuthError{Detail: "server rejected the authentication method", Cause: err}
		}
		return &AuthError{Detail: "server refused the connection", Cause: err}
	}

	if tlsErr := asTLSError(err); tlsErr != nil {
		return tlsErr
	}

	return &AuthError{Detail: "cannot reach database server", Cause: err}
}

func asTLSError(err error) *tlspolicy.TLSError {
	var tlsErr *tlspolicy.TLSError
	if errors.As(err, &tlsErr) {
		return tlsErr
	}

	var (
		hostnameErr      x509.HostnameError
		unknownAuthority x509.UnknownAuthorityError
		invalid          x509.CertificateInvalidError
		recordErr        tls.RecordHeaderError
	)
	if errors.As(err, &hostnameErr) || errors.As(err, &unknownAuthority) ||
		errors.As(err, &invalid) || errors.As(err, &recordErr) {
		return tlspolicy.Classify(err)
	}
	return nil
}
