package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/unclesp1d3r/gold-digger/internal/db"
	tlspolicy "github.com/unclesp1d3r/gold-digger/internal/tls"
)

// Process exit codes.
const (
	ExitSuccess         = 0
	ExitNoRows          = 1
	ExitConfigError     = 2
	ExitConnectionError = 3
	ExitQueryError      = 4
	ExitIOError         = 5
)

// ErrNoRows signals an empty result set without --allow-empty.
var ErrNoRows = errors.New("query returned no rows")

// UsageError reports invalid or missing configuration supplied by the
// operator. It maps to ExitConfigError.
type UsageError struct {
	Detail string
	Cause  error
}

func (e *UsageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Cause)
	}
	return e.Detail
}

func (e *UsageError) Unwrap() error { return e.Cause }

// ExitCode maps an error onto the process exit code. Classification is
// type-driven: configuration-stage failures and connection-stage failures
// are distinguished by the error's type and stage, never by message text.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrNoRows) {
		return ExitNoRows
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitConfigError
	}

	var tlsErr *tlspolicy.TLSError
	if errors.As(err, &tlsErr) {
		if tlsErr.Stage == tlspolicy.StageConfig {
			return ExitConfigError
		}
		return ExitConnectionError
	}

	var dbConfigErr *db.ConfigError
	if errors.As(err, &dbConfigErr) {
		return ExitConfigError
	}

	var authErr *db.AuthError
	if errors.As(err, &authErr) {
		return ExitConnectionError
	}

	var queryErr *db.QueryError
	if errors.As(err, &queryErr) {
		return ExitQueryError
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ExitIOError
	}

	return ExitQueryError
}
