package tls

import (
	"fmt"
	"os"
	"strings"
)

// ModeKind identifies one of the mutually exclusive trust modes.
type ModeKind int

const (
	// ModePlatform validates against the operating system trust store.
	ModePlatform ModeKind = iota
	// ModeCustomCA validates against a user-supplied CA file.
	ModeCustomCA
	// ModeSkipHostnameVerify keeps chain-of-trust and validity-period
	// checks but does not match the certificate against the server name.
	ModeSkipHostnameVerify
	// ModeAcceptInvalid disables certificate validation entirely.
	ModeAcceptInvalid
)

// String returns a short operator-facing name for the mode.
func (k ModeKind) String() string {
	switch k {
	case ModePlatform:
		return "platform"
	case ModeCustomCA:
		return "custom-ca"
	case ModeSkipHostnameVerify:
		return "skip-hostname-verify"
	case ModeAcceptInvalid:
		return "accept-invalid"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Flag returns the CLI flag that selects the mode, or "" for the default.
func (k ModeKind) Flag() string {
	switch k {
	case ModeCustomCA:
		return "--tls-ca-file"
	case ModeSkipHostnameVerify:
		return "--insecure-skip-hostname-verify"
	case ModeAcceptInvalid:
		return "--allow-invalid-certificate"
	default:
		return ""
	}
}

// Mode is the resolved trust mode. CAFile is set only for ModeCustomCA.
type Mode struct {
	Kind   ModeKind
	CAFile string
}

// Options carries the operator-facing TLS settings as they arrive from
// flags, environment, or a configuration file, before resolution.
type Options struct {
	CAFile             string `yaml:"ca_file"`
	SkipHostnameVerify bool   `yaml:"skip_hostname_verify"`
	AllowInvalid       bool   `yaml:"allow_invalid"`
}

// ResolveMode parses the options into exactly one trust mode.
//
// The mutual-exclusion check runs before any file I/O so that conflicting
// flags are reported even when the CA file would also have been unreadable.
// A CA file is opened here, at resolution time, so a missing or unreadable
// file surfaces as a configuration error rather than a connection error.
func ResolveMode(opts Options) (Mode, error) {
	var selected []string
	if opts.CAFile != "" {
		selected = append(selected, ModeCustomCA.Flag())
	}
	if opts.SkipHostnameVerify {
		selected = append(selected, ModeSkipHostnameVerify.Flag())
	}
	if opts.AllowInvalid {
		selected = append(selected, ModeAcceptInvalid.Flag())
	}
	if len(selected) > 1 {
		return Mode{}, NewConflictingOptionsError(selected)
	}

	switch {
	case opts.CAFile != "":
		if err := checkReadable(opts.CAFile); err != nil {
			return Mode{}, err
		}
		return Mode{Kind: ModeCustomCA, CAFile: opts.CAFile}, nil
	case opts.SkipHostnameVerify:
		return Mode{Kind: ModeSkipHostnameVerify}, nil
	case opts.AllowInvalid:
		return Mode{Kind: ModeAcceptInvalid}, nil
	default:
		return Mode{Kind: ModePlatform}, nil
	}
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCAFileAccessError(path, "not found", err)
		}
		if os.IsPermission(err) {
			return NewCAFileAccessError(path, "permission denied", err)
		}
		return NewCAFileAccessError(path, "not readable", err)
	}
	return f.Close()
}

// NewConflictingOptionsError reports mutually exclusive TLS flags.
func NewConflictingOptionsError(flags []string) *TLSError {
	return NewTLSError(ErrorTypeConflictingOptions, StageConfig,
		fmt.Sprintf("mutually exclusive TLS options: %s", strings.Join(flags, ", "))).
		WithContext("flags", strings.Join(flags, ", ")).
		WithSuggestion("Select at most one TLS mode override")
}

// NewCAFileAccessError reports a CA file that cannot be opened.
func NewCAFileAccessError(path, reason string, cause error) *TLSError {
	return NewTLSErrorWithCause(ErrorTypeCAFileAccess, StageConfig,
		fmt.Sprintf("CA file %s: %s", path, reason), cause).
		WithContext("ca_file", path).
		WithSuggestion("Verify the path passed to --tls-ca-file").
		WithSuggestion("Check that the file is readable by the current user")
}
