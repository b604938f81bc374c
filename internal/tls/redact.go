package tls

import (
	"fmt"
	"net/url"
	"regexp"
)

// userinfoPattern matches the credential component of URL-like strings that
// survive inside free-form error text from lower layers.
var userinfoPattern = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)[^@/\s]+@`)

// RedactURL reduces a connection URL to scheme://host:port, dropping the
// credential component, path, and query entirely.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return userinfoPattern.ReplaceAllString(raw, "$1")
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}

// SanitizeMessage strips credential components from any URL-like substrings
// embedded in a diagnostic message.
func SanitizeMessage(message string) string {
	return userinfoPattern.ReplaceAllString(message, "$1")
}
