// Package tls implements the certificate-validation policy for outbound
// database connections.
//
// It resolves the operator's flags into exactly one trust mode, loads the
// matching trust anchors, and builds a `tls.Config` whose verification is
// delegated to the mode's verifier. Handshake and validation failures are
// classified into structured errors carrying remediation guidance.
package tls
