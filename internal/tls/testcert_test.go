package tls

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"testing"
	"time"
)

var testSerial int64

// certSpec describes a certificate to mint for a test.
type certSpec struct {
	commonName string
	dnsNames   []string
	ips        []net.IP
	notBefore  time.Time
	notAfter   time.Time
	isCA       bool
	clientOnly bool
	parent     *issuedCert // nil means self-signed
}

// issuedCert is a minted certificate with its key and PEM encoding.
type issuedCert struct {
	cert *x509.Certificate
	key  *rsa.PrivateKey
	pem  []byte
}

func issueCert(t *testing.T, spec certSpec) *issuedCert {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	if spec.notBefore.IsZero() {
		spec.notBefore = time.Now().Add(-time.Hour)
	}
	if spec.notAfter.IsZero() {
		spec.notAfter = time.Now().Add(24 * time.Hour)
	}

	testSerial++
	template := x509.Certificate{
		SerialNumber:          big.NewInt(testSerial),
		Subject:               pkix.Name{CommonName: spec.commonName},
		NotBefore:             spec.notBefore,
		NotAfter:              spec.notAfter,
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              spec.dnsNames,
		IPAddresses:           spec.ips,
	}
	if spec.isCA {
		template.IsCA = true
		template.KeyUsage |= x509.KeyUsageCertSign
	}
	if spec.clientOnly {
		template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth}
	}

	parentCert := &template
	parentKey := key
	if spec.parent != nil {
		parentCert = spec.parent.cert
		parentKey = spec.parent.key
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, parentCert, &key.PublicKey, parentKey)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	return &issuedCert{
		cert: cert,
		key:  key,
		pem:  pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
	}
}

// anchorsOf builds an AnchorSet directly from minted roots.
func anchorsOf(roots ...*issuedCert) *AnchorSet {
	pool := x509.NewCertPool()
	var certs []*x509.Certificate
	for _, root := range roots {
		pool.AddCert(root.cert)
		certs = append(certs, root.cert)
	}
	return &AnchorSet{pool: pool, roots: certs, source: "test"}
}
