// pkg/certs/selfsigned.go

package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"time"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	cerr "github.com/cockroachdb/errors"
)

// GenerateSelfSigned writes a locally signed certificate/key pair valid for
// shared.CertValidityDays. This is the last line of defense: a failure here
// is fatal because there is no further fallback.
func GenerateSelfSigned(domain, organization, certPath, keyPath string) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return cerr.Wrap(err, "failed to generate private key")
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return cerr.Wrap(err, "failed to generate serial number")
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   domain,
			Organization: []string{organization},
		},
		NotBefore:             now,
		NotAfter:              now.AddDate(0, 0, shared.CertValidityDays),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{domain, "localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return cerr.Wrap(err, "failed to create certificate")
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return cerr.Wrap(err, "failed to marshal private key")
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return cerr.Wrapf(err, "failed to write %s", certPath)
	}
	if err := os.WriteFile(keyPath, keyPEM, shared.FilePermSecret); err != nil {
		return cerr.Wrapf(err, "failed to write %s", keyPath)
	}
	return nil
}
