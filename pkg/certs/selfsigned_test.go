// pkg/certs/selfsigned_test.go

package certs

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSelfSigned(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	certPath := filepath.Join(dir, CertFileName)
	keyPath := filepath.Join(dir, KeyFileName)

	require.NoError(t, GenerateSelfSigned("store.example.org", "theke test", certPath, keyPath))

	certPEM, err := os.ReadFile(certPath)
	require.NoError(t, err)
	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	require.Equal(t, "CERTIFICATE", block.Type)

	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)

	assert.Equal(t, "store.example.org", cert.Subject.CommonName)
	assert.Contains(t, cert.DNSNames, "store.example.org")
	assert.Contains(t, cert.DNSNames, "localhost")
	assert.Contains(t, cert.ExtKeyUsage, x509.ExtKeyUsageServerAuth)

	// 365-day validity, allowing for clock skew during the test.
	lifetime := cert.NotAfter.Sub(cert.NotBefore)
	assert.InDelta(t, (365 * 24 * time.Hour).Hours(), lifetime.Hours(), 25)

	keyInfo, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), keyInfo.Mode().Perm())

	keyPEM, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	keyBlock, _ := pem.Decode(keyPEM)
	require.NotNil(t, keyBlock)
	_, err = x509.ParseECPrivateKey(keyBlock.Bytes)
	assert.NoError(t, err)
}

func TestGenerateSelfSignedFailsOnUnwritablePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := GenerateSelfSigned("store.example.org", "theke test",
		filepath.Join(dir, "missing", CertFileName),
		filepath.Join(dir, "missing", KeyFileName))
	assert.Error(t, err)
}
