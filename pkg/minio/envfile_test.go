// pkg/minio/envfile_test.go

package minio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/credentials"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFileRoundTrip(t *testing.T) {
	t.Parallel()

	rc := theke_io.NewContext(context.Background(), "test")
	path := filepath.Join(t.TempDir(), "minio")

	cfg := EnvConfig{
		DataDir:     "/mnt/data/minio",
		ConsolePort: 9001,
		CertDir:     "/etc/minio/certs",
		Creds: credentials.Credentials{
			Username: "storageadmin",
			Password: "a-long-enough-password",
		},
	}
	require.NoError(t, WriteEnvFile(rc, path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(),
		"credentials file must be owner-only")

	got, err := ReadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.DataDir, got.DataDir)
	assert.Equal(t, cfg.Creds.Username, got.Creds.Username)
	assert.Equal(t, cfg.Creds.Password, got.Creds.Password)
}

func TestWriteEnvFileOpts(t *testing.T) {
	t.Parallel()

	rc := theke_io.NewContext(context.Background(), "test")
	path := filepath.Join(t.TempDir(), "minio")

	require.NoError(t, WriteEnvFile(rc, path, EnvConfig{
		DataDir:     "/mnt/data/minio",
		ConsolePort: 9001,
		CertDir:     "/etc/minio/certs",
	}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "--console-address :9001")
	assert.Contains(t, string(content), "--certs-dir /etc/minio/certs")
}

func TestReadEnvFileMissing(t *testing.T) {
	t.Parallel()

	_, err := ReadEnvFile(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
