// pkg/minio/envfile.go

package minio

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/credentials"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// EnvConfig is the flat key/value environment the service unit consumes.
type EnvConfig struct {
	DataDir     string
	ConsolePort int
	CertDir     string
	Creds       credentials.Credentials
}

// WriteEnvFile persists the service environment. Credentials land only
// here, owner-readable; they are never logged.
func WriteEnvFile(rc *theke_io.RuntimeContext, path string, cfg EnvConfig) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Writing service environment file", zap.String("path", path))

	env := map[string]string{
		"MINIO_VOLUMES":       cfg.DataDir,
		"MINIO_OPTS":          fmt.Sprintf("--console-address :%d --certs-dir %s", cfg.ConsolePort, cfg.CertDir),
		"MINIO_ROOT_USER":     cfg.Creds.Username,
		"MINIO_ROOT_PASSWORD": cfg.Creds.Password,
	}

	if err := godotenv.Write(env, path); err != nil {
		return cerr.Wrapf(err, "failed to write %s", path)
	}
	if err := os.Chmod(path, shared.FilePermSecret); err != nil {
		return cerr.Wrapf(err, "failed to restrict %s", path)
	}
	return nil
}

// ReadEnvFile loads a previously written environment file, e.g. when
// reusing an existing installation.
func ReadEnvFile(path string) (EnvConfig, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return EnvConfig{}, cerr.Wrapf(err, "failed to read %s", path)
	}

	cfg := EnvConfig{
		DataDir: env["MINIO_VOLUMES"],
		Creds: credentials.Credentials{
			Username: env["MINIO_ROOT_USER"],
			Password: env["MINIO_ROOT_PASSWORD"],
		},
	}
	return cfg, nil
}
