// pkg/minio/user.go

// Package minio manages the single-node MinIO storage service: its runtime
// identity, data volume, binary, environment file and systemd unit.
package minio

import (
	"os/user"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// EnsureUser creates the dedicated non-interactive runtime identity the
// service runs as, if it does not already exist.
func EnsureUser(rc *theke_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)

	if _, err := user.Lookup(shared.MinioUser); err == nil {
		logger.Debug("Runtime user already exists", zap.String("user", shared.MinioUser))
		return nil
	}

	logger.Info("Creating runtime user", zap.String("user", shared.MinioUser))
	if err := execute.RunSimple(rc.Ctx, "useradd",
		"--system", "--no-create-home", "--shell", "/usr/sbin/nologin",
		shared.MinioUser); err != nil {
		return cerr.Wrapf(err, "failed to create user %s", shared.MinioUser)
	}
	return nil
}
