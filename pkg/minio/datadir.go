// pkg/minio/datadir.go

package minio

import (
	"os"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// EnsureDataDir creates the data volume path and hands it to the runtime
// identity. Failure here is fatal: the service must never start against a
// missing or foreign-owned volume.
func EnsureDataDir(rc *theke_io.RuntimeContext, path string) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Ensuring data directory", zap.String("path", path))

	if err := os.MkdirAll(path, shared.DirPermStandard); err != nil {
		return cerr.Wrapf(err, "failed to create data directory %s", path)
	}

	if err := execute.RunSimple(rc.Ctx, "chown", "-R",
		shared.MinioUser+":"+shared.MinioGroup, path); err != nil {
		return cerr.Wrapf(err, "failed to set ownership of %s", path)
	}
	return nil
}
