// pkg/minio/unit.go

package minio

import (
	"os"
	"text/template"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/systemd"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var unitTemplate = template.Must(template.New("unit").Parse(`[Unit]
Description=MinIO object storage
Documentation=https://min.io/docs/minio/linux/index.html
Wants=network-online.target
After=network-online.target
AssertFileIsExecutable={{.Binary}}

[Service]
Type=notify
User={{.User}}
Group={{.Group}}
EnvironmentFile={{.EnvFile}}
ExecStart={{.Binary}} server $MINIO_OPTS $MINIO_VOLUMES
Restart=always
LimitNOFILE=65536
TasksMax=infinity
TimeoutStopSec=infinity
SendSIGKILL=no

[Install]
WantedBy=multi-user.target
`))

type unitParams struct {
	Binary  string
	User    string
	Group   string
	EnvFile string
}

// WriteUnitFile renders the systemd unit and reloads the manager so the
// unit becomes visible. The environment file must already exist.
func WriteUnitFile(rc *theke_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Writing systemd unit", zap.String("path", shared.MinioUnitFile))

	f, err := os.OpenFile(shared.MinioUnitFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return cerr.Wrapf(err, "failed to create %s", shared.MinioUnitFile)
	}
	defer f.Close()

	err = unitTemplate.Execute(f, unitParams{
		Binary:  shared.MinioBinaryPath,
		User:    shared.MinioUser,
		Group:   shared.MinioGroup,
		EnvFile: shared.MinioEnvFile,
	})
	if err != nil {
		return cerr.Wrap(err, "failed to render unit file")
	}

	return systemd.DaemonReload(rc)
}
