// pkg/shared/consts.go

package shared

import "time"

// Service identity
const (
	MinioUnit   = "minio.service"
	NginxUnit   = "nginx.service"
	MinioUser   = "minio-user"
	MinioGroup  = "minio-user"
	ServiceName = "theke"
)

// Ports
const (
	PortMinioAPI     = 9000
	PortMinioConsole = 9001
	PortHTTP         = 80
	PortHTTPS        = 443
	PortAdmin        = 22
)

// Filesystem layout
const (
	MinioBinaryPath  = "/usr/local/bin/minio"
	MinioEnvFile     = "/etc/default/minio"
	MinioUnitFile    = "/etc/systemd/system/minio.service"
	MinioCertDir     = "/etc/minio/certs"
	DefaultDataDir   = "/mnt/data/minio"
	NginxSiteAvail   = "/etc/nginx/sites-available/minio"
	NginxSiteEnabled = "/etc/nginx/sites-enabled/minio"
	NginxDefaultSite = "/etc/nginx/sites-enabled/default"
	LetsEncryptLive  = "/etc/letsencrypt/live"
	LogDir           = "/var/log/theke"
)

// Permissions
const (
	DirPermStandard   = 0o755
	DirPermRestricted = 0o700
	FilePermSecret    = 0o600
	FilePermBinary    = 0o755
)

// PortReleaseTimeout bounds how long cleanup waits for a forcibly
// terminated process to release its port.
const PortReleaseTimeout = 10 * time.Second

// MinDataDiskMB is the free-space floor on the data volume below which the
// installer warns the operator.
const MinDataDiskMB = 1024

// CertValidityDays is the lifetime of locally generated certificates.
const CertValidityDays = 365
