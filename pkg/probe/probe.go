// pkg/probe/probe.go

// Package probe inspects host state before provisioning: registered service
// units, bound ports, configuration artifacts and installed packages. It is
// strictly read-only; a missing inspection tool degrades the corresponding
// fact to false instead of failing the whole probe.
package probe

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/platform"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/systemd"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// HostProbe is an immutable snapshot of the host, built fresh each run and
// never serialized.
type HostProbe struct {
	ServiceRegistered  bool
	ServiceActive      bool
	PortsInUse         map[int]bool
	ConfigFilesPresent map[string]bool
	PackagesInstalled  map[string]bool
	DiskAvailMB        int64
}

// HasInstallArtifacts reports whether any trace of a prior installation was
// found: a registered unit, a bound monitored port, or a config artifact.
func (p *HostProbe) HasInstallArtifacts() bool {
	if p.ServiceRegistered {
		return true
	}
	for _, bound := range p.PortsInUse {
		if bound {
			return true
		}
	}
	for _, present := range p.ConfigFilesPresent {
		if present {
			return true
		}
	}
	return false
}

// Options selects what to inspect.
type Options struct {
	ServiceUnit string
	Ports       []int
	ConfigFiles []string
	Packages    []string
	DataDir     string
}

// DefaultOptions covers the artifacts a theke installation leaves behind.
func DefaultOptions(dataDir string) Options {
	return Options{
		ServiceUnit: shared.MinioUnit,
		Ports:       []int{shared.PortMinioAPI, shared.PortMinioConsole},
		ConfigFiles: []string{
			shared.MinioEnvFile,
			shared.MinioUnitFile,
			shared.NginxSiteAvail,
			shared.MinioBinaryPath,
		},
		Packages: []string{"nginx"},
		DataDir:  dataDir,
	}
}

// Probe builds a HostProbe. It never mutates host state.
func Probe(rc *theke_io.RuntimeContext, opts Options) *HostProbe {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Debug("Probing host state", zap.String("unit", opts.ServiceUnit))

	p := &HostProbe{
		PortsInUse:         make(map[int]bool, len(opts.Ports)),
		ConfigFilesPresent: make(map[string]bool, len(opts.ConfigFiles)),
		PackagesInstalled:  make(map[string]bool, len(opts.Packages)),
	}

	if opts.ServiceUnit != "" {
		p.ServiceRegistered = systemd.IsRegistered(rc, opts.ServiceUnit)
		p.ServiceActive = systemd.IsActive(rc, opts.ServiceUnit)
	}

	for _, port := range opts.Ports {
		p.PortsInUse[port] = IsPortInUse(port)
	}

	for _, path := range opts.ConfigFiles {
		_, err := os.Stat(path)
		p.ConfigFilesPresent[path] = err == nil
	}

	for _, name := range opts.Packages {
		p.PackagesInstalled[name] = platform.IsPackageInstalled(rc, name)
	}

	if opts.DataDir != "" {
		p.DiskAvailMB = availableMB(opts.DataDir)
	}

	logger.Debug("Host probe complete",
		zap.Bool("service_registered", p.ServiceRegistered),
		zap.Bool("service_active", p.ServiceActive),
		zap.Any("ports_in_use", p.PortsInUse),
		zap.Int64("disk_avail_mb", p.DiskAvailMB))

	return p
}

// IsPortInUse reports whether something is already bound to the port.
func IsPortInUse(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return true
	}
	listener.Close()
	return false
}

// availableMB walks up from path to the nearest existing directory and
// returns free space there, or 0 when statfs is unavailable.
func availableMB(path string) int64 {
	dir := path
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return 0
		}
		dir = parent
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0
	}
	return int64(stat.Bavail) * stat.Bsize / 1024 / 1024
}
