// pkg/reconcile/clean.go

package reconcile

import (
	"os"
	"path/filepath"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/platform"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/systemd"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Cleaner removes the artifacts of a prior installation. The data directory
// is deliberately left alone: cleanup must never destroy stored objects.
type Cleaner struct {
	ServiceUnits []string
	Ports        []int
	UnitFiles    []string
	EnvFiles     []string
	CertDir      string
	SiteConfigs  []string
	Packages     []string

	// CronMarker identifies the renewal crontab line to drop; empty skips.
	CronMarker string
}

// DefaultCleaner targets everything a theke installation writes.
func DefaultCleaner() *Cleaner {
	return &Cleaner{
		ServiceUnits: []string{shared.MinioUnit},
		Ports:        []int{shared.PortMinioAPI, shared.PortMinioConsole},
		UnitFiles:    []string{shared.MinioUnitFile},
		EnvFiles:     []string{shared.MinioEnvFile},
		CertDir:      shared.MinioCertDir,
		SiteConfigs:  []string{shared.NginxSiteAvail, shared.NginxSiteEnabled},
		Packages:     []string{"nginx"},
		CronMarker:   "renew --domain",
	}
}

// Clean tears down the prior installation in strict order: stop services,
// force-free the monitored ports, delete unit/env/cert artifacts, uninstall
// packages, remove the reverse-proxy site config, reload the service
// manager. Port non-convergence aborts immediately; file removal errors are
// aggregated and reported together.
func (c *Cleaner) Clean(rc *theke_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Cleaning up prior installation")

	for _, unit := range c.ServiceUnits {
		if systemd.IsRegistered(rc, unit) {
			if err := systemd.Stop(rc, unit); err != nil {
				logger.Warn("Failed to stop unit, will force-free its ports",
					zap.String("unit", unit), zap.Error(err))
			}
			if err := systemd.Disable(rc, unit); err != nil {
				logger.Debug("Failed to disable unit", zap.String("unit", unit), zap.Error(err))
			}
		}
	}

	// Fail fast here: everything after assumes the ports are ours.
	if err := freePorts(rc, c.Ports, shared.PortReleaseTimeout, nil); err != nil {
		return cerr.Wrap(err, "forced port release did not converge")
	}

	var result *multierror.Error

	for _, path := range append(append([]string{}, c.UnitFiles...), c.EnvFiles...) {
		if err := removeIfPresent(path); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if c.CertDir != "" {
		if err := removeDirContents(c.CertDir); err != nil {
			result = multierror.Append(result, err)
		}
	}

	for _, path := range c.SiteConfigs {
		if err := removeIfPresent(path); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if c.CronMarker != "" {
		if err := platform.RemoveCron(rc, c.CronMarker); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if len(c.Packages) > 0 {
		if err := platform.AptRemove(rc, c.Packages...); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := systemd.DaemonReload(rc); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return cerr.Wrap(err, "cleanup completed with errors")
	}

	logger.Info("Prior installation removed")
	return nil
}

func removeIfPresent(path string) error {
	err := os.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return cerr.Wrapf(err, "failed to remove %s", path)
}

func removeDirContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return cerr.Wrapf(err, "failed to read %s", dir)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return cerr.Wrapf(err, "failed to remove %s", filepath.Join(dir, entry.Name()))
		}
	}
	return nil
}
