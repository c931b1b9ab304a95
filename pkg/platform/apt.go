// pkg/platform/apt.go

package platform

import (
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const aptTimeout = 10 * time.Minute

// AptInstall installs packages non-interactively. Any failure is fatal to
// the caller; there is no automatic retry for package installs.
func AptInstall(rc *theke_io.RuntimeContext, packages ...string) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Installing packages", zap.Strings("packages", packages))

	if _, err := execute.Run(rc.Ctx, execute.Options{
		Command: "apt-get",
		Args:    []string{"update", "-q"},
		Timeout: aptTimeout,
	}); err != nil {
		return cerr.Wrap(err, "apt-get update failed")
	}

	args := append([]string{"install", "-y", "-q"}, packages...)
	if out, err := execute.Run(rc.Ctx, execute.Options{
		Command: "apt-get",
		Args:    args,
		Timeout: aptTimeout,
	}); err != nil {
		logger.Error("Package installation failed", zap.String("output", out))
		return cerr.Wrapf(err, "apt-get install %s failed", strings.Join(packages, " "))
	}

	logger.Info("Packages installed", zap.Strings("packages", packages))
	return nil
}

// AptRemove purges packages, tolerating ones that are already absent.
func AptRemove(rc *theke_io.RuntimeContext, packages ...string) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Removing packages", zap.Strings("packages", packages))

	args := append([]string{"purge", "-y", "-q"}, packages...)
	if _, err := execute.Run(rc.Ctx, execute.Options{
		Command: "apt-get",
		Args:    args,
		Timeout: aptTimeout,
	}); err != nil {
		return cerr.Wrap(err, "apt-get purge failed")
	}
	return nil
}

// IsPackageInstalled queries dpkg for the package state. A missing dpkg
// (non-Debian host, stripped container) degrades to false rather than error.
func IsPackageInstalled(rc *theke_io.RuntimeContext, name string) bool {
	if !execute.Exists("dpkg-query") {
		otelzap.Ctx(rc.Ctx).Debug("dpkg-query not available, treating package as not installed",
			zap.String("package", name))
		return false
	}

	out, err := execute.Run(rc.Ctx, execute.Options{
		Command: "dpkg-query",
		Args:    []string{"-W", "-f=${Status}", name},
		Timeout: 15 * time.Second,
	})
	if err != nil {
		return false
	}
	return strings.Contains(out, "install ok installed")
}
