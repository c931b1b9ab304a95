// pkg/systemd/systemctl.go

package systemd

import (
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// RunSystemctl executes one systemctl action against a unit.
func RunSystemctl(rc *theke_io.RuntimeContext, action, unit string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if !execute.Exists("systemctl") {
		return cerr.New("systemctl not found")
	}

	logger.Debug("Executing systemctl",
		zap.String("action", action), zap.String("unit", unit))

	if err := execute.RunSimple(rc.Ctx, "systemctl", action, unit); err != nil {
		return cerr.Wrapf(err, "systemctl %s %s failed", action, unit)
	}
	return nil
}

func Enable(rc *theke_io.RuntimeContext, unit string) error  { return RunSystemctl(rc, "enable", unit) }
func Start(rc *theke_io.RuntimeContext, unit string) error   { return RunSystemctl(rc, "start", unit) }
func Stop(rc *theke_io.RuntimeContext, unit string) error    { return RunSystemctl(rc, "stop", unit) }
func Restart(rc *theke_io.RuntimeContext, unit string) error { return RunSystemctl(rc, "restart", unit) }
func Reload(rc *theke_io.RuntimeContext, unit string) error  { return RunSystemctl(rc, "reload", unit) }

// Disable turns a unit off at boot; missing units are tolerated.
func Disable(rc *theke_io.RuntimeContext, unit string) error {
	return RunSystemctl(rc, "disable", unit)
}

// DaemonReload re-reads unit files after they change on disk.
func DaemonReload(rc *theke_io.RuntimeContext) error {
	if !execute.Exists("systemctl") {
		return cerr.New("systemctl not found")
	}
	if err := execute.RunSimple(rc.Ctx, "systemctl", "daemon-reload"); err != nil {
		return cerr.Wrap(err, "systemctl daemon-reload failed")
	}
	return nil
}

// IsRegistered reports whether the unit file is known to systemd. Hosts
// without systemctl probe as unregistered rather than erroring.
func IsRegistered(rc *theke_io.RuntimeContext, unit string) bool {
	state := showProperty(rc, unit, "LoadState")
	return state == "loaded"
}

// IsActive reports whether the unit is currently running.
func IsActive(rc *theke_io.RuntimeContext, unit string) bool {
	state := showProperty(rc, unit, "ActiveState")
	return state == "active"
}

func showProperty(rc *theke_io.RuntimeContext, unit, property string) string {
	if !execute.Exists("systemctl") {
		return ""
	}
	out, err := execute.Run(rc.Ctx, execute.Options{
		Command: "systemctl",
		Args:    []string{"show", unit, "--property=" + property},
		Timeout: 15 * time.Second,
	})
	if err != nil {
		return ""
	}
	_, value, found := strings.Cut(strings.TrimSpace(out), "=")
	if !found {
		return ""
	}
	return value
}
