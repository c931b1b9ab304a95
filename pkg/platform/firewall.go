// pkg/platform/firewall.go

package platform

import (
	"github.com/CodeMonkeyCybersecurity/theke/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// FirewallPresent reports whether a supported firewall backend exists.
// Absence of a firewall manager is advisory: callers skip the step.
func FirewallPresent() bool {
	return execute.Exists("ufw") || execute.Exists("firewall-cmd")
}

// AllowPorts opens the given ports on whichever firewall backend is
// installed (UFW preferred, then firewalld).
func AllowPorts(rc *theke_io.RuntimeContext, ports []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if execute.Exists("ufw") {
		logger.Info("Using UFW for firewall changes", zap.Strings("ports", ports))
		return allowPortsUFW(rc, ports)
	}
	if execute.Exists("firewall-cmd") {
		logger.Info("Using firewalld for firewall changes", zap.Strings("ports", ports))
		return allowPortsFirewalld(rc, ports)
	}

	logger.Warn("No supported firewall backend found, skipping firewall configuration")
	return nil
}

func allowPortsUFW(rc *theke_io.RuntimeContext, ports []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := execute.RunSimple(rc.Ctx, "ufw", "--force", "enable"); err != nil {
		logger.Warn("UFW already enabled or enable failed", zap.Error(err))
	}

	for _, port := range ports {
		if err := execute.RunSimple(rc.Ctx, "ufw", "allow", port); err != nil {
			logger.Error("Failed to allow port", zap.String("port", port), zap.Error(err))
			return err
		}
	}

	return execute.RunSimple(rc.Ctx, "ufw", "reload")
}

func allowPortsFirewalld(rc *theke_io.RuntimeContext, ports []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := execute.RunSimple(rc.Ctx, "firewall-cmd", "--state"); err != nil {
		logger.Error("Firewalld not running", zap.Error(err))
		return err
	}

	for _, port := range ports {
		if err := execute.RunSimple(rc.Ctx, "firewall-cmd", "--permanent", "--add-port="+port+"/tcp"); err != nil {
			logger.Error("Failed to allow port in firewalld", zap.String("port", port), zap.Error(err))
			return err
		}
	}

	return execute.RunSimple(rc.Ctx, "firewall-cmd", "--reload")
}
