// pkg/provision/driver.go

// Package provision sequences one installation run: probe, reconcile,
// credentials, certificate, storage service, reverse proxy, firewall.
// Side effects are strictly ordered; see Run.
package provision

import (
	"fmt"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/certs"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/credentials"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/minio"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/nginx"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/platform"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/probe"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/reconcile"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/systemd"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_err"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Run executes the full provisioning sequence. Invariants:
//   - the environment file exists before the service is (re)started
//   - the certificate pair exists, owned and restricted, before the proxy
//     config referencing it is written
//   - the proxy config passes validation before it is activated
func Run(rc *theke_io.RuntimeContext, cfg *Config) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := cfg.Validate(); err != nil {
		return theke_err.NewExpectedError(rc.Ctx, err)
	}

	if err := checkOSSupport(rc, cfg); err != nil {
		return err
	}

	hostProbe := probe.Probe(rc, probe.DefaultOptions(cfg.DataDir))

	if hostProbe.DiskAvailMB > 0 && hostProbe.DiskAvailMB < shared.MinDataDiskMB {
		logger.Warn("Low free space on the data volume",
			zap.Int64("available_mb", hostProbe.DiskAvailMB),
			zap.Int64("recommended_mb", shared.MinDataDiskMB))
		fmt.Printf("Warning: only %d MB free on the data volume.\n", hostProbe.DiskAvailMB)
	}

	decision, err := resolveInstallDecision(rc, hostProbe)
	if err != nil {
		return err
	}
	if decision == reconcile.DecisionAbort {
		return theke_err.NewExpectedError(rc.Ctx, cerr.New("installation aborted by operator"))
	}
	logger.Info("Install decision resolved", zap.String("decision", decision.String()))

	if decision == reconcile.DecisionCleanAndFresh {
		if err := reconcile.DefaultCleaner().Clean(rc); err != nil {
			return cerr.Wrap(err, "cleanup of prior installation failed")
		}
	}

	creds := resolveCredentials(rc, decision)

	if err := platform.AptInstall(rc, "nginx"); err != nil {
		return err
	}

	if err := minio.EnsureUser(rc); err != nil {
		return err
	}
	if err := minio.EnsureDataDir(rc, cfg.DataDir); err != nil {
		return err
	}
	if err := minio.InstallBinary(rc, minio.VendorResolver{}); err != nil {
		return err
	}

	certState, err := certs.NewManager().Ensure(rc, certs.Request{
		Domain:       cfg.Domain,
		AdminEmail:   cfg.AdminEmail,
		CertDir:      cfg.CertDir,
		Authority:    cfg.Authority,
		Organization: cfg.Organization,
	})
	if err != nil {
		return cerr.Wrap(err, "certificate lifecycle failed")
	}

	// Environment file before unit: the unit references it at start.
	if err := minio.WriteEnvFile(rc, shared.MinioEnvFile, minio.EnvConfig{
		DataDir:     cfg.DataDir,
		ConsolePort: cfg.ConsolePort,
		CertDir:     cfg.CertDir,
		Creds:       creds,
	}); err != nil {
		return err
	}
	if err := minio.WriteUnitFile(rc); err != nil {
		return err
	}
	if err := systemd.Enable(rc, shared.MinioUnit); err != nil {
		return err
	}
	if err := systemd.Restart(rc, shared.MinioUnit); err != nil {
		return cerr.Wrap(err, "storage service failed to start")
	}

	if err := nginx.WriteSiteConfig(rc, nginx.SiteConfig{
		Domain:      cfg.Domain,
		CertPath:    certState.CertPath,
		KeyPath:     certState.KeyPath,
		APIPort:     cfg.APIPort,
		ConsolePort: cfg.ConsolePort,
	}); err != nil {
		return err
	}
	if err := nginx.EnableSite(rc); err != nil {
		return err
	}
	// Validation gates activation; an invalid config never goes live.
	if err := nginx.Validate(rc); err != nil {
		return err
	}
	if err := nginx.Activate(rc); err != nil {
		return cerr.Wrap(err, "failed to activate reverse proxy")
	}

	if platform.FirewallPresent() {
		ports := []string{
			fmt.Sprintf("%d", cfg.AdminPort),
			fmt.Sprintf("%d", shared.PortHTTP),
			fmt.Sprintf("%d", shared.PortHTTPS),
			fmt.Sprintf("%d", cfg.ConsolePort),
		}
		if err := platform.AllowPorts(rc, ports); err != nil {
			return cerr.Wrap(err, "firewall configuration failed")
		}
	} else {
		logger.Info("No firewall manager present, skipping firewall rules")
	}

	printSummary(cfg, certState)
	return nil
}

// checkOSSupport warns on unsupported hosts and lets the operator opt to
// continue; it never hard-fails on its own.
func checkOSSupport(rc *theke_io.RuntimeContext, cfg *Config) error {
	logger := otelzap.Ctx(rc.Ctx)

	release, err := platform.DetectUbuntuRelease(rc)
	if err != nil {
		logger.Warn("Could not detect OS release", zap.Error(err))
		release = &platform.UbuntuRelease{ID: "unknown"}
	}

	if supported, reason := platform.CheckSupport(release); !supported {
		logger.Warn("Running on an unsupported OS", zap.String("reason", reason))
		if !cfg.AssumeYes && !interaction.PromptYesNo("This host is unsupported ("+reason+"). Continue anyway?", false) {
			return theke_err.NewExpectedError(rc.Ctx, cerr.New("installation declined on unsupported OS"))
		}
	}
	return nil
}

// resolveInstallDecision prompts only when the probe found prior state.
func resolveInstallDecision(rc *theke_io.RuntimeContext, hostProbe *probe.HostProbe) (reconcile.InstallDecision, error) {
	if !reconcile.NeedsChoice(hostProbe) {
		return reconcile.Decide(hostProbe, reconcile.ChoiceNone), nil
	}

	fmt.Println("An existing installation (or something occupying its ports) was detected.")
	selected := interaction.PromptSelect("How should theke proceed?", []string{
		"Remove the previous installation and start fresh",
		"Keep the existing installation and reconfigure it",
		"Abort",
	})

	choice := reconcile.ChoiceAbort
	switch selected {
	case "Remove the previous installation and start fresh":
		choice = reconcile.ChoiceClean
	case "Keep the existing installation and reconfigure it":
		choice = reconcile.ChoiceKeep
	}

	return reconcile.Decide(hostProbe, choice), nil
}

// resolveCredentials reuses the admin pair from the existing environment
// file when the operator kept the installation, prompting only when the
// file is unreadable or its pair no longer passes validation.
func resolveCredentials(rc *theke_io.RuntimeContext, decision reconcile.InstallDecision) credentials.Credentials {
	logger := otelzap.Ctx(rc.Ctx)

	if decision == reconcile.DecisionReuse {
		existing, err := minio.ReadEnvFile(shared.MinioEnvFile)
		if err != nil {
			logger.Warn("Could not read the existing environment file", zap.Error(err))
		} else if credentials.Validate(existing.Creds.Username, existing.Creds.Password).OK {
			logger.Info("Reusing admin credentials from the existing environment file",
				zap.String("username", existing.Creds.Username))
			return existing.Creds
		}
	}

	return collectCredentials(rc)
}

// collectCredentials loops until a pair passes validation; every violation
// is shown, not just the first.
func collectCredentials(rc *theke_io.RuntimeContext) credentials.Credentials {
	logger := otelzap.Ctx(rc.Ctx)

	for {
		username := interaction.PromptRequired("Admin username")
		password, err := interaction.PromptSecretConfirmed("Admin password")
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}

		result := credentials.Validate(username, password)
		if result.OK {
			logger.Info("Credentials accepted", zap.String("username", username))
			return credentials.Credentials{Username: username, Password: password}
		}

		fmt.Println("The credentials are not acceptable:")
		for _, msg := range result.Messages() {
			fmt.Println("  -", msg)
		}
	}
}

func printSummary(cfg *Config, state *certs.State) {
	fmt.Println()
	fmt.Println("MinIO is provisioned.")
	fmt.Printf("  Console:   https://%s/console/\n", cfg.Domain)
	fmt.Printf("  S3 API:    https://%s/\n", cfg.Domain)
	fmt.Printf("  Authority: %s (%s)\n", state.Authority, state.Source)
	fmt.Printf("  Data dir:  %s\n", cfg.DataDir)
}
