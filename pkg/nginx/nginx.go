// pkg/nginx/nginx.go

// Package nginx writes and activates the reverse-proxy site configuration
// for the storage endpoint. A config is never activated before `nginx -t`
// has accepted it.
package nginx

import (
	"bytes"
	"embed"
	"os"
	"text/template"
	"time"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/systemd"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

//go:embed templates/*
var templates embed.FS

// SiteConfig parameterizes the generated site file.
type SiteConfig struct {
	Domain      string
	CertPath    string
	KeyPath     string
	APIPort     int
	ConsolePort int
}

// RenderSiteConfig produces the site file contents.
func RenderSiteConfig(cfg SiteConfig) ([]byte, error) {
	raw, err := templates.ReadFile("templates/minio.conf.tmpl")
	if err != nil {
		return nil, cerr.Wrap(err, "failed to read site template")
	}

	tmpl, err := template.New("site").Parse(string(raw))
	if err != nil {
		return nil, cerr.Wrap(err, "failed to parse site template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return nil, cerr.Wrap(err, "failed to render site template")
	}
	return buf.Bytes(), nil
}

// WriteSiteConfig writes the rendered site into sites-available.
func WriteSiteConfig(rc *theke_io.RuntimeContext, cfg SiteConfig) error {
	logger := otelzap.Ctx(rc.Ctx)

	content, err := RenderSiteConfig(cfg)
	if err != nil {
		return err
	}

	logger.Info("Writing reverse-proxy site config",
		zap.String("path", shared.NginxSiteAvail), zap.String("domain", cfg.Domain))

	if err := os.WriteFile(shared.NginxSiteAvail, content, 0o644); err != nil {
		return cerr.Wrapf(err, "failed to write %s", shared.NginxSiteAvail)
	}
	return nil
}

// EnableSite links the site into sites-enabled and drops the distribution
// default site that would shadow it.
func EnableSite(rc *theke_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)

	if err := os.Remove(shared.NginxDefaultSite); err != nil && !os.IsNotExist(err) {
		logger.Warn("Could not remove default site", zap.Error(err))
	}

	if _, err := os.Lstat(shared.NginxSiteEnabled); err == nil {
		if err := os.Remove(shared.NginxSiteEnabled); err != nil {
			return cerr.Wrapf(err, "failed to replace %s", shared.NginxSiteEnabled)
		}
	}
	if err := os.Symlink(shared.NginxSiteAvail, shared.NginxSiteEnabled); err != nil {
		return cerr.Wrapf(err, "failed to enable site")
	}
	return nil
}

// Validate runs `nginx -t`. A failure is fatal to the caller: an unverified
// configuration must never replace a running one.
func Validate(rc *theke_io.RuntimeContext) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Validating reverse-proxy configuration")

	out, err := execute.Run(rc.Ctx, execute.Options{
		Command: "nginx",
		Args:    []string{"-t"},
		Timeout: 30 * time.Second,
	})
	if err != nil {
		logger.Error("Configuration validation failed", zap.String("output", out))
		return cerr.Wrapf(err, "nginx validation failed: %s", out)
	}

	logger.Info("Reverse-proxy configuration is valid")
	return nil
}

// Activate reloads a running nginx or starts a stopped one, enabling it at
// boot either way.
func Activate(rc *theke_io.RuntimeContext) error {
	if err := systemd.Enable(rc, shared.NginxUnit); err != nil {
		return err
	}
	if systemd.IsActive(rc, shared.NginxUnit) {
		return systemd.Reload(rc, shared.NginxUnit)
	}
	return systemd.Start(rc, shared.NginxUnit)
}
