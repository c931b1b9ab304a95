// pkg/certs/manager.go

package certs

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"strconv"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/systemd"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	CertFileName = "public.crt"
	KeyFileName  = "private.key"
)

// Issuer obtains a certificate from an external authority.
type Issuer interface {
	Issue(ctx context.Context, domain, email string) (certPEM, keyPEM []byte, err error)
}

// ProxyController stops the reverse proxy so issuance can bind its port,
// and brings it back when issuance does not produce a usable pair.
type ProxyController interface {
	Stop(rc *theke_io.RuntimeContext) error
	Start(rc *theke_io.RuntimeContext) error
}

// RenewalScheduler registers the recurring renewal task.
type RenewalScheduler interface {
	Register(rc *theke_io.RuntimeContext, domain, email string) error
}

// Manager drives the certificate lifecycle decision for one run.
type Manager struct {
	Issuer    Issuer
	Proxy     ProxyController
	Scheduler RenewalScheduler

	// PromptReuse asks the operator whether an existing certificate should
	// be kept. Nil means reuse without asking.
	PromptReuse func(rc *theke_io.RuntimeContext, domain string) bool

	// Owner is the runtime identity that must own the cert/key pair.
	// Empty skips the ownership change (tests, non-root runs).
	Owner string

	// LiveDir is the external authority's managed certificate store.
	LiveDir string
}

// NewManager wires the production collaborators.
func NewManager() *Manager {
	return &Manager{
		Issuer:    &ACMEIssuer{},
		Proxy:     &nginxController{},
		Scheduler: &CronScheduler{},
		PromptReuse: func(_ *theke_io.RuntimeContext, domain string) bool {
			return interaction.PromptYesNo("A certificate for "+domain+" already exists. Reuse it?", true)
		},
		Owner:   shared.MinioUser,
		LiveDir: shared.LetsEncryptLive,
	}
}

// Ensure resolves the certificate state for the request. On return the pair
// at CertPath/KeyPath exists, is owned by the runtime identity and is
// readable; the provisioning driver may reference it from the proxy config.
func (m *Manager) Ensure(rc *theke_io.RuntimeContext, req Request) (*State, error) {
	logger := otelzap.Ctx(rc.Ctx)

	if err := os.MkdirAll(req.CertDir, shared.DirPermStandard); err != nil {
		return nil, cerr.Wrapf(err, "failed to create certificate directory %s", req.CertDir)
	}

	certPath := filepath.Join(req.CertDir, CertFileName)
	keyPath := filepath.Join(req.CertDir, KeyFileName)

	if found, managed := m.detectExisting(req.Domain, certPath, keyPath); found {
		if m.PromptReuse == nil || m.PromptReuse(rc, req.Domain) {
			logger.Info("Reusing existing certificate",
				zap.String("domain", req.Domain), zap.Bool("authority_managed", managed))

			if managed {
				if err := m.copyFromLiveStore(req.Domain, certPath, keyPath); err != nil {
					return nil, err
				}
			}

			state := &State{
				Domain:    req.Domain,
				Authority: existingAuthority(managed, req.Authority),
				CertPath:  certPath,
				KeyPath:   keyPath,
				Exists:    true,
				Source:    SourceReused,
			}
			return m.finalize(rc, state)
		}
		logger.Info("Operator requested a new certificate", zap.String("domain", req.Domain))
	}

	return m.issue(rc, req, certPath, keyPath, SourceIssued)
}

// Renew forces re-issuance via the external authority without prompting and
// without re-registering the renewal task.
func (m *Manager) Renew(rc *theke_io.RuntimeContext, req Request) (*State, error) {
	if req.Authority != AuthorityLetsEncrypt {
		return nil, cerr.New("renewal only applies to externally issued certificates")
	}

	certPath := filepath.Join(req.CertDir, CertFileName)
	keyPath := filepath.Join(req.CertDir, KeyFileName)

	state, err := m.issueExternal(rc, req, certPath, keyPath)
	if err != nil {
		// The proxy was stopped for the challenge. Renewal runs unattended,
		// so a failed issuance must not leave the site down.
		if m.Proxy != nil {
			if startErr := m.Proxy.Start(rc); startErr != nil {
				otelzap.Ctx(rc.Ctx).Error("Failed to restart reverse proxy after renewal failure",
					zap.Error(startErr))
			}
		}
		return nil, err
	}
	state.Source = SourceRenewed
	return m.finalize(rc, state)
}

// issue runs the Issuing state of the lifecycle.
func (m *Manager) issue(rc *theke_io.RuntimeContext, req Request, certPath, keyPath string, source Source) (*State, error) {
	logger := otelzap.Ctx(rc.Ctx)

	if req.Authority == AuthorityLetsEncrypt {
		state, err := m.issueExternal(rc, req, certPath, keyPath)
		if err == nil {
			state.Source = source
			// Renewal is registered only on a fresh external issuance,
			// never on reuse or fallback.
			if m.Scheduler != nil {
				if regErr := m.Scheduler.Register(rc, req.Domain, req.AdminEmail); regErr != nil {
					logger.Warn("Failed to register renewal task", zap.Error(regErr))
				}
			}
			return m.finalize(rc, state)
		}

		logger.Warn("External authority issuance failed, falling back to self-signed",
			zap.String("domain", req.Domain), zap.Error(err))

		if err := GenerateSelfSigned(req.Domain, req.Organization, certPath, keyPath); err != nil {
			return nil, cerr.Wrap(err, "self-signed fallback failed")
		}
		return m.finalize(rc, &State{
			Domain:    req.Domain,
			Authority: AuthoritySelfSigned,
			CertPath:  certPath,
			KeyPath:   keyPath,
			Exists:    true,
			Source:    SourceFallback,
		})
	}

	if err := GenerateSelfSigned(req.Domain, req.Organization, certPath, keyPath); err != nil {
		return nil, cerr.Wrap(err, "self-signed certificate generation failed")
	}
	return m.finalize(rc, &State{
		Domain:    req.Domain,
		Authority: AuthoritySelfSigned,
		CertPath:  certPath,
		KeyPath:   keyPath,
		Exists:    true,
		Source:    source,
	})
}

func (m *Manager) issueExternal(rc *theke_io.RuntimeContext, req Request, certPath, keyPath string) (*State, error) {
	logger := otelzap.Ctx(rc.Ctx)

	// Issuance binds the proxy's port; stopping a not-yet-installed proxy
	// is fine and logged at debug only.
	if m.Proxy != nil {
		if err := m.Proxy.Stop(rc); err != nil {
			logger.Debug("Reverse proxy stop before issuance failed", zap.Error(err))
		}
	}

	logger.Info("Requesting certificate from external authority",
		zap.String("domain", req.Domain), zap.String("email", req.AdminEmail))

	certPEM, keyPEM, err := m.Issuer.Issue(rc.Ctx, req.Domain, req.AdminEmail)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return nil, cerr.Wrapf(err, "failed to write %s", certPath)
	}
	if err := os.WriteFile(keyPath, keyPEM, shared.FilePermSecret); err != nil {
		return nil, cerr.Wrapf(err, "failed to write %s", keyPath)
	}

	return &State{
		Domain:    req.Domain,
		Authority: AuthorityLetsEncrypt,
		CertPath:  certPath,
		KeyPath:   keyPath,
		Exists:    true,
	}, nil
}

// detectExisting checks both the authority-managed store and the raw pair in
// the certificate directory; either is sufficient.
func (m *Manager) detectExisting(domain, certPath, keyPath string) (found, managed bool) {
	if fileExists(certPath) && fileExists(keyPath) {
		return true, false
	}
	if m.LiveDir != "" {
		live := filepath.Join(m.LiveDir, domain)
		if fileExists(filepath.Join(live, "fullchain.pem")) && fileExists(filepath.Join(live, "privkey.pem")) {
			return true, true
		}
	}
	return false, false
}

func (m *Manager) copyFromLiveStore(domain, certPath, keyPath string) error {
	live := filepath.Join(m.LiveDir, domain)
	if err := copyFile(filepath.Join(live, "fullchain.pem"), certPath, 0o644); err != nil {
		return cerr.Wrap(err, "failed to copy managed certificate")
	}
	if err := copyFile(filepath.Join(live, "privkey.pem"), keyPath, shared.FilePermSecret); err != nil {
		return cerr.Wrap(err, "failed to copy managed private key")
	}
	return nil
}

// finalize applies ownership and permissions, then verifies readability.
// Control does not pass back to the driver with an unreadable pair.
func (m *Manager) finalize(rc *theke_io.RuntimeContext, state *State) (*State, error) {
	logger := otelzap.Ctx(rc.Ctx)

	if err := os.Chmod(state.KeyPath, shared.FilePermSecret); err != nil {
		return nil, cerr.Wrapf(err, "failed to restrict %s", state.KeyPath)
	}
	if err := os.Chmod(state.CertPath, shared.FilePermSecret); err != nil {
		return nil, cerr.Wrapf(err, "failed to restrict %s", state.CertPath)
	}

	// The service reads the pair directly (--certs-dir), so a 0600 pair
	// that is not owned by the runtime identity is unusable. Ownership
	// failure is therefore fatal, not advisory.
	if m.Owner != "" {
		if err := chownToUser(m.Owner, state.CertPath, state.KeyPath); err != nil {
			return nil, cerr.Wrapf(err, "failed to hand certificate pair to %s", m.Owner)
		}
	}

	for _, path := range []string{state.CertPath, state.KeyPath} {
		f, err := os.Open(path)
		if err != nil {
			return nil, cerr.Wrapf(err, "certificate artifact %s is not readable", path)
		}
		f.Close()
	}

	logger.Info("Certificate state finalized",
		zap.String("domain", state.Domain),
		zap.String("authority", state.Authority.String()),
		zap.String("source", state.Source.String()),
		zap.String("cert", state.CertPath))

	return state, nil
}

func existingAuthority(managed bool, requested Authority) Authority {
	if managed {
		return AuthorityLetsEncrypt
	}
	if requested == AuthorityNone {
		return AuthoritySelfSigned
	}
	return requested
}

func chownToUser(owner string, paths ...string) error {
	u, err := user.Lookup(owner)
	if err != nil {
		return err
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return err
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := os.Chown(path, uid, gid); err != nil {
			return err
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, perm)
}

// nginxController stops the nginx unit ahead of ACME issuance.
type nginxController struct{}

func (c *nginxController) Stop(rc *theke_io.RuntimeContext) error {
	if !systemd.IsActive(rc, shared.NginxUnit) {
		return nil
	}
	return systemd.Stop(rc, shared.NginxUnit)
}

func (c *nginxController) Start(rc *theke_io.RuntimeContext) error {
	return systemd.Start(rc, shared.NginxUnit)
}
