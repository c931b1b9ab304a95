// pkg/provision/config.go

package provision

import (
	"github.com/CodeMonkeyCybersecurity/theke/pkg/certs"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Config carries every input of one provisioning run. It replaces implicit
// shared state: each component receives exactly what its call site shows.
type Config struct {
	Domain       string `validate:"required,fqdn"`
	AdminEmail   string `validate:"omitempty,email"`
	Authority    certs.Authority
	DataDir      string `validate:"required,dirpath|dir"`
	CertDir      string `validate:"required"`
	Organization string

	APIPort     int `validate:"required,min=1,max=65535"`
	ConsolePort int `validate:"required,min=1,max=65535"`
	AdminPort   int `validate:"min=0,max=65535"`

	// AssumeYes suppresses advisory confirmations (unsupported OS). It
	// never suppresses the destructive-cleanup consent prompt.
	AssumeYes bool
}

// DefaultConfig fills the paths and ports a standard install uses.
func DefaultConfig() Config {
	return Config{
		Authority:    certs.AuthorityLetsEncrypt,
		DataDir:      shared.DefaultDataDir,
		CertDir:      shared.MinioCertDir,
		Organization: "theke",
		APIPort:      shared.PortMinioAPI,
		ConsolePort:  shared.PortMinioConsole,
		AdminPort:    shared.PortAdmin,
	}
}

var validate = validator.New()

// Validate checks the config's structural constraints before any side
// effect happens.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return cerr.Wrap(err, "invalid provisioning configuration")
	}
	if c.AdminEmail == "" && c.Authority == certs.AuthorityLetsEncrypt {
		return cerr.New("an admin email is required for external certificate issuance")
	}
	if c.APIPort == c.ConsolePort {
		return cerr.New("API and console ports must differ")
	}
	return nil
}
