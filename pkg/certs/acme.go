// pkg/certs/acme.go

package certs

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge/http01"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"
)

// acmeUser satisfies lego's registration.User.
type acmeUser struct {
	email        string
	registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *acmeUser) GetEmail() string                        { return u.email }
func (u *acmeUser) GetRegistration() *registration.Resource { return u.registration }
func (u *acmeUser) GetPrivateKey() crypto.PrivateKey        { return u.key }

// ACMEIssuer obtains domain-validated certificates from an ACME directory
// using the HTTP-01 challenge on port 80. The reverse proxy must be stopped
// before Issue is called; the challenge server binds the same port.
type ACMEIssuer struct {
	// CADirURL overrides the production Let's Encrypt directory,
	// e.g. for the staging endpoint.
	CADirURL string
}

// Issue registers a throwaway account and obtains a bundled certificate.
func (i *ACMEIssuer) Issue(ctx context.Context, domain, email string) (certPEM, keyPEM []byte, err error) {
	accountKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, cerr.Wrap(err, "failed to generate ACME account key")
	}

	user := &acmeUser{email: email, key: accountKey}

	cfg := lego.NewConfig(user)
	cfg.CADirURL = lego.LEDirectoryProduction
	if i.CADirURL != "" {
		cfg.CADirURL = i.CADirURL
	}

	client, err := lego.NewClient(cfg)
	if err != nil {
		return nil, nil, cerr.Wrap(err, "failed to create ACME client")
	}

	if err := client.Challenge.SetHTTP01Provider(http01.NewProviderServer("", "80")); err != nil {
		return nil, nil, cerr.Wrap(err, "failed to configure HTTP-01 challenge")
	}

	reg, err := client.Registration.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
	if err != nil {
		return nil, nil, cerr.Wrap(err, "failed to register ACME account")
	}
	user.registration = reg

	resource, err := client.Certificate.Obtain(certificate.ObtainRequest{
		Domains: []string{domain},
		Bundle:  true,
	})
	if err != nil {
		return nil, nil, cerr.Wrapf(err, "failed to obtain certificate for %s", domain)
	}

	return resource.Certificate, resource.PrivateKey, nil
}
