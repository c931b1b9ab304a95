// pkg/certs/manager_test.go

package certs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	calls int
	fail  bool
}

func (f *fakeIssuer) Issue(_ context.Context, domain, email string) ([]byte, []byte, error) {
	f.calls++
	if f.fail {
		return nil, nil, cerr.New("authority unreachable")
	}
	return []byte("issued cert for " + domain), []byte("issued key for " + domain), nil
}

type fakeProxy struct {
	stops  int
	starts int
}

func (f *fakeProxy) Stop(*theke_io.RuntimeContext) error {
	f.stops++
	return nil
}

func (f *fakeProxy) Start(*theke_io.RuntimeContext) error {
	f.starts++
	return nil
}

type fakeScheduler struct {
	registrations []string
	emails        []string
}

func (f *fakeScheduler) Register(_ *theke_io.RuntimeContext, domain, email string) error {
	f.registrations = append(f.registrations, domain)
	f.emails = append(f.emails, email)
	return nil
}

type fixture struct {
	manager   *Manager
	issuer    *fakeIssuer
	proxy     *fakeProxy
	scheduler *fakeScheduler
	certDir   string
	liveDir   string
}

func newFixture(t *testing.T, reuse bool) *fixture {
	t.Helper()

	issuer := &fakeIssuer{}
	proxy := &fakeProxy{}
	scheduler := &fakeScheduler{}

	return &fixture{
		manager: &Manager{
			Issuer:      issuer,
			Proxy:       proxy,
			Scheduler:   scheduler,
			PromptReuse: func(*theke_io.RuntimeContext, string) bool { return reuse },
			LiveDir:     t.TempDir(),
		},
		issuer:    issuer,
		proxy:     proxy,
		scheduler: scheduler,
		certDir:   t.TempDir(),
	}
}

func testRC(t *testing.T) *theke_io.RuntimeContext {
	t.Helper()
	return theke_io.NewContext(context.Background(), "test")
}

func request(fx *fixture, authority Authority) Request {
	return Request{
		Domain:       "store.example.org",
		AdminEmail:   "ops@example.org",
		CertDir:      fx.certDir,
		Authority:    authority,
		Organization: "theke test",
	}
}

func writePair(t *testing.T, dir string) (certPath, keyPath string) {
	t.Helper()
	certPath = filepath.Join(dir, CertFileName)
	keyPath = filepath.Join(dir, KeyFileName)
	require.NoError(t, os.WriteFile(certPath, []byte("existing cert"), 0o644))
	require.NoError(t, os.WriteFile(keyPath, []byte("existing key"), 0o600))
	return certPath, keyPath
}

func TestEnsureFreshExternalIssuance(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	rc := testRC(t)

	state, err := fx.manager.Ensure(rc, request(fx, AuthorityLetsEncrypt))
	require.NoError(t, err)

	assert.Equal(t, SourceIssued, state.Source)
	assert.Equal(t, AuthorityLetsEncrypt, state.Authority)
	assert.True(t, state.Exists)
	assert.Equal(t, 1, fx.issuer.calls)
	assert.Equal(t, 1, fx.proxy.stops, "proxy must be stopped before issuance")
	assert.Equal(t, []string{"store.example.org"}, fx.scheduler.registrations,
		"renewal registered exactly once on fresh external issuance")
	assert.Equal(t, []string{"ops@example.org"}, fx.scheduler.emails,
		"renewal carries the contact email")

	for _, path := range []string{state.CertPath, state.KeyPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), path)
	}
}

func TestEnsureReuseIsIdempotent(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	rc := testRC(t)
	certPath, keyPath := writePair(t, fx.certDir)

	first, err := fx.manager.Ensure(rc, request(fx, AuthorityLetsEncrypt))
	require.NoError(t, err)
	second, err := fx.manager.Ensure(rc, request(fx, AuthorityLetsEncrypt))
	require.NoError(t, err)

	assert.Equal(t, SourceReused, first.Source)
	assert.Equal(t, SourceReused, second.Source)
	assert.Equal(t, certPath, first.CertPath)
	assert.Equal(t, keyPath, first.KeyPath)
	assert.Equal(t, first.CertPath, second.CertPath)
	assert.Equal(t, first.KeyPath, second.KeyPath)
	assert.Zero(t, fx.issuer.calls, "authority must not be invoked on reuse")
	assert.Empty(t, fx.scheduler.registrations, "no renewal task on reuse")
}

func TestEnsureRequestNewOverridesExistingPair(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, false) // operator declines reuse
	rc := testRC(t)
	writePair(t, fx.certDir)

	state, err := fx.manager.Ensure(rc, request(fx, AuthorityLetsEncrypt))
	require.NoError(t, err)

	assert.Equal(t, SourceIssued, state.Source)
	assert.Equal(t, 1, fx.issuer.calls)

	content, err := os.ReadFile(state.CertPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "issued cert")
}

func TestEnsureExternalFailureFallsBackToSelfSigned(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	fx.issuer.fail = true
	rc := testRC(t)

	state, err := fx.manager.Ensure(rc, request(fx, AuthorityLetsEncrypt))
	require.NoError(t, err, "authority failure must not be fatal")

	assert.Equal(t, SourceFallback, state.Source)
	assert.Equal(t, AuthoritySelfSigned, state.Authority)
	assert.True(t, state.Exists)
	assert.Empty(t, fx.scheduler.registrations, "no renewal task on fallback")

	content, err := os.ReadFile(state.CertPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "BEGIN CERTIFICATE")
}

func TestEnsureSelfSignedDirect(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	rc := testRC(t)

	state, err := fx.manager.Ensure(rc, request(fx, AuthoritySelfSigned))
	require.NoError(t, err)

	assert.Equal(t, SourceIssued, state.Source)
	assert.Equal(t, AuthoritySelfSigned, state.Authority)
	assert.Zero(t, fx.issuer.calls)
	assert.Empty(t, fx.scheduler.registrations,
		"no renewal task on direct self-signed issuance")
}

func TestEnsureDetectsAuthorityManagedStore(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	rc := testRC(t)

	live := filepath.Join(fx.manager.LiveDir, "store.example.org")
	require.NoError(t, os.MkdirAll(live, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(live, "fullchain.pem"), []byte("managed cert"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(live, "privkey.pem"), []byte("managed key"), 0o600))

	state, err := fx.manager.Ensure(rc, request(fx, AuthorityLetsEncrypt))
	require.NoError(t, err)

	assert.Equal(t, SourceReused, state.Source)
	assert.Equal(t, AuthorityLetsEncrypt, state.Authority)
	assert.Zero(t, fx.issuer.calls)

	content, err := os.ReadFile(state.CertPath)
	require.NoError(t, err)
	assert.Equal(t, "managed cert", string(content))
}

func TestRenewForcesReissueWithoutScheduling(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	rc := testRC(t)
	writePair(t, fx.certDir)

	state, err := fx.manager.Renew(rc, request(fx, AuthorityLetsEncrypt))
	require.NoError(t, err)

	assert.Equal(t, SourceRenewed, state.Source)
	assert.Equal(t, 1, fx.issuer.calls, "renewal always re-issues")
	assert.Empty(t, fx.scheduler.registrations, "renewal does not re-register itself")
}

func TestRenewFailureRestartsProxy(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	fx.issuer.fail = true
	rc := testRC(t)

	_, err := fx.manager.Renew(rc, request(fx, AuthorityLetsEncrypt))
	require.Error(t, err)

	assert.Equal(t, 1, fx.proxy.stops)
	assert.Equal(t, 1, fx.proxy.starts,
		"proxy must come back when unattended renewal fails")
	assert.Empty(t, fx.scheduler.registrations)
}

func TestEnsureFailsWhenOwnershipCannotBeApplied(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	fx.manager.Owner = "theke-no-such-runtime-user"
	rc := testRC(t)

	_, err := fx.manager.Ensure(rc, request(fx, AuthoritySelfSigned))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theke-no-such-runtime-user")
}

func TestRenewRejectsSelfSignedAuthority(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, true)
	_, err := fx.manager.Renew(testRC(t), request(fx, AuthoritySelfSigned))
	assert.Error(t, err)
}
