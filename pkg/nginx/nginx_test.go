// pkg/nginx/nginx_test.go

package nginx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSiteConfig(t *testing.T) {
	t.Parallel()

	content, err := RenderSiteConfig(SiteConfig{
		Domain:      "store.example.org",
		CertPath:    "/etc/minio/certs/public.crt",
		KeyPath:     "/etc/minio/certs/private.key",
		APIPort:     9000,
		ConsolePort: 9001,
	})
	require.NoError(t, err)

	rendered := string(content)

	assert.Contains(t, rendered, "server_name store.example.org;")
	assert.Contains(t, rendered, "return 301 https://$host$request_uri;",
		"plain HTTP must redirect to HTTPS")
	assert.Contains(t, rendered, "ssl_certificate     /etc/minio/certs/public.crt;")
	assert.Contains(t, rendered, "ssl_certificate_key /etc/minio/certs/private.key;")
	assert.Contains(t, rendered, "TLSv1.2 TLSv1.3")
	assert.Contains(t, rendered, "proxy_pass http://127.0.0.1:9000;")
	assert.Contains(t, rendered, "proxy_pass http://127.0.0.1:9001")
	assert.Contains(t, rendered, "proxy_buffering off;",
		"buffering breaks streaming object transfers")
	assert.Contains(t, rendered, `proxy_set_header Upgrade $http_upgrade;`,
		"console needs websocket upgrades")
}

func TestRenderSiteConfigDistinctDomains(t *testing.T) {
	t.Parallel()

	a, err := RenderSiteConfig(SiteConfig{Domain: "a.example.org", APIPort: 9000, ConsolePort: 9001})
	require.NoError(t, err)
	b, err := RenderSiteConfig(SiteConfig{Domain: "b.example.org", APIPort: 9000, ConsolePort: 9001})
	require.NoError(t, err)

	assert.NotEqual(t, string(a), string(b))
}
