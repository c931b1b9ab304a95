// pkg/certs/schedule_test.go

package certs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenewalCommand(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"/usr/local/bin/theke renew --domain store.example.org --email ops@example.org",
		renewalCommand("/usr/local/bin/theke", "store.example.org", "ops@example.org"))

	assert.Equal(t,
		"/usr/local/bin/theke renew --domain store.example.org",
		renewalCommand("/usr/local/bin/theke", "store.example.org", ""))
}
