// pkg/certs/schedule.go

package certs

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/platform"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
)

// renewalSchedule runs weekly, well inside the authority's renewal window.
const renewalSchedule = "17 3 * * 1"

// CronScheduler registers the recurring renewal task. The task re-runs
// issuance and restarts the reverse proxy and the storage service; its
// outcome is not observed by the installing run.
type CronScheduler struct {
	// BinaryPath overrides the executable used in the cron line.
	BinaryPath string
}

// Register installs the renewal cron entry, once.
func (s *CronScheduler) Register(rc *theke_io.RuntimeContext, domain, email string) error {
	binary := s.BinaryPath
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			return cerr.Wrap(err, "could not resolve executable path for renewal task")
		}
		binary = exe
	}

	return platform.ScheduleCron(rc, renewalSchedule, renewalCommand(binary, domain, email))
}

// renewalCommand builds the cron command line. The contact email is carried
// so the unattended run registers its ACME account the same way the
// interactive install did.
func renewalCommand(binary, domain, email string) string {
	command := fmt.Sprintf("%s renew --domain %s", binary, domain)
	if email != "" {
		command += " --email " + email
	}
	return command
}
