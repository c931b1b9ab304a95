// pkg/platform/scheduler.go

package platform

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// ScheduleCron appends an entry to root's crontab unless an entry for the
// same command already exists. The existing-entry check makes registration
// idempotent across re-runs.
func ScheduleCron(rc *theke_io.RuntimeContext, schedule, command string) error {
	logger := otelzap.Ctx(rc.Ctx)
	entry := fmt.Sprintf("%s %s", schedule, command)

	existing, err := exec.Command("crontab", "-l").Output()
	if err == nil && strings.Contains(string(existing), command) {
		logger.Debug("Cron entry already present, skipping",
			zap.String("command", command))
		return nil
	}

	crontab := strings.TrimRight(string(existing), "\n")
	if crontab != "" {
		crontab += "\n"
	}
	crontab += entry + "\n"

	cmd := exec.Command("crontab", "-")
	cmd.Stdin = strings.NewReader(crontab)
	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Error("Failed to install crontab",
			zap.String("output", string(out)), zap.Error(err))
		return cerr.Wrap(err, "crontab install failed")
	}

	logger.Info("Cron entry scheduled", zap.String("entry", entry))
	return nil
}

// RemoveCron drops any crontab lines containing the given command.
func RemoveCron(rc *theke_io.RuntimeContext, command string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if !execute.Exists("crontab") {
		return nil
	}
	existing, err := exec.Command("crontab", "-l").Output()
	if err != nil {
		return nil
	}

	var kept []string
	removed := false
	for _, line := range strings.Split(string(existing), "\n") {
		if strings.Contains(line, command) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil
	}

	cmd := exec.Command("crontab", "-")
	cmd.Stdin = strings.NewReader(strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n")
	if out, err := cmd.CombinedOutput(); err != nil {
		return cerr.Wrapf(err, "crontab update failed: %s", string(out))
	}

	logger.Info("Cron entry removed", zap.String("command", command))
	return nil
}
