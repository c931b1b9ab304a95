// pkg/reconcile/ports.go

package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/probe"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const portPollInterval = 500 * time.Millisecond

// freePorts terminates whatever owns the given ports and waits, bounded,
// for the kernel to release them. Non-convergence is fatal: partial cleanup
// must never be silently accepted.
func freePorts(rc *theke_io.RuntimeContext, ports []int, timeout time.Duration, inUse func(int) bool) error {
	logger := otelzap.Ctx(rc.Ctx)

	if inUse == nil {
		inUse = probe.IsPortInUse
	}

	for _, port := range ports {
		if !inUse(port) {
			continue
		}
		logger.Warn("Port still bound, terminating owning processes", zap.Int("port", port))
		terminatePortOwner(rc, port)
	}

	return waitForPortsFree(rc.Ctx, ports, timeout, inUse)
}

// terminatePortOwner asks fuser to SIGKILL the processes bound to the port.
// fuser being absent is tolerated; the bounded wait below decides the outcome.
func terminatePortOwner(rc *theke_io.RuntimeContext, port int) {
	if !execute.Exists("fuser") {
		otelzap.Ctx(rc.Ctx).Warn("fuser not available, relying on service stop to free port",
			zap.Int("port", port))
		return
	}
	_ = execute.RunSimple(rc.Ctx, "fuser", "-k", strconv.Itoa(port)+"/tcp")
}

// waitForPortsFree polls until every port is unbound or the deadline hits.
func waitForPortsFree(ctx context.Context, ports []int, timeout time.Duration, inUse func(int) bool) error {
	if inUse == nil {
		inUse = probe.IsPortInUse
	}

	deadline := time.Now().Add(timeout)
	for {
		var stillBound []int
		for _, port := range ports {
			if inUse(port) {
				stillBound = append(stillBound, port)
			}
		}
		if len(stillBound) == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return cerr.Newf("ports %v still bound after %s; refusing to continue with partial cleanup", stillBound, timeout)
		}

		select {
		case <-ctx.Done():
			return cerr.Wrap(ctx.Err(), fmt.Sprintf("cancelled while waiting for ports %v to free", stillBound))
		case <-time.After(portPollInterval):
		}
	}
}
