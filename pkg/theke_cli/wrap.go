// pkg/theke_cli/wrap.go

package theke_cli

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	"github.com/spf13/cobra"
)

// Wrap adapts a RuntimeContext-based handler to cobra's RunE, ensuring
// panic recovery, logging and span lifecycle around every command.
func Wrap(fn func(rc *theke_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.InitFallback()

		rc := theke_io.NewContext(context.Background(), cmd.Name())
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		return fn(rc, cmd, args)
	}
}
