// cmd/uninstall.go

package cmd

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/reconcile"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_cli"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_err"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var UninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove a theke-managed installation",
	Long: `Uninstall stops the storage service, frees its ports, and removes the
unit file, environment file, certificate directory contents and the Nginx
site configuration. The data volume is left untouched.`,
	RunE: theke_cli.Wrap(runUninstall),
}

func runUninstall(rc *theke_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	if os.Geteuid() != 0 {
		return cerr.New("theke uninstall must be run as root")
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !interaction.PromptYesNo("Remove the theke installation from this host?", false) {
		return theke_err.NewExpectedError(rc.Ctx, cerr.New("uninstall aborted by operator"))
	}

	if err := reconcile.DefaultCleaner().Clean(rc); err != nil {
		return err
	}

	fmt.Println("Installation removed. The data volume was preserved.")
	return nil
}

func init() {
	UninstallCmd.Flags().Bool("yes", false, "do not ask for confirmation")
}
