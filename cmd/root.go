// cmd/root.go

package cmd

import (
	"os"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_err"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd is the base command for theke.
var RootCmd = &cobra.Command{
	Use:   "theke",
	Short: "Provision a MinIO object-storage node behind an Nginx TLS proxy",
	Long: `Theke installs and configures a single-node MinIO object store on an
Ubuntu host, fronted by Nginx with TLS termination via Let's Encrypt or a
locally generated self-signed certificate.`,
	Version:       shared.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and maps the outcome to a process exit status.
func Execute() {
	err := RootCmd.Execute()
	if err != nil && !theke_err.IsExpectedUserError(err) {
		zap.L().Error("Command failed", zap.Error(err))
	}
	shared.SafeSync()
	os.Exit(theke_err.ExitCode(err))
}

func init() {
	RootCmd.AddCommand(InstallCmd)
	RootCmd.AddCommand(UninstallCmd)
	RootCmd.AddCommand(RenewCmd)
}
