// cmd/renew.go

package cmd

import (
	"github.com/CodeMonkeyCybersecurity/theke/pkg/certs"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/systemd"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_cli"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// RenewCmd is the entry point the scheduled renewal task invokes. It is
// non-interactive: re-issue, then restart the proxy and the storage service.
var RenewCmd = &cobra.Command{
	Use:    "renew",
	Short:  "Renew the externally issued certificate and restart services",
	Hidden: true,
	RunE:   theke_cli.Wrap(runRenew),
}

func init() {
	RenewCmd.Flags().String("domain", "", "domain whose certificate to renew")
	RenewCmd.Flags().String("email", "", "contact email for the certificate authority")
	_ = RenewCmd.MarkFlagRequired("domain")
}

func runRenew(rc *theke_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	domain, _ := cmd.Flags().GetString("domain")
	email, _ := cmd.Flags().GetString("email")

	manager := certs.NewManager()
	manager.PromptReuse = nil

	state, err := manager.Renew(rc, certs.Request{
		Domain:     domain,
		AdminEmail: email,
		CertDir:    shared.MinioCertDir,
		Authority:  certs.AuthorityLetsEncrypt,
	})
	if err != nil {
		return cerr.Wrap(err, "certificate renewal failed")
	}

	logger.Info("Certificate renewed",
		zap.String("domain", state.Domain), zap.String("cert", state.CertPath))

	if err := systemd.Restart(rc, shared.NginxUnit); err != nil {
		return err
	}
	return systemd.Restart(rc, shared.MinioUnit)
}
