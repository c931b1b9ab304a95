// cmd/install.go

package cmd

import (
	"os"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/certs"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/provision"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_cli"
	"github.com/CodeMonkeyCybersecurity/theke/pkg/theke_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var InstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install MinIO behind an Nginx TLS reverse proxy",
	Long: `Install provisions the host end to end:

- probes for a previous installation and reconciles it (keep, clean, abort)
- collects and validates admin credentials
- ensures a TLS certificate (Let's Encrypt with self-signed fallback,
  or self-signed directly via --self-signed)
- installs the MinIO binary, its environment file and systemd unit
- writes and validates the Nginx site config before activating it
- opens firewall ports when a firewall manager is present

EXAMPLES:
  theke install --domain store.example.org --email ops@example.org
  theke install --domain store.internal --self-signed`,
	RunE: theke_cli.Wrap(runInstall),
}

func init() {
	bindInstallFlags(InstallCmd.Flags())
}

func bindInstallFlags(flags *pflag.FlagSet) {
	flags.String("domain", "", "fully qualified domain name the proxy serves")
	flags.String("email", "", "contact email for external certificate issuance")
	flags.Bool("self-signed", false, "skip the external authority and self-sign directly")
	flags.String("data-dir", "", "data volume path (default "+shared.DefaultDataDir+")")
	flags.Bool("yes", false, "assume yes on advisory confirmations")

	_ = viper.BindPFlag("domain", flags.Lookup("domain"))
	_ = viper.BindPFlag("email", flags.Lookup("email"))
	_ = viper.BindPFlag("data_dir", flags.Lookup("data-dir"))
}

// loadDefaults layers viper sources: built-in defaults, an optional
// /etc/theke/theke.yaml, then THEKE_* environment variables.
func loadDefaults() {
	viper.SetDefault("data_dir", shared.DefaultDataDir)
	viper.SetDefault("cert_dir", shared.MinioCertDir)
	viper.SetDefault("api_port", shared.PortMinioAPI)
	viper.SetDefault("console_port", shared.PortMinioConsole)
	viper.SetDefault("admin_port", shared.PortAdmin)

	viper.SetConfigName("theke")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/theke")
	viper.SetEnvPrefix("THEKE")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func runInstall(rc *theke_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	if os.Geteuid() != 0 {
		return cerr.New("theke install must be run as root")
	}

	loadDefaults()

	cfg := provision.DefaultConfig()
	cfg.Domain = viper.GetString("domain")
	cfg.AdminEmail = viper.GetString("email")
	cfg.DataDir = viper.GetString("data_dir")
	cfg.CertDir = viper.GetString("cert_dir")
	cfg.APIPort = viper.GetInt("api_port")
	cfg.ConsolePort = viper.GetInt("console_port")
	cfg.AdminPort = viper.GetInt("admin_port")
	cfg.AssumeYes, _ = cmd.Flags().GetBool("yes")

	if selfSigned, _ := cmd.Flags().GetBool("self-signed"); selfSigned {
		cfg.Authority = certs.AuthoritySelfSigned
	}

	if cfg.Domain == "" {
		cfg.Domain = interaction.PromptRequired("Domain name (e.g. store.example.org)")
	}
	if cfg.AdminEmail == "" && cfg.Authority == certs.AuthorityLetsEncrypt {
		cfg.AdminEmail = interaction.PromptRequired("Contact email for certificate issuance")
	}
	if flagged, _ := cmd.Flags().GetString("data-dir"); flagged == "" {
		cfg.DataDir = interaction.PromptInput("Data volume path", cfg.DataDir)
	}

	logger.Info("Starting installation",
		zap.String("domain", cfg.Domain),
		zap.String("authority", cfg.Authority.String()),
		zap.String("data_dir", cfg.DataDir))

	return provision.Run(rc, &cfg)
}
