package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nathanbeddoewebdev/ptrgen/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/ptrgen/cmd/commands/config"
	"nathanbeddoewebdev/ptrgen/cmd/commands/generate"
	"nathanbeddoewebdev/ptrgen/cmd/commands/preview"
	"nathanbeddoewebdev/ptrgen/internal/inventory/providers"
	"nathanbeddoewebdev/ptrgen/internal/logging"
	gensvc "nathanbeddoewebdev/ptrgen/internal/services/generate"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X nathanbeddoewebdev/ptrgen/cmd.version=...".
var version = "dev"

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "ptrgen",
		Short: "Generate reverse DNS zones from an IPAM inventory",
		Long: `ptrgen builds PTR zone files from the prefixes and addresses recorded in
an IPAM system such as NetBox. Every usable address of a tagged prefix gets
a generated name; names recorded on individual addresses take precedence.

Quick start:
  ptrgen auth login                          # Store your NetBox API token
  ptrgen config set netbox-url https://netbox.example.net/api
  ptrgen config set ptr-domain example.net
  ptrgen generate --dry-run                  # Print zones without writing
  ptrgen generate --out-dir /etc/bind/zones  # Write zones and reload`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			logger := logging.New(logging.Options{
				Level:  level,
				Format: format,
				Out:    cmd.ErrOrStderr(),
			})
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logger.WithContext(ctx))
			return nil
		},
	}

	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error [$"+logging.EnvLevel+"]")
	cmd.PersistentFlags().String("log-format", "", "Log format: json or pretty [$"+logging.EnvFormat+"]")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(generate.NewCommand())
	cmd.AddCommand(preview.NewCommand())
	cmd.AddCommand(versionCmd())

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ptrgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ptrgen %s\n", version)
		},
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	providers.RegisterDefaults()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root = rootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(gensvc.ExitCode(err))
	}
}
