package config

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/ptrgen/internal/config"

	"github.com/spf13/cobra"
)

// ListCommand returns the "config list" command.
func ListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show effective settings and where they come from",
		Long: `Show every setting after environment variables have been applied,
together with its origin.

Example:
  ptrgen config list`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
	fmt.Fprintln(w, "---\t-----\t------")
	for _, spec := range config.Keys {
		value, source := spec.Get(cfg), "config"
		if spec.Env != "" {
			if v := strings.TrimSpace(os.Getenv(spec.Env)); v != "" {
				value, source = v, "$"+spec.Env
			}
		}
		if value == "" {
			value, source = "-", "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", spec.Name, value, source)
	}
	token := "-"
	if os.Getenv(config.EnvNetBoxToken) != "" {
		token = "(set) $" + config.EnvNetBoxToken
	}
	fmt.Fprintf(w, "netbox-token\t%s\t\n", token)
	return w.Flush()
}
