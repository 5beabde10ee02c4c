package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/ptrgen/internal/config"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a stored configuration value",
		Long: "Print a stored configuration value. Without a key, all stored values\n" +
			"are printed. Environment overrides are not applied; see \"config list\".\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  ptrgen config get                # print every stored value\n" +
			"  ptrgen config get ptr-domain     # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		for _, spec := range config.Keys {
			value := spec.Get(cfg)
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, value)
		}
		return nil
	}

	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}
