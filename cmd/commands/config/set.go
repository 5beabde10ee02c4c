package config

import (
	"fmt"
	"slices"
	"strings"

	"nathanbeddoewebdev/ptrgen/internal/config"
	"nathanbeddoewebdev/ptrgen/internal/inventory/providers"
	"nathanbeddoewebdev/ptrgen/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. An empty value clears the key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  ptrgen config set netbox-url https://netbox.example.net/api\n" +
			"  ptrgen config set ptr-domain example.net",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

// validators maps key names to pre-save validation and normalization.
// Keys not present in this map are stored as given.
var validators = map[string]func(value string) (string, error){
	"provider":   validateProvider,
	"ptr-domain": validatePTRDomain,
}

func runSet(cmd *cobra.Command, args []string) error {
	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	value := strings.TrimSpace(args[1])
	if validate, ok := validators[spec.Name]; ok && value != "" {
		v, err := validate(value)
		if err != nil {
			return err
		}
		value = v
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := spec.Set(cfg, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", spec.Name, err)
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, spec.Get(cfg))
	return nil
}

// validateProvider checks that the given name is a registered provider.
func validateProvider(name string) (string, error) {
	normalized := util.NormalizeKey(name)
	known := providers.List()
	if !slices.Contains(known, normalized) {
		return "", fmt.Errorf("unknown provider %q (registered: %s)", name, strings.Join(known, ", "))
	}
	return normalized, nil
}

func validatePTRDomain(name string) (string, error) {
	name = strings.TrimSuffix(name, ".")
	if err := util.ValidateHostname("ptr-domain", name); err != nil {
		return "", err
	}
	return name, nil
}
