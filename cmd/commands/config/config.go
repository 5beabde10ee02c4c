package config

import (
	"nathanbeddoewebdev/ptrgen/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ptrgen configuration",
		Long: "View and modify persistent ptrgen settings.\n\n" +
			"Configuration is stored at ~/.config/ptrgen/config.json. Environment\n" +
			"variables shown in brackets override the stored value.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())
	cmd.AddCommand(ListCommand())

	return cmd
}
