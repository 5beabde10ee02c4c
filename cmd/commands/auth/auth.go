package auth

import (
	"nathanbeddoewebdev/ptrgen/internal/services/auth"

	"github.com/spf13/cobra"
)

// newStore is swapped out in tests.
var newStore = auth.DefaultStore

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage inventory API tokens",
		Long: `Manage inventory API tokens.

Tokens are kept in the OS keychain. An API token in the environment
(e.g. $NETBOX_API_KEY) always takes precedence over a stored one.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
