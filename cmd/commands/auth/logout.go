package auth

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/ptrgen/internal/config"
	"nathanbeddoewebdev/ptrgen/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout [provider]",
		Short: "Remove the stored API token for an inventory provider",
		Long: `Remove the stored API token for an inventory provider from the keychain.
The provider defaults to netbox.

Example:
  ptrgen auth logout`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runLogout,
		SilenceUsage: true,
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	provider := providerArg(args)

	err := newStore().DeleteToken(provider)
	switch {
	case errors.Is(err, auth.ErrTokenNotFound):
		fmt.Fprintf(cmd.OutOrStdout(), "No token stored for provider %s\n", provider)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed token for provider %s\n", provider)
	return nil
}

func providerArg(args []string) string {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return config.DefaultProvider
	}
	return auth.NormalizeProvider(args[0])
}
