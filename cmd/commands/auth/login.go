package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [provider]",
		Short: "Store an API token for an inventory provider",
		Long: `Store an API token for an inventory provider using the local keychain.
The provider defaults to netbox.

Example:
  ptrgen auth login
  ptrgen auth login netbox --token 0123456789abcdef`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	provider := providerArg(args)

	token, _ := cmd.Flags().GetString("token")
	token = strings.TrimSpace(token)
	if token == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("no token given: pass --token or run in a terminal")
		}
		fmt.Fprint(cmd.OutOrStdout(), "Enter API token: ")
		bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		token = strings.TrimSpace(string(bytes))
	}

	if token == "" {
		return errors.New("token cannot be empty")
	}

	if err := newStore().SetToken(provider, token); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved token for provider %s\n", provider)
	return nil
}
