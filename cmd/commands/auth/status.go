package auth

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"nathanbeddoewebdev/ptrgen/internal/config"
	"nathanbeddoewebdev/ptrgen/internal/services/auth"

	"github.com/spf13/cobra"
)

// tokenEnv maps providers to the environment variable that overrides
// their stored token.
var tokenEnv = map[string]string{
	config.DefaultProvider: config.EnvNetBoxToken,
}

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where each provider's API token comes from",
		Long: `Show whether a token is available for each inventory provider that
needs one, and whether it comes from the environment or the keychain.

Example:
  ptrgen auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore()
			out := cmd.OutOrStdout()

			for _, provider := range sortedProviders() {
				env := tokenEnv[provider]
				_, source, err := auth.ResolveToken(store, provider, os.Getenv(env))
				switch {
				case err == nil && source == auth.SourceEnvironment:
					fmt.Fprintf(out, "%s: logged in (from $%s)\n", provider, env)
				case err == nil:
					fmt.Fprintf(out, "%s: logged in (keychain)\n", provider)
				case errors.Is(err, auth.ErrTokenNotFound):
					fmt.Fprintf(out, "%s: not logged in\n", provider)
				default:
					fmt.Fprintf(out, "%s: error (%v)\n", provider, err)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}

func sortedProviders() []string {
	return slices.Sorted(maps.Keys(tokenEnv))
}
