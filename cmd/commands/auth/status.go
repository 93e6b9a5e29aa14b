package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/dnsm/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether credentials are stored",
		Long: `Show whether Cloud DNS credentials are present in the keychain.

Example:
  dnsm auth status`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := auth.LoadCredentials(auth.DefaultStore())
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", creds.Username)
			case errors.Is(err, auth.ErrSecretNotFound):
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in. Run 'dnsm auth login'.")
			default:
				return err
			}
			return nil
		},
	}
}
