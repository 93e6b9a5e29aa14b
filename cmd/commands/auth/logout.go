package auth

import (
	"fmt"

	"nathanbeddoewebdev/dnsm/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored API credentials",
		Long: `Remove the Cloud DNS credentials from the local keychain.

Example:
  dnsm auth logout`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.DeleteCredentials(auth.DefaultStore()); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed.")
			return nil
		},
	}
}
