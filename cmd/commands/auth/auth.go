package auth

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "auth" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API credentials",
		Long:  `Store, inspect, and remove the Cloud DNS credentials kept in the OS keychain.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
