package config

import (
	"nathanbeddoewebdev/dnsm/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dnsm configuration",
		Long: "View and modify persistent dnsm settings.\n\n" +
			"Configuration is stored at ~/.config/dnsm/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
