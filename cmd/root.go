package cmd

import (
	"os"

	"nathanbeddoewebdev/dnsm/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/dnsm/cmd/commands/config"
	domaincmd "nathanbeddoewebdev/dnsm/cmd/commands/domain"
	"nathanbeddoewebdev/dnsm/cmd/commands/ops"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "dnsm",
		Short: "A CLI tool for managing DNS domains in Rackspace Cloud DNS",
		Long: `dnsm is a command-line tool for managing DNS domains through the
Rackspace Cloud DNS API. Mutations are asynchronous on the server side:
the CLI submits a job, tracks it locally, and polls until it completes.

Quick start:
  dnsm auth login                              # Store your API credentials
  dnsm config set account 1234567              # Set your account number
  dnsm domain list                             # Browse your domains
  dnsm domain create example.com --email admin@example.com
  dnsm ops list                                # Show tracked jobs`,
	}

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(domaincmd.NewCommand())
	cmd.AddCommand(ops.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
