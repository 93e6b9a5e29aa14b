// Package ops implements the "dnsm ops" command tree for tracking and
// resuming asynchronous DNS jobs recorded by earlier commands.
package ops

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/config"
	"nathanbeddoewebdev/dnsm/internal/opstore"
	"nathanbeddoewebdev/dnsm/internal/services/auth"
	dnssvc "nathanbeddoewebdev/dnsm/internal/services/dns"

	"github.com/spf13/cobra"
)

// NewCommand returns the ops parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Track asynchronous jobs",
		Long: "Track asynchronous jobs submitted by domain commands.\n\n" +
			"Every mutation the API accepts is recorded locally with its job ID.\n" +
			"Use 'list' to see pending and recent jobs, 'resume' to wait for\n" +
			"pending jobs to finish, and 'prune' to clear out old history.",
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ResumeCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}

// newService builds the DNS service for ops command handlers. Tests swap
// this out to inject a service backed by a fake API.
var newService = buildService

func buildService() (*dnssvc.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Account == "" {
		return nil, errors.New("no account configured, run 'dnsm config set account <id>' first")
	}

	creds, err := auth.LoadCredentials(auth.DefaultStore())
	if err != nil {
		if errors.Is(err, auth.ErrSecretNotFound) {
			return nil, errors.New("not logged in, run 'dnsm auth login' first")
		}
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	var clientOpts []clouddns.Option
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, clouddns.WithEndpoint(cfg.Endpoint))
	}
	api := clouddns.New(creds.Username, creds.APIKey, cfg.Account, clientOpts...)

	repo, err := opstore.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open operation store: %w", err)
	}

	return dnssvc.New(api, dnssvc.WithOperationStore(repo)), nil
}
