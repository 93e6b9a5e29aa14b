// Package domain implements the "dnsm domain" command tree for managing
// DNS domains: listing, inspection, creation, updates, deletion, and
// BIND zone import/export.
package domain

import (
	"context"
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/config"
	"nathanbeddoewebdev/dnsm/internal/opstore"
	"nathanbeddoewebdev/dnsm/internal/services/auth"
	dnssvc "nathanbeddoewebdev/dnsm/internal/services/dns"
	"nathanbeddoewebdev/dnsm/internal/swrcache"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cacheDisableEnv turns off the read cache when set to "1". Useful when
// scripting against an account that is being mutated elsewhere.
const cacheDisableEnv = "DNSM_DISABLE_CACHE"

// NewCommand returns the domain parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Manage DNS domains",
		Long: "Manage DNS domains on your account.\n\n" +
			"Mutations (create, update, delete, import) are asynchronous: the API\n" +
			"accepts the request and returns a job ID. Pass --wait to block until\n" +
			"the job finishes, or track it later with 'dnsm ops list'.",
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(UpdateCommand())
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(ImportCommand())
	cmd.AddCommand(ExportCommand())

	return cmd
}

// newService builds the DNS service for command handlers. Tests swap this
// out to inject a service backed by a fake API.
var newService = buildService

func buildService() (*dnssvc.Service, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Account == "" {
		return nil, "", errors.New("no account configured, run 'dnsm config set account <id>' first")
	}

	creds, err := auth.LoadCredentials(auth.DefaultStore())
	if err != nil {
		if errors.Is(err, auth.ErrSecretNotFound) {
			return nil, "", errors.New("not logged in, run 'dnsm auth login' first")
		}
		return nil, "", fmt.Errorf("failed to load credentials: %w", err)
	}

	var clientOpts []clouddns.Option
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, clouddns.WithEndpoint(cfg.Endpoint))
	}
	api := clouddns.New(creds.Username, creds.APIKey, cfg.Account, clientOpts...)

	svcOpts := []dnssvc.Option{dnssvc.WithDefaultTTL(cfg.DefaultTTL)}
	if os.Getenv(cacheDisableEnv) != "1" {
		svcOpts = append(svcOpts, dnssvc.WithCache(swrcache.NewDefault()))
	}
	if repo, err := opstore.Open(); err == nil {
		svcOpts = append(svcOpts, dnssvc.WithOperationStore(repo))
	}

	return dnssvc.New(api, svcOpts...), cfg.Account, nil
}

// isInteractive reports whether stdout is attached to a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runWithSpinner runs fn behind a spinner when attached to a terminal,
// plainly otherwise.
func runWithSpinner(title string, fn func(context.Context) error) error {
	if !isInteractive() {
		return fn(context.Background())
	}
	return spinner.New().Title(title).ActionWithErr(fn).Run()
}

// printJobAccepted reports a submitted asynchronous job to the user.
func printJobAccepted(cmd *cobra.Command, st *clouddns.Status) {
	fmt.Fprintf(cmd.OutOrStdout(), "Accepted. Job ID: %s\n", st.JobID)
	fmt.Fprintln(cmd.OutOrStdout(), "Track progress with 'dnsm ops list' or re-run with --wait.")
}
