package domain

import (
	"context"
	"errors"
	"fmt"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/tui"

	"github.com/spf13/cobra"
)

// CreateCommand returns the "domain create" command.
func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a domain",
		Long: "Create a domain.\n\n" +
			"With --email the domain is submitted directly. Without it an\n" +
			"interactive form collects the details (requires a terminal).\n\n" +
			"Examples:\n" +
			"  dnsm domain create example.com --email admin@example.com\n" +
			"  dnsm domain create example.com --email admin@example.com --ttl 3600 --wait\n" +
			"  dnsm domain create   # interactive",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("email", "", "SOA contact email address")
	cmd.Flags().Int("ttl", 0, "Default record TTL in seconds (0 uses the configured default)")
	cmd.Flags().String("comment", "", "Optional comment")
	cmd.Flags().Bool("wait", false, "Block until the job completes")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	ttl, _ := cmd.Flags().GetInt("ttl")
	comment, _ := cmd.Flags().GetString("comment")
	wait, _ := cmd.Flags().GetBool("wait")

	opts := clouddns.CreateDomainOpts{
		EmailAddress: email,
		TTL:          ttl,
		Comment:      comment,
	}
	if len(args) > 0 {
		opts.Name = args[0]
	}

	// Missing required fields fall through to the interactive form.
	if opts.Name == "" || opts.EmailAddress == "" {
		if !isInteractive() {
			return errors.New("name and --email are required when not running interactively")
		}
		filled, err := tui.CreateDomainForm(opts)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return err
		}
		opts = *filled
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}

	if !wait {
		st, err := svc.CreateDomains(cmd.Context(), []clouddns.CreateDomainOpts{opts})
		if err != nil {
			return fmt.Errorf("failed to create domain: %w", err)
		}
		printJobAccepted(cmd, st)
		return nil
	}

	err = runWithSpinner(fmt.Sprintf("Creating %s...", opts.Name), func(ctx context.Context) error {
		_, err := svc.CreateDomainsAndWait(ctx, []clouddns.CreateDomainOpts{opts})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create domain: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", opts.Name)
	return nil
}
