package domain

import (
	"context"
	"errors"
	"fmt"

	"nathanbeddoewebdev/dnsm/internal/clouddns"

	"github.com/spf13/cobra"
)

// UpdateCommand returns the "domain update" command.
func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <domain-id>",
		Short: "Update a domain's email, TTL, or comment",
		Long: "Update a domain's SOA email, default TTL, or comment.\n\n" +
			"Only the flags you pass are changed. Pass --comment \"\" to clear\n" +
			"the comment.\n\n" +
			"Examples:\n" +
			"  dnsm domain update 2725233 --email hostmaster@example.com\n" +
			"  dnsm domain update 2725233 --ttl 7200 --wait",
		Args:         cobra.ExactArgs(1),
		RunE:         runUpdate,
		SilenceUsage: true,
	}

	cmd.Flags().String("email", "", "New SOA contact email address")
	cmd.Flags().Int("ttl", 0, "New default record TTL in seconds")
	cmd.Flags().String("comment", "", "New comment (empty string clears it)")
	cmd.Flags().Bool("wait", false, "Block until the job completes")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	ttl, _ := cmd.Flags().GetInt("ttl")
	wait, _ := cmd.Flags().GetBool("wait")

	opts := clouddns.UpdateDomainOpts{
		EmailAddress: email,
		TTL:          ttl,
	}
	if cmd.Flags().Changed("comment") {
		comment, _ := cmd.Flags().GetString("comment")
		opts.Comment = &comment
	}

	if opts.EmailAddress == "" && opts.TTL == 0 && opts.Comment == nil {
		return errors.New("nothing to update, pass at least one of --email, --ttl, --comment")
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}

	id := args[0]

	if !wait {
		st, err := svc.UpdateDomain(cmd.Context(), id, opts)
		if err != nil {
			return fmt.Errorf("failed to update domain: %w", err)
		}
		printJobAccepted(cmd, st)
		return nil
	}

	err = runWithSpinner("Updating domain...", func(ctx context.Context) error {
		return svc.UpdateDomainAndWait(ctx, id, opts)
	})
	if err != nil {
		return fmt.Errorf("failed to update domain: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated domain %s\n", id)
	return nil
}
