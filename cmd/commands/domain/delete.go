package domain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/dnsm/internal/tui"

	"github.com/spf13/cobra"
)

// DeleteCommand returns the "domain delete" command.
func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [domain-id...]",
		Short: "Delete one or more domains",
		Long: "Delete one or more domains.\n\n" +
			"Without arguments an interactive picker lists the account's domains\n" +
			"(requires a terminal). Deletion is permanent.\n\n" +
			"Examples:\n" +
			"  dnsm domain delete 2725233\n" +
			"  dnsm domain delete 2725233 2725234 --cascade --yes --wait\n" +
			"  dnsm domain delete   # interactive",
		RunE:         runDelete,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("cascade", false, "Also delete subdomains")
	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.Flags().Bool("wait", false, "Block until the job completes")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	cascade, _ := cmd.Flags().GetBool("cascade")
	yes, _ := cmd.Flags().GetBool("yes")
	wait, _ := cmd.Flags().GetBool("wait")

	svc, _, err := newService()
	if err != nil {
		return err
	}

	ids := args

	// No IDs on the command line: open the interactive picker, which
	// includes its own confirmation step.
	if len(ids) == 0 {
		if !isInteractive() {
			return errors.New("domain IDs are required when not running interactively")
		}
		sel, err := tui.DeleteDomainsForm(svc)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			return err
		}
		ids = sel.IDs
		cascade = sel.DeleteSubdomains
		yes = true
	}

	if !yes {
		ok, err := confirmDelete(cmd, ids)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if !wait {
		st, err := svc.DeleteDomains(cmd.Context(), ids, cascade)
		if err != nil {
			return fmt.Errorf("failed to delete domains: %w", err)
		}
		printJobAccepted(cmd, st)
		return nil
	}

	err = runWithSpinner("Deleting...", func(ctx context.Context) error {
		return svc.DeleteDomainsAndWait(ctx, ids, cascade)
	})
	if err != nil {
		return fmt.Errorf("failed to delete domains: %w", err)
	}

	if len(ids) == 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted domain %s\n", ids[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d domains\n", len(ids))
	}
	return nil
}

func confirmDelete(cmd *cobra.Command, ids []string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "Delete %s? This cannot be undone. [y/N]: ", strings.Join(ids, ", "))
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
