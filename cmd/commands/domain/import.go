package domain

import (
	"context"
	"fmt"
	"os"

	"nathanbeddoewebdev/dnsm/internal/clouddns"

	"github.com/spf13/cobra"
)

// ImportCommand returns the "domain import" command.
func ImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <zone-file>",
		Short: "Import a domain from a BIND zone file",
		Long: "Import a domain from a BIND 9 formatted zone file.\n\n" +
			"The zone's name and records are taken from the file itself.\n\n" +
			"Examples:\n" +
			"  dnsm domain import example.com.zone\n" +
			"  dnsm domain import example.com.zone --wait",
		Args:         cobra.ExactArgs(1),
		RunE:         runImport,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("wait", false, "Block until the job completes")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	wait, _ := cmd.Flags().GetBool("wait")

	contents, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read zone file: %w", err)
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}

	opts := clouddns.ImportDomainOpts{Contents: string(contents)}

	if !wait {
		st, err := svc.ImportDomain(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to import domain: %w", err)
		}
		printJobAccepted(cmd, st)
		return nil
	}

	var imported string
	err = runWithSpinner("Importing zone...", func(ctx context.Context) error {
		domains, err := svc.ImportDomainAndWait(ctx, opts)
		if err != nil {
			return err
		}
		if len(domains) > 0 {
			imported = domains[0].Name
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to import domain: %w", err)
	}

	if imported != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", imported)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Import complete.")
	}
	return nil
}
