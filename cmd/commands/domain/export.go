package domain

import (
	"context"
	"fmt"
	"os"
	"strings"

	dnsdomain "nathanbeddoewebdev/dnsm/internal/domain"

	"github.com/spf13/cobra"
)

// ExportCommand returns the "domain export" command.
func ExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <domain-id>",
		Short: "Export a domain as a BIND zone file",
		Long: "Export a domain as a BIND 9 formatted zone file.\n\n" +
			"Export is asynchronous on the server side; this command always waits\n" +
			"for the zone file and writes it to stdout or --output.\n\n" +
			"Examples:\n" +
			"  dnsm domain export 2725233\n" +
			"  dnsm domain export 2725233 --output example.com.zone",
		Args:         cobra.ExactArgs(1),
		RunE:         runExport,
		SilenceUsage: true,
	}

	cmd.Flags().String("output", "", "Write the zone file to this path instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	svc, _, err := newService()
	if err != nil {
		return err
	}

	var export *dnsdomain.Export
	err = runWithSpinner("Exporting zone...", func(ctx context.Context) error {
		var err error
		export, err = svc.ExportDomainAndWait(ctx, args[0])
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to export domain: %w", err)
	}

	contents := export.Contents
	if !strings.HasSuffix(contents, "\n") {
		contents += "\n"
	}

	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), contents)
		return nil
	}

	if err := os.WriteFile(output, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("failed to write zone file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	return nil
}
