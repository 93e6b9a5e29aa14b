package domain

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/tui"

	"github.com/spf13/cobra"
)

// ListCommand returns the "domain list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List domains on the account",
		Long: "List domains on the account.\n\n" +
			"When attached to a terminal an interactive browser opens; press enter\n" +
			"on a domain to inspect it. In pipes and scripts a plain table is\n" +
			"printed instead.\n\n" +
			"Examples:\n" +
			"  dnsm domain list\n" +
			"  dnsm domain list --name example.com\n" +
			"  dnsm domain list --limit 10 --offset 20",
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Filter domains by name")
	cmd.Flags().Int("limit", 0, "Maximum number of domains to return")
	cmd.Flags().Int("offset", 0, "Number of domains to skip")
	cmd.Flags().Bool("plain", false, "Force plain table output even on a terminal")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	plain, _ := cmd.Flags().GetBool("plain")

	svc, account, err := newService()
	if err != nil {
		return err
	}

	if !plain && isInteractive() {
		return tui.RunDomainBrowser(svc, account, name)
	}

	domains, err := svc.ListDomains(cmd.Context(), clouddns.ListDomainsOpts{
		Name:   name,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}

	if len(domains) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No domains found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tTTL\tUPDATED")
	for _, d := range domains {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", d.ID, d.Name, d.EmailAddress, d.TTL, d.Updated)
	}
	return w.Flush()
}
