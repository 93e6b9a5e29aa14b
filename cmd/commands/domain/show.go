package domain

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ShowCommand returns the "domain show" command.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <domain-id>",
		Short: "Show details for a single domain",
		Long: "Show details for a single domain.\n\n" +
			"Examples:\n" +
			"  dnsm domain show 2725233\n" +
			"  dnsm domain show 2725233 --records",
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("records", false, "Include the domain's DNS records")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	showRecords, _ := cmd.Flags().GetBool("records")

	svc, _, err := newService()
	if err != nil {
		return err
	}

	d, err := svc.GetDomain(cmd.Context(), args[0], showRecords)
	if err != nil {
		return fmt.Errorf("failed to fetch domain: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:    %s\n", d.Name)
	fmt.Fprintf(out, "ID:      %s\n", d.ID)
	fmt.Fprintf(out, "Email:   %s\n", d.EmailAddress)
	fmt.Fprintf(out, "TTL:     %d\n", d.TTL)
	if d.Comment != "" {
		fmt.Fprintf(out, "Comment: %s\n", d.Comment)
	}
	if d.Created != "" {
		fmt.Fprintf(out, "Created: %s\n", d.Created)
	}
	if d.Updated != "" {
		fmt.Fprintf(out, "Updated: %s\n", d.Updated)
	}
	for i, ns := range d.Nameservers {
		if i == 0 {
			fmt.Fprintf(out, "Nameservers: %s\n", ns)
		} else {
			fmt.Fprintf(out, "             %s\n", ns)
		}
	}

	if showRecords {
		fmt.Fprintln(out)
		if len(d.Records) == 0 {
			fmt.Fprintln(out, "No records returned.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tNAME\tDATA\tTTL")
		for _, r := range d.Records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.Type, r.Name, r.Data, r.TTL)
		}
		return w.Flush()
	}

	return nil
}
