package ops

import (
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/dnsm/internal/opstore"

	"github.com/spf13/cobra"
)

// recentLimit caps how many finished jobs "list --all" shows.
const recentLimit = 20

// ListCommand returns the "ops list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked jobs",
		Long: "List tracked asynchronous jobs.\n\n" +
			"By default only pending jobs are shown. Pass --all to include\n" +
			"recently finished jobs as well.\n\n" +
			"Examples:\n" +
			"  dnsm ops list\n" +
			"  dnsm ops list --all",
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("all", false, "Include finished jobs")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	svc, err := newService()
	if err != nil {
		return err
	}

	var records []opstore.OperationRecord
	if all {
		records, err = svc.RecentOperations(recentLimit)
	} else {
		records, err = svc.PendingOperations()
	}
	if err != nil {
		return fmt.Errorf("failed to list operations: %w", err)
	}

	if len(records) == 0 {
		if all {
			fmt.Fprintln(cmd.OutOrStdout(), "No tracked jobs.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No pending jobs.")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tJOB\tVERB\tSUMMARY\tSTATE\tAGE")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.JobID, r.Verb, truncate(r.Summary, 40), r.State, formatAge(r.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if hasPending(records) {
		fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'dnsm ops resume' to wait for pending jobs.")
	}
	return nil
}

func hasPending(records []opstore.OperationRecord) bool {
	for _, r := range records {
		if r.Pending() {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// formatAge renders a compact elapsed time like "45s", "12m" or "3h".
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
