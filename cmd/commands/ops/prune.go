package ops

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// PruneCommand returns the "ops prune" command.
func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove finished jobs from history",
		Long: "Remove finished jobs from local history.\n\n" +
			"Only finished jobs older than the cutoff are removed; pending jobs\n" +
			"are always kept. The cutoff accepts Go durations plus a 'd' suffix\n" +
			"for days.\n\n" +
			"Examples:\n" +
			"  dnsm ops prune                   # default 30d\n" +
			"  dnsm ops prune --older-than 24h\n" +
			"  dnsm ops prune --older-than 7d",
		Args:         cobra.ExactArgs(0),
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "30d", "Remove finished jobs older than this")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetString("older-than")

	cutoff, err := parseDuration(olderThan)
	if err != nil {
		return fmt.Errorf("invalid --older-than value %q: %w", olderThan, err)
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	removed, err := svc.PruneOperations(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune operations: %w", err)
	}

	if removed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d finished job(s).\n", removed)
	}
	return nil
}

// parseDuration handles standard Go durations plus a day suffix, so
// "7d" means 168h.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, err
		}
		if days < 0 {
			return 0, fmt.Errorf("must not be negative")
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}
