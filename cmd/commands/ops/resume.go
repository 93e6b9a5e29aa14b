package ops

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/opstore"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// resumeConcurrency bounds how many jobs are polled at once.
const resumeConcurrency = 4

// ResumeCommand returns the "ops resume" command.
func ResumeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume [job-id...]",
		Short: "Wait for pending jobs to finish",
		Long: "Wait for pending asynchronous jobs to finish.\n\n" +
			"Without arguments every pending job is resumed. Jobs are polled\n" +
			"concurrently; press Ctrl-C to stop waiting (the jobs keep running\n" +
			"on the server).\n\n" +
			"Examples:\n" +
			"  dnsm ops resume\n" +
			"  dnsm ops resume 18cd25b6-3a4f-4aab-aa43-3469e02a64ff",
		RunE:         runResume,
		SilenceUsage: true,
	}

	return cmd
}

func runResume(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	pending, err := svc.PendingOperations()
	if err != nil {
		return fmt.Errorf("failed to list pending operations: %w", err)
	}

	// Narrow to the requested job IDs when any were given.
	if len(args) > 0 {
		wanted := make(map[string]bool, len(args))
		for _, id := range args {
			wanted[id] = true
		}
		var filtered []opstore.OperationRecord
		for _, r := range pending {
			if wanted[r.JobID] {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("no pending jobs match %v", args)
		}
		pending = filtered
	}

	if len(pending) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pending jobs.")
		return nil
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Waiting for %d job(s)...\n", len(pending))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(sigCtx)
	g.SetLimit(resumeConcurrency)

	failures := 0
	for _, record := range pending {
		record := record
		g.Go(func() error {
			final, err := svc.Resume(ctx, &record)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failures++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", record.JobID, err)
			case final.State == clouddns.StateError:
				failures++
				msg := "job failed"
				if f := final.Failure(); f != nil && f.Message != "" {
					msg = f.Message
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", record.JobID, msg)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", record.JobID, final.State, record.Summary)
			}
			// Job failures are reported individually rather than
			// cancelling the group.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := sigCtx.Err(); err != nil {
		return fmt.Errorf("interrupted, jobs continue on the server: %w", err)
	}
	if failures > 0 {
		return fmt.Errorf("%d job(s) failed", failures)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All jobs finished.")
	return nil
}
