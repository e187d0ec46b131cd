package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbelyaev/linewatch/internal/cli/formatter"
	"github.com/nbelyaev/linewatch/internal/domain"
)

func newScanCmd(app *App) *cobra.Command {
	var noWait bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Start a document scan and follow it to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			job, err := app.Scanner.Start(ctx)
			if err != nil {
				return fmt.Errorf("starting scan: %w", err)
			}
			fmt.Fprintf(app.Out, "Scan job %s started\n", job.ID)
			if noWait {
				return nil
			}

			updates, stop := app.Scanner.Poll(ctx, job.ID)
			defer stop()

			var final domain.ScanJob
			for update := range updates {
				fmt.Fprintln(app.Out, formatter.FormatJobProgress(update))
				final = update
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			if final.Status == domain.JobFailed {
				return fmt.Errorf("scan failed: %s", final.Message)
			}
			if summary := formatter.FormatJobResults(final.Results); summary != "" {
				fmt.Fprint(app.Out, summary)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noWait, "no-wait", false, "start the scan and return immediately")
	return cmd
}

func newJobsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List recent scan jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := app.Scanner.History(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.Out, formatter.FormatJobList(jobs))
			return nil
		},
	}
}
