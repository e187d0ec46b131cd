package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nbelyaev/linewatch/internal/cli/formatter"
	"github.com/nbelyaev/linewatch/internal/domain"
	"github.com/nbelyaev/linewatch/internal/registry"
)

func newConflictsCmd(app *App) *cobra.Command {
	var (
		severity string
		status   string
		line     string
		kind     string
		csvPath  string
	)

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List detected schedule conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.Monitor.Refresh(ctx); err != nil {
				return err
			}

			opts := registry.FilterOptions{
				Status:   domain.ConflictStatus(status),
				LineName: line,
				Kind:     kind,
			}
			if severity != "" {
				sev, ok := domain.ParseSeverity(severity)
				if !ok {
					return fmt.Errorf("unknown severity %q", severity)
				}
				opts.Severity = &sev
			}
			conflicts := app.Monitor.Conflicts(opts)

			if csvPath != "" {
				return writeCSVFile(csvPath, conflicts, app)
			}
			fmt.Fprint(app.Out, formatter.FormatConflictList(conflicts))
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (low|medium|high|critical)")
	cmd.Flags().StringVar(&status, "status", "", "filter by lifecycle state (new|acknowledged|resolved)")
	cmd.Flags().StringVar(&line, "line", "", "filter by production line name")
	cmd.Flags().StringVar(&kind, "kind", "", "filter by downtime kind")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the list as CSV to the given file ('-' for stdout)")

	cmd.AddCommand(newConflictShowCmd(app))
	return cmd
}

func writeCSVFile(path string, conflicts []domain.Conflict, app *App) error {
	if path == "-" {
		return formatter.WriteConflictsCSV(app.Out, conflicts)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := formatter.WriteConflictsCSV(f, conflicts); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Wrote %d conflicts to %s\n", len(conflicts), path)
	return nil
}

func newConflictShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one conflict in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Monitor.Refresh(cmd.Context()); err != nil {
				return err
			}
			c, ok := app.Monitor.Conflict(args[0])
			if !ok {
				return fmt.Errorf("conflict not found: %q", args[0])
			}
			fmt.Fprint(app.Out, formatter.FormatConflictDetail(c))
			return nil
		},
	}
}
