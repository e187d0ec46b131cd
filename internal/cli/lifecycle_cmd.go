package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nbelyaev/linewatch/internal/cli/formatter"
	"github.com/nbelyaev/linewatch/internal/domain"
)

func newAckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ack <id>",
		Short: "Acknowledge a conflict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Monitor.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := app.Monitor.Acknowledge(args[0]); err != nil {
				return describeLifecycleErr(err, args[0])
			}
			fmt.Fprintf(app.Out, "Acknowledged %s\n", args[0])
			return nil
		},
	}
}

func newResolveCmd(app *App) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Mark a conflict resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Monitor.Refresh(cmd.Context()); err != nil {
				return err
			}

			if notes == "" && app.Interactive {
				c, ok := app.Monitor.Conflict(args[0])
				if !ok {
					return fmt.Errorf("conflict not found: %q", args[0])
				}
				fmt.Fprint(app.Out, formatter.FormatConflictDetail(c))

				var confirmed bool
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("Resolution notes (optional)").
							Placeholder("plan task moved to line B").
							Value(&notes),
						huh.NewConfirm().
							Title("Mark this conflict resolved?").
							Value(&confirmed),
					),
				).WithShowHelp(false)
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(app.Out, "Cancelled.")
					return nil
				}
			}

			if err := app.Monitor.Resolve(args[0], notes); err != nil {
				return describeLifecycleErr(err, args[0])
			}
			fmt.Fprintf(app.Out, "Resolved %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "resolution notes")
	return cmd
}

func describeLifecycleErr(err error, id string) error {
	switch {
	case errors.Is(err, domain.ErrUnknownConflict):
		return fmt.Errorf("conflict not found: %q", id)
	case errors.Is(err, domain.ErrConflictResolved):
		return fmt.Errorf("conflict %s is already resolved", id)
	default:
		return err
	}
}
