package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbelyaev/linewatch/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard: conflicts and the event feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Interactive {
				return fmt.Errorf("watch needs an interactive terminal")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if err := app.Stream.Connect(); err != nil {
				return err
			}
			defer app.Stream.Close()

			// The monitor's own subscription (wired in main) keeps the
			// registry current; this one only feeds the TUI.
			events := make(chan domain.NotificationEvent, 64)
			unsubscribe := app.Stream.Subscribe(func(e domain.NotificationEvent) {
				select {
				case events <- e:
				default:
				}
			})
			defer unsubscribe()

			go app.Monitor.RunAutoRefresh(ctx)
			if _, err := app.Monitor.Refresh(ctx); err != nil {
				// The stream reconnects on its own; start with an empty
				// table rather than failing the whole dashboard.
				fmt.Fprintf(app.Out, "initial refresh failed: %v\n", err)
			}

			model := newWatchModel(app, events)
			_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
			return err
		},
	}
}
