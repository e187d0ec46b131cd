package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nbelyaev/linewatch/internal/cli/formatter"
)

func newLinesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lines",
		Short: "List production lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := app.Monitor.Lines(cmd.Context())
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "ALIASES", "ACTIVE"}
			rows := make([][]string, 0, len(lines))
			for _, l := range lines {
				active := formatter.StyleGreen.Render("yes")
				if !l.Active {
					active = formatter.StyleDim.Render("no")
				}
				rows = append(rows, []string{
					l.ID,
					l.Name,
					strings.Join(l.Aliases, ", "),
					active,
				})
			}
			fmt.Fprint(app.Out, formatter.RenderTable(headers, rows))
			return nil
		},
	}
}
