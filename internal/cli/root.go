// Package cli implements the linewatch command tree.
package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nbelyaev/linewatch/internal/config"
	"github.com/nbelyaev/linewatch/internal/poller"
	"github.com/nbelyaev/linewatch/internal/service"
	"github.com/nbelyaev/linewatch/internal/stream"
)

// App holds references to everything CLI commands need.
type App struct {
	Config  config.Config
	Monitor service.MonitorService
	Scanner *poller.Poller
	Stream  *stream.Client
	Out     io.Writer

	// Interactive is true when stdout is a terminal; it gates the huh
	// forms and the watch TUI.
	Interactive bool
}

// NewRootCmd creates the top-level "linewatch" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "linewatch",
		Short: "Production line schedule conflict monitor",
		Long: "linewatch watches a plant scheduler backend for collisions between\n" +
			"plan tasks and line downtimes, classifies their severity, and tracks\n" +
			"acknowledgement and resolution locally.",
		SilenceUsage: true,
	}

	// Accept --start_date style flags too; the backend's query params
	// use underscores and muscle memory carries over.
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	root.AddCommand(
		newConflictsCmd(app),
		newLinesCmd(app),
		newAckCmd(app),
		newResolveCmd(app),
		newScanCmd(app),
		newJobsCmd(app),
		newWatchCmd(app),
		newServeDemoCmd(app),
	)

	return root
}
