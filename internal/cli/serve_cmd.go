package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nbelyaev/linewatch/internal/devserver"
)

func newServeDemoCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-demo",
		Short: "Run a stub scheduler backend with demo data",
		Long: "Serves the backend API on a local port with a canned dairy-plant\n" +
			"dataset. Point LINEWATCH_API at it to try linewatch without the\n" +
			"real scheduler.",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := devserver.New(devserver.DemoFixture())

			httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}
			go func() {
				<-cmd.Context().Done()
				httpSrv.Close()
			}()

			fmt.Fprintf(app.Out, "Demo backend on http://%s\n", addr)
			fmt.Fprintf(app.Out, "  LINEWATCH_API=http://%s linewatch conflicts\n", addr)
			if err := httpSrv.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8000", "listen address")
	return cmd
}
