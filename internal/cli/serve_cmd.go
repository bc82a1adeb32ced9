package cli

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alexanderramin/tempo/internal/api"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var noScheduler bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and send scheduled daily reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := app.logger()
			srv := api.NewServer(api.Config{
				Addr:      app.Config.Server.Addr,
				AccessLog: cmd.ErrOrStderr(),
				Logger:    log,
			}, app.Tracker, app.Reports)

			var wg sync.WaitGroup
			if !noScheduler {
				scheduler := service.NewReportScheduler(app.Tracker, app.Reports)
				wg.Add(1)
				go func() {
					defer wg.Done()
					scheduler.Run(ctx, 0)
				}()
			}

			err := srv.Run(ctx)
			// A listen error leaves ctx live; stop the scheduler either way.
			stop()
			wg.Wait()
			return err
		},
	}

	cmd.Flags().String("addr", config.DefaultServerAddr, "Listen address")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Do not send scheduled daily reports")

	return cmd
}
