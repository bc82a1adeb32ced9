package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Tracker service.TrackerService
	Reports service.ReportService
	Config  config.Config

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool

	// Bootstrap, when set, runs before every command to resolve
	// configuration and wire the services above.
	Bootstrap func(cmd *cobra.Command) error

	// Logger receives host diagnostics. Nil discards them.
	Logger *slog.Logger
}

var errNotInitialized = errors.New("tempo is not initialized")

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.Logger
}

// NewRootCmd creates the top-level "tempo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tempo",
		Short:         "Track time against activities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Bootstrap != nil {
				if err := app.Bootstrap(cmd); err != nil {
					return err
				}
			}
			if app.Tracker == nil {
				return errNotInitialized
			}
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/tempo/tempo.yml)")
	root.PersistentFlags().String("db", "", "SQLite database path")
	root.PersistentFlags().Bool("log-use-cases", false, "Log every use case to stderr")

	root.AddCommand(
		newActivityCmd(app),
		newStartCmd(app),
		newStopCmd(app),
		newStatusCmd(app),
		newEntryCmd(app),
		newSummaryCmd(app),
		newSettingsCmd(app),
		newReportCmd(app),
		newWatchCmd(app),
		newServeCmd(app),
	)

	return root
}
