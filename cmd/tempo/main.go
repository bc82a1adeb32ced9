package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/tempo/internal/cli"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/notify"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var database *sql.DB
	app := &cli.App{Logger: logger}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Bootstrap = func(cmd *cobra.Command) error {
		loader := config.NewLoader()
		for key, name := range map[string]string{
			config.KeyDBPath:      "db",
			config.KeyLogUseCases: "log-use-cases",
			config.KeyServerAddr:  "addr",
		} {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				continue
			}
			if err := loader.BindFlag(key, flag); err != nil {
				return err
			}
		}
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := loader.Load(configPath)
		if err != nil {
			return err
		}
		app.Config = cfg

		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		store := repository.NewSQLiteStateStore(db.NewSQLiteUnitOfWork(database))

		var observers []service.UseCaseObserver
		if cfg.LogUseCases {
			observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
		}

		tracker, err := service.OpenTrackerService(cmd.Context(), store, service.TrackerOptions{
			PersistRunningTimers: cfg.PersistRunningTimers,
		}, observers...)
		if err != nil {
			return err
		}
		app.Tracker = tracker

		webhook := notify.NewWebhook(func() string {
			return domain.CoalesceStr(cfg.Notify.WebhookURL, tracker.Settings(context.Background()).WebhookURL)
		}, notify.WithTimeout(cfg.Notify.Timeout()), notify.WithLogger(logger))
		app.Reports = service.NewReportService(tracker, webhook, observers...)
		return nil
	}

	err := cli.NewRootCmd(app).Execute()

	if app.Tracker != nil {
		if shutdownErr := app.Tracker.Shutdown(context.Background()); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}
	if database != nil {
		database.Close()
	}
	return err
}
