package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/tracker"
	"github.com/spf13/cobra"
)

func newStartCmd(app *App) *cobra.Command {
	var note string
	var planned int

	cmd := &cobra.Command{
		Use:   "start [ACTIVITY]",
		Short: "Start a timer; restarts it if one is already running",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ref, err := activityArg(app, args, "Start which activity?", app.Tracker.ListActivities(ctx))
			if err != nil {
				return err
			}

			e, err := app.Tracker.Start(ctx, ref, tracker.StartOptions{Description: note, PlannedMinutes: planned})
			if err != nil {
				return err
			}
			idx := formatter.NewActivityIndex(app.Tracker.ListActivities(ctx))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStarted(e, idx, app.Tracker.Location()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "Description for the entry")
	cmd.Flags().IntVarP(&planned, "planned", "p", 0, "Planned minutes, shown as a countdown")

	return cmd
}

func newStopCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "stop [ACTIVITY]",
		Short: "Stop a running timer",
		Long:  "Stop the timer for ACTIVITY. Without an argument the only running timer is stopped; use --all to stop every timer.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if all {
				if len(args) > 0 {
					return fmt.Errorf("--all does not take an activity")
				}
				stopped, err := app.Tracker.StopAll(ctx)
				if err != nil {
					return err
				}
				if len(stopped) == 0 {
					fmt.Fprintln(out, formatter.Dim("No timers running."))
					return nil
				}
				idx := formatter.NewActivityIndex(app.Tracker.ListActivities(ctx))
				for _, e := range stopped {
					fmt.Fprint(out, formatter.FormatStopped(e, idx))
				}
				return nil
			}

			var ref string
			if len(args) == 1 {
				ref = args[0]
			} else {
				running := app.Tracker.Running(ctx)
				switch len(running) {
				case 0:
					fmt.Fprintln(out, formatter.Dim("No timers running."))
					return nil
				case 1:
					ref = running[0].ActivityID
				default:
					picked, err := pickRunning(ctx, app, running)
					if err != nil {
						return err
					}
					ref = picked
				}
			}

			e, err := app.Tracker.Stop(ctx, ref)
			if err != nil {
				return err
			}
			idx := formatter.NewActivityIndex(app.Tracker.ListActivities(ctx))
			fmt.Fprint(out, formatter.FormatStopped(e, idx))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Stop every running timer")

	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show running timers and today's total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := app.Tracker.Now()
			idx := formatter.NewActivityIndex(app.Tracker.ListActivities(ctx))
			today := app.Tracker.DailySummary(ctx, now)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header("Running"))
			fmt.Fprint(out, formatter.FormatRunning(app.Tracker.Running(ctx), idx, now, app.Tracker.Location()))
			fmt.Fprintf(out, "\n%s %s\n", formatter.Bold("Today:"), formatter.StyleGreen.Render(formatter.FormatMinutes(today.TotalMinutes)))
			return nil
		},
	}
}

// activityArg returns the activity reference from args, or asks for one
// when interactive.
func activityArg(app *App, args []string, title string, activities []domain.Activity) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !app.interactive() {
		return "", fmt.Errorf("activity is required")
	}
	if len(activities) == 0 {
		return "", fmt.Errorf("no activities yet; add one with: tempo activity add NAME")
	}
	var id string
	if err := activitySelectForm(title, activities, &id).Run(); err != nil {
		return "", err
	}
	return id, nil
}

func pickRunning(ctx context.Context, app *App, running []domain.TimeEntry) (string, error) {
	if !app.interactive() {
		return "", fmt.Errorf("%d timers running; name one or use --all", len(running))
	}
	idx := make(map[string]bool, len(running))
	for _, e := range running {
		idx[e.ActivityID] = true
	}
	var choices []domain.Activity
	for _, a := range app.Tracker.ListActivities(ctx) {
		if idx[a.ID] {
			choices = append(choices, a)
		}
	}
	var id string
	if err := activitySelectForm("Stop which timer?", choices, &id).Run(); err != nil {
		return "", err
	}
	return id, nil
}
