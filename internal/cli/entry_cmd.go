package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"entries", "log"},
		Short:   "Manage time entries",
	}

	cmd.AddCommand(
		newEntryAddCmd(app),
		newEntryListCmd(app),
		newEntryRemoveCmd(app),
	)

	return cmd
}

func newEntryAddCmd(app *App) *cobra.Command {
	var activity, date, at, note string
	var minutes int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a manual entry ending at --date/--at (default now)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if activity == "" || !cmd.Flags().Changed("minutes") {
				if !app.interactive() {
					return fmt.Errorf("--activity and --minutes are required")
				}
				activities := app.Tracker.ListActivities(ctx)
				if len(activities) == 0 {
					return fmt.Errorf("no activities yet; add one with: tempo activity add NAME")
				}
				if activity != "" {
					if a, err := app.Tracker.ResolveActivity(ctx, activity); err == nil {
						activity = a.ID
					}
				}
				minutesText := ""
				if cmd.Flags().Changed("minutes") {
					minutesText = strconv.Itoa(minutes)
				}
				if err := manualEntryForm(activities, &activity, &minutesText, &date, &note).Run(); err != nil {
					return err
				}
				n, err := strconv.Atoi(strings.TrimSpace(minutesText))
				if err != nil {
					return fmt.Errorf("invalid minutes %q", minutesText)
				}
				minutes = n
			}

			ref, err := referenceTime(date, at, app.Tracker.Now(), app.Tracker.Location())
			if err != nil {
				return err
			}

			e, err := app.Tracker.AddManualEntry(ctx, service.ManualEntryInput{
				ActivityRef:   activity,
				Minutes:       minutes,
				ReferenceDate: ref,
				Description:   note,
			})
			if err != nil {
				return err
			}

			idx := formatter.NewActivityIndex(app.Tracker.ListActivities(ctx))
			fmt.Fprintf(cmd.OutOrStdout(), "%s Logged %s to %s, ending %s %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Bold(formatter.FormatMinutes(float64(minutes))),
				idx.Label(e.ActivityID),
				formatter.TimeOfDay(*e.EndTime, app.Tracker.Location()),
				formatter.Dim(e.EndTime.In(app.Tracker.Location()).Format("2006-01-02")),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&activity, "activity", "a", "", "Activity id, id prefix or name")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Duration in minutes (1-1440)")
	cmd.Flags().StringVar(&date, "date", "", "Day the entry ends on (YYYY-MM-DD)")
	cmd.Flags().StringVar(&at, "at", "", "Time the entry ends at (HH:MM)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Description")

	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var date string
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries for a day (default today)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var day time.Time
			if !all {
				var err error
				if day, err = dayOrNow(date, app.Tracker.Now(), app.Tracker.Location()); err != nil {
					return err
				}
			}
			idx := formatter.NewActivityIndex(app.Tracker.ListActivities(ctx))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntries(app.Tracker.ListEntries(ctx, day), idx, app.Tracker.Location()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to list (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&all, "all", false, "List every entry")
	cmd.MarkFlagsMutuallyExclusive("date", "all")

	return cmd
}

func newEntryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a time entry by id or id prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tracker.DeleteEntry(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed entry %s\n", formatter.StyleRed.Render("✖"), args[0])
			return nil
		},
	}
}
