package cli

import (
	"fmt"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	var date string
	var week bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals per activity and project for a day or week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			loc := app.Tracker.Location()
			day, err := dayOrNow(date, app.Tracker.Now(), loc)
			if err != nil {
				return err
			}
			idx := formatter.NewActivityIndex(app.Tracker.ListActivities(ctx))

			if week {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeeklySummary(app.Tracker.WeeklySummary(ctx, day), idx, loc))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDailySummary(app.Tracker.DailySummary(ctx, day), idx))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to summarize (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVarP(&week, "week", "w", false, "Summarize the week containing --date")

	return cmd
}
