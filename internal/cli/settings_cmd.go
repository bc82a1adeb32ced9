package cli

import (
	"fmt"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/spf13/cobra"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s := app.Tracker.Settings(cmd.Context())
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(s, app.Config.Notify.WebhookURL))
				return nil
			},
		},
		newSettingsSetCmd(app),
	)

	return cmd
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var webhook, reportTime, weekStart string
	var clearWeekStart bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; pass an empty value to clear a field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.SettingsPatch
			changed := false
			if cmd.Flags().Changed("webhook") {
				patch.WebhookURL = &webhook
				changed = true
			}
			if cmd.Flags().Changed("report-time") {
				patch.DailyReportTime = &reportTime
				changed = true
			}
			if cmd.Flags().Changed("week-start") {
				wd, err := parseWeekday(weekStart)
				if err != nil {
					return err
				}
				patch.WeekStartsOn = &wd
				changed = true
			}
			if clearWeekStart {
				patch.ClearWeekStart = true
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to set: pass --webhook, --report-time, --week-start or --clear-week-start")
			}

			s, err := app.Tracker.UpdateSettings(cmd.Context(), patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(s, app.Config.Notify.WebhookURL))
			return nil
		},
	}

	cmd.Flags().StringVar(&webhook, "webhook", "", "Webhook URL for reports")
	cmd.Flags().StringVar(&reportTime, "report-time", "", "Daily report time (HH:MM, local)")
	cmd.Flags().StringVar(&weekStart, "week-start", "", "First day of the week (0-6 or name)")
	cmd.Flags().BoolVar(&clearWeekStart, "clear-week-start", false, "Reset the first day of the week to Sunday")
	cmd.MarkFlagsMutuallyExclusive("week-start", "clear-week-start")

	return cmd
}
