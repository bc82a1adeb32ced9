package cli

import (
	"fmt"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Preview or send the daily report",
	}

	cmd.AddCommand(
		newReportPreviewCmd(app),
		newReportSendCmd(app),
	)

	return cmd
}

func newReportPreviewCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the report message without sending it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dayOrNow(date, app.Tracker.Now(), app.Tracker.Location())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Reports.DailyMessage(cmd.Context(), day))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to report (YYYY-MM-DD, default today)")
	return cmd
}

func newReportSendCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the daily report to the configured webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dayOrNow(date, app.Tracker.Now(), app.Tracker.Location())
			if err != nil {
				return err
			}
			msg, delivered := app.Reports.SendDaily(cmd.Context(), day)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, msg)
			if !delivered {
				return fmt.Errorf("report was not delivered; check the webhook URL")
			}
			fmt.Fprintf(out, "\n%s Report sent\n", formatter.StyleGreen.Render("✔"))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to report (YYYY-MM-DD, default today)")
	return cmd
}
