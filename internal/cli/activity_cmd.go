package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/tracker"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"activities", "act"},
		Short:   "Manage activities",
	}

	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityUpdateCmd(app),
		newActivityRemoveCmd(app),
	)

	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var color, project, description string

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Add an activity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if strings.TrimSpace(name) == "" {
				if !app.interactive() {
					return fmt.Errorf("activity name is required")
				}
				if err := newActivityForm(&name, &project, &color).Run(); err != nil {
					return err
				}
			}
			if err := validateOptionalColor(color); err != nil {
				return fmt.Errorf("invalid --color: %w", err)
			}

			a, err := app.Tracker.AddActivity(cmd.Context(), tracker.NewActivity{
				Name:        name,
				Color:       strings.TrimSpace(color),
				Project:     project,
				Description: description,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Swatch(a.Color, a.Name), formatter.TruncID(a.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color as #rrggbb (default: next palette color)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List activities",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivities(app.Tracker.ListActivities(ctx), app.Tracker.Running(ctx)))
			return nil
		},
	}
}

func newActivityUpdateCmd(app *App) *cobra.Command {
	var name, color, project, description string

	cmd := &cobra.Command{
		Use:   "update ACTIVITY",
		Short: "Update an activity's name, color, project or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ActivityPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				if err := validateOptionalColor(color); err != nil {
					return fmt.Errorf("invalid --color: %w", err)
				}
				patch.Color = &color
			}
			if cmd.Flags().Changed("project") {
				patch.Project = &project
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass --name, --color, --project or --description")
			}

			a, err := app.Tracker.UpdateActivity(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s\n", formatter.StyleGreen.Render("✔"), formatter.Swatch(a.Color, a.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&color, "color", "", "New color as #rrggbb")
	cmd.Flags().StringVarP(&project, "project", "p", "", "New project (empty to clear)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description (empty to clear)")

	return cmd
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove ACTIVITY",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove an activity with its entries and running timer",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.Tracker.ResolveActivity(ctx, args[0])
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				confirmed := false
				title := fmt.Sprintf("Remove %s and all of its time entries?", a.Name)
				if err := confirmForm(title, &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			if err := app.Tracker.DeleteActivity(ctx, a.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", formatter.StyleRed.Render("✖"), a.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
