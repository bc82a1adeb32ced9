package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// tempoHuhTheme returns a huh theme matching the CLI palette.
func tempoHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themed(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(tempoHuhTheme()).WithShowHelp(false)
}

// activitySelect returns a select over activities, keyed by id.
func activitySelect(title string, activities []domain.Activity, value *string) *huh.Select[string] {
	options := make([]huh.Option[string], 0, len(activities))
	for _, a := range activities {
		label := a.Name
		if a.HasProject() {
			label = fmt.Sprintf("%s (%s)", a.Name, a.Project)
		}
		options = append(options, huh.NewOption(label, a.ID))
	}
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(value)
}

// activitySelectForm asks which activity to act on.
func activitySelectForm(title string, activities []domain.Activity, value *string) *huh.Form {
	return themed(huh.NewGroup(activitySelect(title, activities, value)))
}

// newActivityForm collects the fields of a new activity.
func newActivityForm(name, project, color *string) *huh.Form {
	return themed(huh.NewGroup(
		huh.NewInput().
			Title("Activity Name").
			Placeholder("Writing").
			Value(name).
			Validate(validateRequired("name")),
		huh.NewInput().
			Title("Project (optional)").
			Value(project),
		huh.NewInput().
			Title("Color (optional, #rrggbb)").
			Placeholder("palette default").
			Value(color).
			Validate(validateOptionalColor),
	))
}

// manualEntryForm collects a manual entry. Minutes arrive as text.
func manualEntryForm(activities []domain.Activity, activityID, minutes, date, note *string) *huh.Form {
	return themed(huh.NewGroup(
		activitySelect("Activity", activities, activityID),
		huh.NewInput().
			Title("Minutes (1-1440)").
			Placeholder("30").
			Value(minutes).
			Validate(validateManualMinutes),
		huh.NewInput().
			Title("Date (YYYY-MM-DD, blank for today)").
			Placeholder("2025-06-30").
			Value(date).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("Note (optional)").
			Value(note),
	))
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return themed(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(result),
	))
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateManualMinutes(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number of minutes")
	}
	return domain.ValidateManualMinutes(v)
}

func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := parseDay(s, nil); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateOptionalColor(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if len(s) != 7 || s[0] != '#' {
		return fmt.Errorf("use #rrggbb format")
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return fmt.Errorf("use #rrggbb format")
	}
	return nil
}
