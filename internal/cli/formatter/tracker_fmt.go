package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/tracker"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

// ActivityIndex maps activity ids to activities for name lookups.
type ActivityIndex map[string]domain.Activity

func NewActivityIndex(activities []domain.Activity) ActivityIndex {
	idx := make(ActivityIndex, len(activities))
	for _, a := range activities {
		idx[a.ID] = a
	}
	return idx
}

// Label renders the activity swatch and name, or a placeholder for an id
// that no longer resolves.
func (idx ActivityIndex) Label(id string) string {
	a, ok := idx[id]
	if !ok {
		return Dim("(deleted)")
	}
	return Swatch(a.Color, a.Name)
}

func (idx ActivityIndex) name(id string) string {
	if a, ok := idx[id]; ok {
		return a.Name
	}
	return "(deleted)"
}

// FormatActivities renders the activity list, marking activities with a
// running timer.
func FormatActivities(activities []domain.Activity, running []domain.TimeEntry) string {
	if len(activities) == 0 {
		return Dim("No activities yet. Add one with: tempo activity add NAME") + "\n"
	}
	active := make(map[string]bool, len(running))
	for _, e := range running {
		active[e.ActivityID] = true
	}

	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		state := ""
		if active[a.ID] {
			state = StyleGreen.Render("● running")
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			Swatch(a.Color, a.Name),
			domain.CoalesceStr(a.Project, Dim("--")),
			a.Description,
			state,
		})
	}
	return RenderTable([]string{"ID", "ACTIVITY", "PROJECT", "DESCRIPTION", ""}, rows)
}

// FormatRunning renders running timers with elapsed time and, when a plan
// exists, the countdown.
func FormatRunning(running []domain.TimeEntry, idx ActivityIndex, now time.Time, loc *time.Location) string {
	if len(running) == 0 {
		return Dim("No timers running.") + "\n"
	}
	rows := make([][]string, 0, len(running))
	for _, e := range running {
		rows = append(rows, []string{
			idx.Label(e.ActivityID),
			TimeOfDay(e.StartTime, loc),
			Clock(now.Sub(e.StartTime)),
			Countdown(e, now),
			e.Description,
		})
	}
	return RenderTable([]string{"ACTIVITY", "STARTED", "ELAPSED", "REMAINING", "NOTE"}, rows)
}

// Countdown renders the time left on a planned timer, "--" without a plan.
func Countdown(e domain.TimeEntry, now time.Time) string {
	left, ok := e.Remaining(now)
	if !ok {
		return Dim("--")
	}
	if left < 0 {
		return StyleRed.Render("+" + Clock(-left) + " over")
	}
	if left < 5*time.Minute {
		return StyleYellow.Render(Clock(left))
	}
	return StyleGreen.Render(Clock(left))
}

// FormatEntries renders completed entries in ledger order.
func FormatEntries(entries []domain.TimeEntry, idx ActivityIndex, loc *time.Location) string {
	if len(entries) == 0 {
		return Dim("No time entries.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		if e.EndTime == nil {
			continue
		}
		kind := "timer"
		if e.IsManual {
			kind = "manual"
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			domain.LocalDate(*e.EndTime, loc),
			TimeOfDay(e.StartTime, loc) + "–" + TimeOfDay(*e.EndTime, loc),
			idx.Label(e.ActivityID),
			FormatMinutes(domain.DurationMinutes(e.StartTime, *e.EndTime)),
			Dim(kind),
			e.Description,
		})
	}
	return RenderTable([]string{"ID", "DATE", "TIME", "ACTIVITY", "DURATION", "KIND", "NOTE"}, rows)
}

// FormatDailySummary renders one day's totals per activity and project.
func FormatDailySummary(s tracker.DailySummary, idx ActivityIndex) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold("Total"), StyleGreen.Render(FormatMinutes(s.TotalMinutes)))
	if s.TotalMinutes == 0 {
		b.WriteString("\n" + Dim("No time tracked."))
		return RenderBox("Summary "+s.Date, b.String()) + "\n"
	}

	b.WriteString("\n" + Header("By activity") + "\n")
	writeTotals(&b, s.ByActivity, idx.Label)
	if len(s.ByProject) > 0 {
		b.WriteString("\n" + Header("By project") + "\n")
		writeTotals(&b, s.ByProject, func(p string) string { return p })
	}
	return RenderBox("Summary "+s.Date, strings.TrimRight(b.String(), "\n")) + "\n"
}

// FormatWeeklySummary renders a per-day breakdown followed by week totals.
func FormatWeeklySummary(w tracker.WeeklySummary, idx ActivityIndex, loc *time.Location) string {
	var most float64
	for _, d := range w.Days {
		most = max(most, d.TotalMinutes)
	}

	rows := make([][]string, 0, len(w.Days))
	for _, d := range w.Days {
		day := d.Date
		if t, err := time.ParseInLocation(domain.DateLayout, d.Date, loc); err == nil {
			day = t.Format("Mon 02 Jan")
		}
		rows = append(rows, []string{
			day,
			FormatMinutes(d.TotalMinutes),
			StyleBlue.Render(Bar(d.TotalMinutes, most, barWidth)),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"DAY", "TOTAL", ""}, rows))
	fmt.Fprintf(&b, "\n%s  %s\n", Bold("Week total"), StyleGreen.Render(FormatMinutes(w.TotalMinutes)))
	if w.TotalMinutes > 0 {
		b.WriteString("\n" + Header("By activity") + "\n")
		writeTotals(&b, w.ByActivity, idx.Label)
		if len(w.ByProject) > 0 {
			b.WriteString("\n" + Header("By project") + "\n")
			writeTotals(&b, w.ByProject, func(p string) string { return p })
		}
	}
	return RenderBox("Week of "+w.WeekStart, strings.TrimRight(b.String(), "\n")) + "\n"
}

func writeTotals(b *strings.Builder, totals map[string]float64, label func(string) string) {
	keys := make([]string, 0, len(totals))
	var most float64
	for k, v := range totals {
		keys = append(keys, k)
		most = max(most, v)
	}
	sort.Slice(keys, func(i, j int) bool {
		if totals[keys[i]] != totals[keys[j]] {
			return totals[keys[i]] > totals[keys[j]]
		}
		return keys[i] < keys[j]
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{
			label(k),
			FormatMinutes(totals[k]),
			StyleBlue.Render(Bar(totals[k], most, barWidth)),
		})
	}
	widths := columnWidths(rows)
	for _, row := range rows {
		writeRow(b, row, widths)
	}
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	return widths
}

// FormatStopped renders a one-line confirmation for a completed timer.
func FormatStopped(e domain.TimeEntry, idx ActivityIndex) string {
	return fmt.Sprintf("%s %s after %s\n",
		StyleYellow.Render("■ Stopped"),
		idx.Label(e.ActivityID),
		Bold(FormatMinutes(e.Minutes(*e.EndTime))),
	)
}

// FormatStarted renders a one-line confirmation for a new timer.
func FormatStarted(e domain.TimeEntry, idx ActivityIndex, loc *time.Location) string {
	line := fmt.Sprintf("%s %s at %s", StyleGreen.Render("▶ Started"), idx.Label(e.ActivityID), TimeOfDay(e.StartTime, loc))
	if e.PlannedMinutes != nil {
		line += Dim(fmt.Sprintf(" (planned %s)", FormatMinutes(float64(*e.PlannedMinutes))))
	}
	return line + "\n"
}

// FormatSettings renders the stored settings. A non-empty webhookOverride
// is the configured URL that takes precedence over the stored one.
func FormatSettings(s domain.Settings, webhookOverride string) string {
	webhook := domain.CoalesceStr(s.WebhookURL, Dim("(not set)"))
	if webhookOverride != "" {
		webhook = webhookOverride + Dim(" (from config)")
	}
	week := s.WeekStart().String()
	if s.WeekStartsOn == nil {
		week += Dim(" (default)")
	}
	rows := [][]string{
		{Bold("Webhook URL"), webhook},
		{Bold("Daily report"), domain.CoalesceStr(s.DailyReportTime, Dim("(off)"))},
		{Bold("Week starts on"), week},
	}
	var b strings.Builder
	widths := columnWidths(rows)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	return RenderBox("Settings", strings.TrimRight(b.String(), "\n")) + "\n"
}
