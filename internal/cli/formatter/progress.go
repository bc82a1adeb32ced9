package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// PlanProgress renders how much of a running timer's plan is used, like
// [████░░░░] 45%. Empty when the entry has no plan.
func PlanProgress(e domain.TimeEntry, now time.Time, width int) string {
	if e.PlannedMinutes == nil || *e.PlannedMinutes <= 0 || e.EndTime != nil {
		return ""
	}
	used := now.Sub(e.StartTime).Minutes() / float64(*e.PlannedMinutes)
	return renderGauge(used, width)
}

// renderGauge fills up to width cells for used in [0,1]. Past 1 the bar
// stays full and turns red.
func renderGauge(used float64, width int) string {
	if used < 0 {
		used = 0
	}
	if width < 2 {
		width = 2
	}

	filled := min(int(used*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case used >= 1:
		style = StyleRed
	case used >= 0.8:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), used*100)
}
