package domain

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar-day format used in summaries and on the CLI.
const DateLayout = "2006-01-02"

// DurationMinutes returns end-start in fractional minutes. No rounding.
func DurationMinutes(start, end time.Time) float64 {
	return end.Sub(start).Minutes()
}

// SameLocalDay reports whether a and b fall on the same calendar day in loc.
// A nil loc means time.Local.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	y1, m1, d1 := a.In(loc).Date()
	y2, m2, d2 := b.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// LocalDate formats t as YYYY-MM-DD in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// StartOfWeek returns local midnight of the first day of the week that
// contains t, where weeks begin on weekStart.
func StartOfWeek(t time.Time, weekStart time.Weekday, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// ParseClock parses an "HH:MM" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("time %q must use HH:MM format", s)
	}
	return t.Hour(), t.Minute(), nil
}

// HoursMinutes renders fractional minutes as "Xh Ym", rounded to the
// nearest minute.
func HoursMinutes(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
