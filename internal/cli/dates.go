package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// parseDay parses a YYYY-MM-DD flag as local midnight in loc.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must use YYYY-MM-DD", s)
	}
	return t, nil
}

// dayOrNow parses an optional --date flag; empty means now.
func dayOrNow(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return now, nil
	}
	return parseDay(s, loc)
}

// referenceTime combines optional --date and --at flags into the end time
// of a manual entry. A date without a time keeps the current time of day;
// a time without a date means today. Both empty returns the zero time,
// which the tracker reads as now.
func referenceTime(date, at string, now time.Time, loc *time.Location) (time.Time, error) {
	if date == "" && at == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)

	day := local
	if date != "" {
		d, err := parseDay(date, loc)
		if err != nil {
			return time.Time{}, err
		}
		day = d
	}

	hour, minute, sec := local.Hour(), local.Minute(), local.Second()
	if at != "" {
		h, m, err := domain.ParseClock(at)
		if err != nil {
			return time.Time{}, err
		}
		hour, minute, sec = h, m, 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, sec, 0, loc), nil
}

// parseWeekday accepts 0-6 (Sunday = 0) or an English weekday name or
// its three-letter abbreviation.
func parseWeekday(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("week start must be between 0 (Sunday) and 6 (Saturday), got %d", n)
		}
		return n, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return int(d), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
