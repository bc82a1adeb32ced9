package domain

import (
	"fmt"
	"time"
)

type Settings struct {
	WebhookURL      string
	DailyReportTime string
	WeekStartsOn    *time.Weekday
}

// WeekStart returns the configured first weekday, Sunday when unset.
func (s Settings) WeekStart() time.Weekday {
	if s.WeekStartsOn == nil {
		return time.Sunday
	}
	return *s.WeekStartsOn
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	if s.WeekStartsOn != nil {
		wd := *s.WeekStartsOn
		s.WeekStartsOn = &wd
	}
	return s
}

// SettingsPatch carries a partial settings update. Nil fields are left
// unchanged; an empty string clears a string field.
type SettingsPatch struct {
	WebhookURL      *string
	DailyReportTime *string
	WeekStartsOn    *int
	ClearWeekStart  bool
}

// Validate rejects a malformed report time or an out-of-range weekday.
func (p SettingsPatch) Validate() error {
	if p.DailyReportTime != nil && *p.DailyReportTime != "" {
		if _, _, err := ParseClock(*p.DailyReportTime); err != nil {
			return err
		}
	}
	if p.WeekStartsOn != nil && (*p.WeekStartsOn < 0 || *p.WeekStartsOn > 6) {
		return fmt.Errorf("week start must be between 0 (Sunday) and 6 (Saturday), got %d", *p.WeekStartsOn)
	}
	return nil
}

// Apply returns a copy of s with the patch applied. Call Validate first.
func (p SettingsPatch) Apply(s Settings) Settings {
	s = s.Clone()
	if p.WebhookURL != nil {
		s.WebhookURL = *p.WebhookURL
	}
	if p.DailyReportTime != nil {
		s.DailyReportTime = *p.DailyReportTime
	}
	if p.ClearWeekStart {
		s.WeekStartsOn = nil
	}
	if p.WeekStartsOn != nil {
		wd := time.Weekday(*p.WeekStartsOn)
		s.WeekStartsOn = &wd
	}
	return s
}
