package domain

import (
	"fmt"
	"time"
)

// MaxManualMinutes caps a manual entry at one day.
const MaxManualMinutes = 24 * 60

type TimeEntry struct {
	ID             string
	ActivityID     string
	StartTime      time.Time
	EndTime        *time.Time
	PlannedMinutes *int
	Description    string
	IsManual       bool
}

// IsRunning reports whether the entry is an in-progress timer.
func (e TimeEntry) IsRunning() bool {
	return e.EndTime == nil
}

// Minutes returns the fractional duration of a completed entry. For a
// running entry it measures up to now.
func (e TimeEntry) Minutes(now time.Time) float64 {
	if e.EndTime != nil {
		return DurationMinutes(e.StartTime, *e.EndTime)
	}
	return DurationMinutes(e.StartTime, now)
}

// Remaining returns how much of the planned duration is left at now.
// ok is false when the entry carries no plan or is already completed.
func (e TimeEntry) Remaining(now time.Time) (left time.Duration, ok bool) {
	if e.PlannedMinutes == nil || e.EndTime != nil {
		return 0, false
	}
	planned := time.Duration(*e.PlannedMinutes) * time.Minute
	return planned - now.Sub(e.StartTime), true
}

// Clone returns a deep copy so callers never share pointer fields.
func (e TimeEntry) Clone() TimeEntry {
	if e.EndTime != nil {
		end := *e.EndTime
		e.EndTime = &end
	}
	if e.PlannedMinutes != nil {
		pm := *e.PlannedMinutes
		e.PlannedMinutes = &pm
	}
	return e
}

// ValidateManualMinutes checks that a manual duration is within 1..1440.
func ValidateManualMinutes(minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("duration must be a positive number of minutes, got %d", minutes)
	}
	if minutes > MaxManualMinutes {
		return fmt.Errorf("duration must not exceed %d minutes, got %d", MaxManualMinutes, minutes)
	}
	return nil
}
