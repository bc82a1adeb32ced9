package testutil

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/google/uuid"
)

// FixedTime is the reference instant fixtures are built around.
var FixedTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// Activity options
type ActivityOption func(*domain.Activity)

func WithProject(p string) ActivityOption {
	return func(a *domain.Activity) {
		a.Project = p
	}
}

func WithColor(c string) ActivityOption {
	return func(a *domain.Activity) {
		a.Color = c
	}
}

func WithActivityDescription(d string) ActivityOption {
	return func(a *domain.Activity) {
		a.Description = d
	}
}

func NewTestActivity(name string, opts ...ActivityOption) *domain.Activity {
	a := &domain.Activity{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     domain.Palette[0],
		CreatedAt: FixedTime,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TimeEntry options
type EntryOption func(*domain.TimeEntry)

func WithNote(n string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Description = n
	}
}

func WithManual() EntryOption {
	return func(e *domain.TimeEntry) {
		e.IsManual = true
	}
}

func WithPlannedMinutes(m int) EntryOption {
	return func(e *domain.TimeEntry) {
		e.PlannedMinutes = &m
	}
}

// NewTestEntry builds a completed entry that ends at end and lasts minutes.
func NewTestEntry(activityID string, end time.Time, minutes int, opts ...EntryOption) *domain.TimeEntry {
	end = end.UTC()
	e := &domain.TimeEntry{
		ID:         uuid.New().String(),
		ActivityID: activityID,
		StartTime:  end.Add(-time.Duration(minutes) * time.Minute),
		EndTime:    &end,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTestRunning builds a running timer that started at start.
func NewTestRunning(activityID string, start time.Time, opts ...EntryOption) *domain.TimeEntry {
	e := &domain.TimeEntry{
		ID:         uuid.New().String(),
		ActivityID: activityID,
		StartTime:  start.UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
