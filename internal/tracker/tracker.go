// Package tracker holds the in-memory time-tracking state: the activity
// registry, running timers, the entry ledger and the summaries derived from
// them. A Tracker performs no I/O; hosts persist it through Snapshot and
// Restore and observe changes through Subscribe.
package tracker

import (
	"sync"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/google/uuid"
)

// Tracker is the single owner of activities, entries, running timers and
// settings. All methods are safe for concurrent use; every mutation is
// applied atomically under one lock.
type Tracker struct {
	mu             sync.Mutex
	now            func() time.Time
	newID          func() string
	loc            *time.Location
	persistRunning bool

	activities []domain.Activity
	entries    []domain.TimeEntry
	running    map[string]domain.TimeEntry
	settings   domain.Settings

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObsID int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now. Useful for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) {
		if gen != nil {
			t.newID = gen
		}
	}
}

// WithLocation sets the location whose calendar days bound summaries.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithRunningTimerPersistence includes running timers in Snapshot and
// accepts them in Restore. Without it running timers are dropped on restore.
func WithRunningTimerPersistence() Option {
	return func(t *Tracker) {
		t.persistRunning = true
	}
}

// New creates an empty Tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		now:       time.Now,
		newID:     uuid.NewString,
		loc:       time.Local,
		running:   make(map[string]domain.TimeEntry),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Location returns the location used for calendar-day boundaries.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Now returns the tracker's current instant.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// commit runs fn under the state lock and publishes the events it returns
// once the lock is released.
func (t *Tracker) commit(fn func() []Event) {
	events := func() []Event {
		t.mu.Lock()
		defer t.mu.Unlock()
		return fn()
	}()
	t.publish(events)
}

// read runs fn under the state lock.
func (t *Tracker) read(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
}
