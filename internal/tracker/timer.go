package tracker

import (
	"sort"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// StartOptions holds the optional fields of a new timer.
type StartOptions struct {
	Description string
	// PlannedMinutes is a countdown hint. Values <= 0 are ignored.
	PlannedMinutes int
}

// Start begins a timer for the activity. A timer already running for the
// same activity is completed first, ending at the instant the new one
// starts. Returns false only when the activity is unknown.
func (t *Tracker) Start(activityID string, opts StartOptions) (domain.TimeEntry, bool) {
	var started domain.TimeEntry
	ok := false
	t.commit(func() []Event {
		if t.activityIndexLocked(activityID) < 0 {
			return nil
		}
		ok = true
		now := t.now().UTC()

		var events []Event
		if _, running := t.running[activityID]; running {
			done := t.stopLocked(activityID, now)
			events = append(events, Event{Kind: TimerStopped, ActivityID: activityID, EntryID: done.ID, At: now})
		}

		entry := domain.TimeEntry{
			ID:          t.newID(),
			ActivityID:  activityID,
			StartTime:   now,
			Description: opts.Description,
		}
		if opts.PlannedMinutes > 0 {
			planned := opts.PlannedMinutes
			entry.PlannedMinutes = &planned
		}
		t.running[activityID] = entry
		started = entry.Clone()
		return append(events, Event{Kind: TimerStarted, ActivityID: activityID, EntryID: entry.ID, At: now})
	})
	return started, ok
}

// Stop completes the running timer for the activity and appends it to the
// ledger. Returns false, with no effect, when nothing is running.
func (t *Tracker) Stop(activityID string) (domain.TimeEntry, bool) {
	var done domain.TimeEntry
	ok := false
	t.commit(func() []Event {
		if _, running := t.running[activityID]; !running {
			return nil
		}
		ok = true
		now := t.now().UTC()
		done = t.stopLocked(activityID, now).Clone()
		return []Event{{Kind: TimerStopped, ActivityID: activityID, EntryID: done.ID, At: now}}
	})
	return done, ok
}

// StopAll completes every running timer at the same instant and returns
// the completed entries ordered by start time.
func (t *Tracker) StopAll() []domain.TimeEntry {
	var done []domain.TimeEntry
	t.commit(func() []Event {
		if len(t.running) == 0 {
			return nil
		}
		now := t.now().UTC()
		events := make([]Event, 0, len(t.running))
		for _, r := range t.runningLocked() {
			entry := t.stopLocked(r.ActivityID, now)
			done = append(done, entry.Clone())
			events = append(events, Event{Kind: TimerStopped, ActivityID: entry.ActivityID, EntryID: entry.ID, At: now})
		}
		return events
	})
	return done
}

// Running returns the running timers ordered by start time.
func (t *Tracker) Running() []domain.TimeEntry {
	var out []domain.TimeEntry
	t.read(func() {
		out = t.runningLocked()
		for i := range out {
			out[i] = out[i].Clone()
		}
	})
	return out
}

// RunningFor returns the running timer of one activity.
func (t *Tracker) RunningFor(activityID string) (domain.TimeEntry, bool) {
	var e domain.TimeEntry
	found := false
	t.read(func() {
		if r, ok := t.running[activityID]; ok {
			e, found = r.Clone(), true
		}
	})
	return e, found
}

// stopLocked moves the running timer of activityID into the ledger under a
// fresh id. The caller must hold t.mu and know the timer exists.
func (t *Tracker) stopLocked(activityID string, now time.Time) domain.TimeEntry {
	entry := t.running[activityID]
	delete(t.running, activityID)

	end := now
	if end.Before(entry.StartTime) {
		end = entry.StartTime
	}
	entry.EndTime = &end
	entry.ID = t.newID()
	t.entries = append(t.entries, entry)
	return entry
}

func (t *Tracker) runningLocked() []domain.TimeEntry {
	out := make([]domain.TimeEntry, 0, len(t.running))
	for _, r := range t.running {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ActivityID < out[j].ActivityID
	})
	return out
}
