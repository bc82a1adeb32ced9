package tracker

import "github.com/alexanderramin/tempo/internal/domain"

// State is a value copy of everything a host persists.
type State struct {
	Activities  []domain.Activity
	TimeEntries []domain.TimeEntry
	Settings    domain.Settings
	// RunningTimers is only populated when the tracker was created with
	// WithRunningTimerPersistence.
	RunningTimers []domain.TimeEntry
}

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() State {
	var s State
	t.read(func() { s = t.snapshotLocked(t.persistRunning) })
	return s
}

// Checkpoint is a Snapshot that always carries running timers. Pass it to
// Rollback to undo a mutation completely.
func (t *Tracker) Checkpoint() State {
	var s State
	t.read(func() { s = t.snapshotLocked(true) })
	return s
}

func (t *Tracker) snapshotLocked(withRunning bool) State {
	s := State{
		Activities:  make([]domain.Activity, len(t.activities)),
		TimeEntries: cloneEntries(t.entries),
		Settings:    t.settings.Clone(),
	}
	copy(s.Activities, t.activities)
	if withRunning {
		s.RunningTimers = t.runningLocked()
		for i := range s.RunningTimers {
			s.RunningTimers[i] = s.RunningTimers[i].Clone()
		}
	}
	return s
}

// Restore replaces the whole state with s. Duplicate ids, completed entries
// that are still open or end before they start, and entries or running
// timers for unknown activities are dropped. Running timers are only taken
// from s when the tracker persists them; otherwise the tracker keeps its
// own timers for activities that still exist. At most one timer per
// activity is kept.
func (t *Tracker) Restore(s State) {
	t.commit(func() []Event {
		t.restoreLocked(s, t.persistRunning)
		return []Event{{Kind: StateRestored, At: t.now().UTC()}}
	})
}

// Rollback returns the tracker to a Checkpoint, running timers included.
func (t *Tracker) Rollback(s State) {
	t.commit(func() []Event {
		t.restoreLocked(s, true)
		return []Event{{Kind: StateRestored, At: t.now().UTC()}}
	})
}

func (t *Tracker) restoreLocked(s State, withRunning bool) {
	seen := make(map[string]bool, len(s.Activities))
	t.activities = make([]domain.Activity, 0, len(s.Activities))
	for _, a := range s.Activities {
		if seen[a.ID] || !domain.ValidActivityName(a.Name) {
			continue
		}
		seen[a.ID] = true
		t.activities = append(t.activities, a)
	}

	seenEntries := make(map[string]bool, len(s.TimeEntries))
	t.entries = make([]domain.TimeEntry, 0, len(s.TimeEntries))
	for _, e := range s.TimeEntries {
		if seenEntries[e.ID] || !seen[e.ActivityID] || e.EndTime == nil || e.EndTime.Before(e.StartTime) {
			continue
		}
		seenEntries[e.ID] = true
		t.entries = append(t.entries, e.Clone())
	}

	t.settings = s.Settings.Clone()

	timers := s.RunningTimers
	if !withRunning {
		timers = t.runningLocked()
	}
	t.running = make(map[string]domain.TimeEntry, len(timers))
	for _, r := range timers {
		if r.EndTime != nil || !seen[r.ActivityID] {
			continue
		}
		if _, dup := t.running[r.ActivityID]; dup {
			continue
		}
		t.running[r.ActivityID] = r.Clone()
	}
}

// Equal reports whether s and o hold the same records. Times compare by
// instant, so a state read back from storage equals the one written.
func (s State) Equal(o State) bool {
	if len(s.Activities) != len(o.Activities) ||
		len(s.TimeEntries) != len(o.TimeEntries) ||
		len(s.RunningTimers) != len(o.RunningTimers) {
		return false
	}
	for i := range s.Activities {
		if !activityEqual(s.Activities[i], o.Activities[i]) {
			return false
		}
	}
	for i := range s.TimeEntries {
		if !entryEqual(s.TimeEntries[i], o.TimeEntries[i]) {
			return false
		}
	}
	running := make(map[string]domain.TimeEntry, len(o.RunningTimers))
	for _, r := range o.RunningTimers {
		running[r.ActivityID] = r
	}
	for _, r := range s.RunningTimers {
		other, ok := running[r.ActivityID]
		if !ok || !entryEqual(r, other) {
			return false
		}
	}
	return settingsEqual(s.Settings, o.Settings)
}

func activityEqual(a, b domain.Activity) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Color == b.Color &&
		a.Project == b.Project && a.Description == b.Description &&
		a.CreatedAt.Equal(b.CreatedAt)
}

func entryEqual(a, b domain.TimeEntry) bool {
	if a.ID != b.ID || a.ActivityID != b.ActivityID || a.Description != b.Description ||
		a.IsManual != b.IsManual || !a.StartTime.Equal(b.StartTime) {
		return false
	}
	if (a.EndTime == nil) != (b.EndTime == nil) || (a.EndTime != nil && !a.EndTime.Equal(*b.EndTime)) {
		return false
	}
	if (a.PlannedMinutes == nil) != (b.PlannedMinutes == nil) {
		return false
	}
	return a.PlannedMinutes == nil || *a.PlannedMinutes == *b.PlannedMinutes
}

func settingsEqual(a, b domain.Settings) bool {
	return a.WebhookURL == b.WebhookURL && a.DailyReportTime == b.DailyReportTime &&
		a.WeekStart() == b.WeekStart() && (a.WeekStartsOn == nil) == (b.WeekStartsOn == nil)
}
