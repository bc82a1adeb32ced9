package tracker

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// ManualEntry holds the fields for AddManual.
type ManualEntry struct {
	ActivityID      string
	DurationMinutes int
	// ReferenceDate is the entry's end. Zero means now.
	ReferenceDate time.Time
	Description   string
}

// AddManual records a completed entry that ends at the reference date and
// lasts DurationMinutes. Durations outside 1..1440 and unknown activities
// are rejected without changing state.
func (t *Tracker) AddManual(in ManualEntry) (domain.TimeEntry, bool) {
	if domain.ValidateManualMinutes(in.DurationMinutes) != nil {
		return domain.TimeEntry{}, false
	}
	var added domain.TimeEntry
	ok := false
	t.commit(func() []Event {
		if t.activityIndexLocked(in.ActivityID) < 0 {
			return nil
		}
		ok = true
		now := t.now().UTC()
		end := in.ReferenceDate
		if end.IsZero() {
			end = now
		}
		end = end.UTC()

		added = domain.TimeEntry{
			ID:          t.newID(),
			ActivityID:  in.ActivityID,
			StartTime:   end.Add(-time.Duration(in.DurationMinutes) * time.Minute),
			EndTime:     &end,
			Description: in.Description,
			IsManual:    true,
		}
		t.entries = append(t.entries, added)
		added = added.Clone()
		return []Event{{Kind: EntryAdded, ActivityID: in.ActivityID, EntryID: added.ID, At: now}}
	})
	return added, ok
}

// DeleteEntry removes a completed entry. Returns false when absent.
func (t *Tracker) DeleteEntry(id string) bool {
	found := false
	t.commit(func() []Event {
		for i, e := range t.entries {
			if e.ID != id {
				continue
			}
			found = true
			t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
			return []Event{{Kind: EntryDeleted, ActivityID: e.ActivityID, EntryID: id, At: t.now().UTC()}}
		}
		return nil
	})
	return found
}

// FindEntry looks up a completed entry by id.
func (t *Tracker) FindEntry(id string) (domain.TimeEntry, bool) {
	var out domain.TimeEntry
	found := false
	t.read(func() {
		for _, e := range t.entries {
			if e.ID == id {
				out, found = e.Clone(), true
				return
			}
		}
	})
	return out, found
}

// Entries returns the ledger in insertion order, oldest first.
func (t *Tracker) Entries() []domain.TimeEntry {
	var out []domain.TimeEntry
	t.read(func() {
		out = cloneEntries(t.entries)
	})
	return out
}

// EntriesForDay returns the completed entries whose end falls on the same
// local calendar day as date, in insertion order.
func (t *Tracker) EntriesForDay(date time.Time) []domain.TimeEntry {
	var out []domain.TimeEntry
	t.read(func() {
		for _, e := range t.entries {
			if e.EndTime != nil && domain.SameLocalDay(*e.EndTime, date, t.loc) {
				out = append(out, e.Clone())
			}
		}
	})
	return out
}

func cloneEntries(in []domain.TimeEntry) []domain.TimeEntry {
	out := make([]domain.TimeEntry, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
