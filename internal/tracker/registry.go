package tracker

import (
	"strings"

	"github.com/alexanderramin/tempo/internal/domain"
)

// NewActivity holds the fields for AddActivity.
type NewActivity struct {
	Name        string
	Color       string
	Project     string
	Description string
}

// AddActivity appends a new activity. A blank name is rejected without
// changing state. An empty color is filled from domain.Palette.
func (t *Tracker) AddActivity(in NewActivity) (domain.Activity, bool) {
	if !domain.ValidActivityName(in.Name) {
		return domain.Activity{}, false
	}
	var added domain.Activity
	t.commit(func() []Event {
		now := t.now().UTC()
		added = domain.Activity{
			ID:          t.newID(),
			Name:        strings.TrimSpace(in.Name),
			Color:       domain.CoalesceStr(strings.TrimSpace(in.Color), domain.Palette[len(t.activities)%len(domain.Palette)]),
			Project:     strings.TrimSpace(in.Project),
			Description: in.Description,
			CreatedAt:   now,
		}
		t.activities = append(t.activities, added)
		return []Event{{Kind: ActivityAdded, ActivityID: added.ID, At: now}}
	})
	return added, true
}

// UpdateActivity applies patch to the activity with the given id. It
// returns false when the id is unknown.
func (t *Tracker) UpdateActivity(id string, patch domain.ActivityPatch) (domain.Activity, bool) {
	var updated domain.Activity
	found := false
	t.commit(func() []Event {
		i := t.activityIndexLocked(id)
		if i < 0 {
			return nil
		}
		found = true
		t.activities[i] = patch.Apply(t.activities[i])
		updated = t.activities[i]
		return []Event{{Kind: ActivityUpdated, ActivityID: id, At: t.now().UTC()}}
	})
	return updated, found
}

// DeleteActivity removes the activity together with every completed entry
// and the running timer that reference it. Returns false for an unknown id.
func (t *Tracker) DeleteActivity(id string) bool {
	found := false
	t.commit(func() []Event {
		i := t.activityIndexLocked(id)
		if i < 0 {
			return nil
		}
		found = true
		now := t.now().UTC()
		events := []Event{{Kind: ActivityDeleted, ActivityID: id, At: now}}

		t.activities = append(t.activities[:i:i], t.activities[i+1:]...)

		kept := t.entries[:0:0]
		for _, e := range t.entries {
			if e.ActivityID == id {
				events = append(events, Event{Kind: EntryDeleted, ActivityID: id, EntryID: e.ID, At: now})
				continue
			}
			kept = append(kept, e)
		}
		t.entries = kept

		if r, ok := t.running[id]; ok {
			events = append(events, Event{Kind: EntryDeleted, ActivityID: id, EntryID: r.ID, At: now})
			delete(t.running, id)
		}
		return events
	})
	return found
}

// FindActivity looks up an activity by id.
func (t *Tracker) FindActivity(id string) (domain.Activity, bool) {
	var a domain.Activity
	found := false
	t.read(func() {
		if i := t.activityIndexLocked(id); i >= 0 {
			a, found = t.activities[i], true
		}
	})
	return a, found
}

// FindActivityByName looks up an activity by case-insensitive name. The
// first match in insertion order wins.
func (t *Tracker) FindActivityByName(name string) (domain.Activity, bool) {
	name = strings.TrimSpace(name)
	var a domain.Activity
	found := false
	t.read(func() {
		for _, candidate := range t.activities {
			if strings.EqualFold(candidate.Name, name) {
				a, found = candidate, true
				return
			}
		}
	})
	return a, found
}

// Activities returns all activities in insertion order.
func (t *Tracker) Activities() []domain.Activity {
	var out []domain.Activity
	t.read(func() {
		out = make([]domain.Activity, len(t.activities))
		copy(out, t.activities)
	})
	return out
}

func (t *Tracker) activityIndexLocked(id string) int {
	for i, a := range t.activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}
