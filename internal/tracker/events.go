package tracker

import "time"

// EventKind names a committed state change.
type EventKind string

const (
	ActivityAdded   EventKind = "activity_added"
	ActivityUpdated EventKind = "activity_updated"
	ActivityDeleted EventKind = "activity_deleted"
	TimerStarted    EventKind = "timer_started"
	TimerStopped    EventKind = "timer_stopped"
	EntryAdded      EventKind = "entry_added"
	EntryDeleted    EventKind = "entry_deleted"
	SettingsUpdated EventKind = "settings_updated"
	StateRestored   EventKind = "state_restored"
)

// Event describes one affected object of a committed mutation.
type Event struct {
	Kind       EventKind
	ActivityID string
	EntryID    string
	At         time.Time
}

// Observer receives events after the mutation that produced them has been
// applied. Observers may call back into the Tracker.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// Subscribe registers o and returns a function that removes it.
func (t *Tracker) Subscribe(o Observer) (unsubscribe func()) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	id := t.nextObsID
	t.nextObsID++
	t.observers[id] = o
	return func() {
		t.obsMu.Lock()
		defer t.obsMu.Unlock()
		delete(t.observers, id)
	}
}

func (t *Tracker) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	t.obsMu.Lock()
	observers := make([]Observer, 0, len(t.observers))
	for id := 0; id < t.nextObsID; id++ {
		if o, ok := t.observers[id]; ok {
			observers = append(observers, o)
		}
	}
	t.obsMu.Unlock()

	for _, e := range events {
		for _, o := range observers {
			o.OnEvent(e)
		}
	}
}
