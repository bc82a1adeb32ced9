package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddManual_EndsAtReferenceDate(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := mustAddActivity(t, tr, "Reading", "")
	ref := time.Date(2025, 3, 8, 18, 0, 0, 0, time.UTC)

	entry, ok := tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 30, ReferenceDate: ref, Description: "paper"})
	require.True(t, ok)
	require.NotNil(t, entry.EndTime)
	assert.Equal(t, ref, *entry.EndTime)
	assert.Equal(t, ref.Add(-30*time.Minute), entry.StartTime)
	assert.True(t, entry.IsManual)
	assert.Equal(t, "paper", entry.Description)
	assert.Nil(t, entry.PlannedMinutes)
}

func TestAddManual_DefaultsToNow(t *testing.T) {
	tr, clock := newTestTracker(t)
	a := mustAddActivity(t, tr, "Reading", "")
	clock.Advance(2 * time.Hour)

	entry, ok := tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 15})
	require.True(t, ok)
	assert.Equal(t, clock.Now(), *entry.EndTime)
}

func TestAddManual_RejectsOutOfRangeDurations(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := mustAddActivity(t, tr, "Reading", "")

	for _, minutes := range []int{0, -10, 1441, 1500} {
		_, ok := tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: minutes})
		assert.False(t, ok, "should reject %d minutes", minutes)
	}
	assert.Empty(t, tr.Entries())

	_, ok := tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 1440})
	assert.True(t, ok, "a full day is allowed")
}

func TestAddManual_UnknownActivityRejected(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, ok := tr.AddManual(ManualEntry{ActivityID: "missing", DurationMinutes: 10})
	assert.False(t, ok)
	assert.Empty(t, tr.Entries())
}

func TestEntries_InsertionOrder(t *testing.T) {
	tr, clock := newTestTracker(t)
	a := mustAddActivity(t, tr, "Reading", "")

	late, _ := tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 10, ReferenceDate: baseTime.Add(5 * time.Hour)})
	early, _ := tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 10, ReferenceDate: baseTime.Add(-5 * time.Hour)})
	_, _ = tr.Start(a.ID, StartOptions{})
	clock.Advance(time.Minute)
	stopped, _ := tr.Stop(a.ID)

	entries := tr.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{late.ID, early.ID, stopped.ID}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestDeleteEntry(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := mustAddActivity(t, tr, "Reading", "")
	e1, _ := tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 10})
	e2, _ := tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 20})

	assert.True(t, tr.DeleteEntry(e1.ID))
	assert.False(t, tr.DeleteEntry(e1.ID), "second delete is a no-op")
	assert.False(t, tr.DeleteEntry("missing"))

	entries := tr.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, e2.ID, entries[0].ID)

	_, found := tr.FindEntry(e1.ID)
	assert.False(t, found)
	_, found = tr.FindEntry(e2.ID)
	assert.True(t, found)
}

func TestEntries_ReturnsDeepCopy(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := mustAddActivity(t, tr, "Reading", "")
	_, _ = tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 10})

	entries := tr.Entries()
	*entries[0].EndTime = entries[0].EndTime.Add(time.Hour)

	assert.Equal(t, baseTime, *tr.Entries()[0].EndTime)
}

func TestEntriesForDay_UsesEndTime(t *testing.T) {
	tr, _ := newTestTracker(t)
	a := mustAddActivity(t, tr, "Reading", "")
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	_, _ = tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 30, ReferenceDate: time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)})
	_, _ = tr.AddManual(ManualEntry{ActivityID: a.ID, DurationMinutes: 20, ReferenceDate: time.Date(2025, 3, 11, 0, 10, 0, 0, time.UTC)})

	assert.Len(t, tr.EntriesForDay(day), 1)
	assert.Len(t, tr.EntriesForDay(day.AddDate(0, 0, 1)), 1)
	assert.Empty(t, tr.EntriesForDay(day.AddDate(0, 0, 2)))
}
