package service

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/alexanderramin/tempo/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestTrackerService_StatePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)

	writing, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing", Project: "Book"})
	require.NoError(t, err)
	_, err = env.svc.AddManualEntry(ctx, ManualEntryInput{ActivityRef: "Writing", Minutes: 30})
	require.NoError(t, err)
	_, err = env.svc.UpdateSettings(ctx, domain.SettingsPatch{DailyReportTime: strPtr("17:30")})
	require.NoError(t, err)

	reopened := env.reopen(t, true)
	acts := reopened.ListActivities(ctx)
	require.Len(t, acts, 1)
	assert.Equal(t, writing.ID, acts[0].ID)
	assert.Equal(t, "Book", acts[0].Project)
	assert.Len(t, reopened.ListEntries(ctx, time.Time{}), 1)
	assert.Equal(t, "17:30", reopened.Settings(ctx).DailyReportTime)
}

func TestTrackerService_RunningTimerSurvivesReopenWhenPersisted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)

	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	started, err := env.svc.Start(ctx, "writing", tracker.StartOptions{PlannedMinutes: 25})
	require.NoError(t, err)

	env.clock.Advance(40 * time.Minute)
	next := env.reopen(t, true)

	running := next.Running(ctx)
	require.Len(t, running, 1)
	assert.Equal(t, started.StartTime, running[0].StartTime)

	done, err := next.Stop(ctx, "Writing")
	require.NoError(t, err)
	assert.InDelta(t, 40.0, domain.DurationMinutes(done.StartTime, *done.EndTime), 0.0001)
	assert.Empty(t, next.Running(ctx))
}

func TestTrackerService_RunningTimerDroppedWithoutPersistence(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)

	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = env.svc.Start(ctx, "Writing", tracker.StartOptions{})
	require.NoError(t, err)

	next := env.reopen(t, false)
	assert.Empty(t, next.Running(ctx))
	assert.Len(t, next.ListActivities(ctx), 1)
}

func TestTrackerService_ShutdownStopsTimersWithoutPersistence(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)

	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Email"})
	require.NoError(t, err)
	_, err = env.svc.Start(ctx, "Writing", tracker.StartOptions{})
	require.NoError(t, err)
	_, err = env.svc.Start(ctx, "Email", tracker.StartOptions{})
	require.NoError(t, err)

	env.clock.Advance(15 * time.Minute)
	require.NoError(t, env.svc.Shutdown(ctx))
	assert.Empty(t, env.svc.Running(ctx))

	next := env.reopen(t, false)
	entries := next.ListEntries(ctx, time.Time{})
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.InDelta(t, 15.0, e.Minutes(env.clock.Now()), 0.0001)
	}
}

func TestTrackerService_ShutdownKeepsTimersWithPersistence(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)

	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = env.svc.Start(ctx, "Writing", tracker.StartOptions{})
	require.NoError(t, err)

	require.NoError(t, env.svc.Shutdown(ctx))
	assert.Len(t, env.svc.Running(ctx), 1)
	assert.Empty(t, env.svc.ListEntries(ctx, time.Time{}))
}

func TestTrackerService_StopNotRunning(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)

	_, err = env.svc.Stop(ctx, "Writing")
	assert.ErrorIs(t, err, ErrTimerNotRunning)
	assert.True(t, IsNotFound(err))
	assert.Empty(t, env.svc.ListEntries(ctx, time.Time{}))
}

func TestTrackerService_StartUnknownActivity(t *testing.T) {
	env := newTestEnv(t, true)
	_, err := env.svc.Start(context.Background(), "ghost", tracker.StartOptions{})
	assert.ErrorIs(t, err, ErrActivityNotFound)
	assert.Empty(t, env.svc.Running(context.Background()))
}

func TestTrackerService_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)

	_, err = env.svc.AddActivity(ctx, tracker.NewActivity{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, minutes := range []int{0, -5, 1441} {
		_, err = env.svc.AddManualEntry(ctx, ManualEntryInput{ActivityRef: "Writing", Minutes: minutes})
		assert.ErrorIs(t, err, ErrInvalidInput, "minutes=%d", minutes)
	}
	assert.Empty(t, env.svc.ListEntries(ctx, time.Time{}))

	_, err = env.svc.UpdateSettings(ctx, domain.SettingsPatch{WeekStartsOn: intPtr(7)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.svc.UpdateSettings(ctx, domain.SettingsPatch{DailyReportTime: strPtr("25:99")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, domain.Settings{}, env.svc.Settings(ctx))

	_, err = env.svc.UpdateActivity(ctx, "Writing", domain.ActivityPatch{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.svc.UpdateActivity(ctx, "Writing", domain.ActivityPatch{Name: strPtr(" ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.svc.Start(ctx, "Writing", tracker.StartOptions{PlannedMinutes: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTrackerService_UpdateAndDeleteActivity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)

	a, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = env.svc.AddManualEntry(ctx, ManualEntryInput{ActivityRef: a.ID, Minutes: 10})
	require.NoError(t, err)

	updated, err := env.svc.UpdateActivity(ctx, a.ID, domain.ActivityPatch{Project: strPtr("Book")})
	require.NoError(t, err)
	assert.Equal(t, "Book", updated.Project)
	assert.Equal(t, "Writing", updated.Name)

	require.NoError(t, env.svc.DeleteActivity(ctx, "writing"))
	next := env.reopen(t, true)
	assert.Empty(t, next.ListActivities(ctx))
	assert.Empty(t, next.ListEntries(ctx, time.Time{}), "delete cascades to entries")

	assert.ErrorIs(t, env.svc.DeleteActivity(ctx, "writing"), ErrActivityNotFound)
}

func TestTrackerService_DeleteEntryByPrefix(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	e, err := env.svc.AddManualEntry(ctx, ManualEntryInput{ActivityRef: "Writing", Minutes: 10})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteEntry(ctx, e.ID))
	assert.Empty(t, env.svc.ListEntries(ctx, time.Time{}))
	assert.ErrorIs(t, env.svc.DeleteEntry(ctx, e.ID), ErrEntryNotFound)
}

func TestTrackerService_ListEntriesForDay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)

	_, err = env.svc.AddManualEntry(ctx, ManualEntryInput{ActivityRef: "Writing", Minutes: 10})
	require.NoError(t, err)
	_, err = env.svc.AddManualEntry(ctx, ManualEntryInput{
		ActivityRef:   "Writing",
		Minutes:       20,
		ReferenceDate: baseTime.AddDate(0, 0, -1),
	})
	require.NoError(t, err)

	assert.Len(t, env.svc.ListEntries(ctx, baseTime), 1)
	assert.Len(t, env.svc.ListEntries(ctx, baseTime.AddDate(0, 0, -1)), 1)
	assert.Len(t, env.svc.ListEntries(ctx, time.Time{}), 2)

	sum := env.svc.DailySummary(ctx, baseTime.AddDate(0, 0, -1))
	assert.InDelta(t, 20.0, sum.TotalMinutes, 0.0001)
	week := env.svc.WeeklySummary(ctx, baseTime)
	assert.InDelta(t, 30.0, week.TotalMinutes, 0.0001)
}

func TestTrackerService_SaveFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	svc, err := OpenTrackerService(ctx, failingStore{saveErr: boom}, TrackerOptions{})
	require.NoError(t, err)

	_, err = svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "saving state")
	assert.Empty(t, svc.ListActivities(ctx))
}

func TestTrackerService_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	env := newTestEnv(t, true)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = env.svc.AddManualEntry(ctx, ManualEntryInput{ActivityRef: "Writing", Minutes: 10})
	require.NoError(t, err)

	spy := &spyStore{StateStore: env.store, saveErr: boom}
	svc, err := OpenTrackerService(ctx, spy, TrackerOptions{PersistRunningTimers: true, Clock: env.clock.Now, Location: time.UTC})
	require.NoError(t, err)

	_, err = svc.Start(ctx, "Writing", tracker.StartOptions{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, svc.Running(ctx))

	_, err = svc.AddActivity(ctx, tracker.NewActivity{Name: "Email"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, svc.ListActivities(ctx), 1)

	assert.ErrorIs(t, svc.DeleteActivity(ctx, "Writing"), boom)
	assert.Len(t, svc.ListEntries(ctx, time.Time{}), 1)

	_, err = svc.UpdateSettings(ctx, domain.SettingsPatch{DailyReportTime: strPtr("18:00")})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, svc.Settings(ctx).DailyReportTime)

	spy.saveErr = nil
	_, err = svc.Start(ctx, "Writing", tracker.StartOptions{})
	require.NoError(t, err)
	next := env.reopen(t, true)
	assert.Len(t, next.Running(ctx), 1)
	assert.Len(t, next.ListActivities(ctx), 1)
}

func TestTrackerService_FailedStopKeepsTimerRunning(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	env := newTestEnv(t, false)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)

	spy := &spyStore{StateStore: env.store, saveErr: boom}
	svc, err := OpenTrackerService(ctx, spy, TrackerOptions{Clock: env.clock.Now, Location: time.UTC})
	require.NoError(t, err)

	_, err = svc.Start(ctx, "Writing", tracker.StartOptions{})
	require.NoError(t, err, "timers that are not persisted need no save")
	assert.Zero(t, spy.saves)

	env.clock.Advance(10 * time.Minute)
	_, err = svc.Stop(ctx, "Writing")
	assert.ErrorIs(t, err, boom)
	assert.Len(t, svc.Running(ctx), 1)
	assert.Empty(t, svc.ListEntries(ctx, time.Time{}))
}

func TestTrackerService_ReadsAndIdleShutdownDoNotWrite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = env.svc.AddManualEntry(ctx, ManualEntryInput{ActivityRef: "Writing", Minutes: 10})
	require.NoError(t, err)

	spy := &spyStore{StateStore: env.store}
	svc, err := OpenTrackerService(ctx, spy, TrackerOptions{PersistRunningTimers: true, Clock: env.clock.Now, Location: time.UTC})
	require.NoError(t, err)

	svc.ListActivities(ctx)
	svc.ListEntries(ctx, time.Time{})
	svc.Running(ctx)
	svc.Settings(ctx)
	svc.DailySummary(ctx, baseTime)
	svc.WeeklySummary(ctx, baseTime)
	_, err = svc.ResolveActivity(ctx, "Writing")
	require.NoError(t, err)
	_, err = svc.StopAll(ctx)
	require.NoError(t, err)
	_, err = svc.Stop(ctx, "Writing")
	assert.ErrorIs(t, err, ErrTimerNotRunning)
	require.NoError(t, svc.Shutdown(ctx))

	assert.Zero(t, spy.saves)
}

func TestTrackerService_ShutdownSavesOnlyStoppedTimers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)

	spy := &spyStore{StateStore: env.store}
	svc, err := OpenTrackerService(ctx, spy, TrackerOptions{Clock: env.clock.Now, Location: time.UTC})
	require.NoError(t, err)
	require.NoError(t, svc.Shutdown(ctx))
	assert.Zero(t, spy.saves)

	_, err = svc.Start(ctx, "Writing", tracker.StartOptions{})
	require.NoError(t, err)
	env.clock.Advance(5 * time.Minute)
	require.NoError(t, svc.Shutdown(ctx))
	assert.Equal(t, 1, spy.saves)
	assert.Len(t, env.reopen(t, false).ListEntries(ctx, time.Time{}), 1)
}

func TestTrackerService_LongLivedServiceSeesOtherWriters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tempo.db")
	clock := testutil.NewClock(baseTime)

	first := openOnFile(t, path, clock, "a")
	_, err := first.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = first.Start(ctx, "Writing", tracker.StartOptions{})
	require.NoError(t, err)
	require.NoError(t, first.Shutdown(ctx))

	watcher := openOnFile(t, path, clock, "w")
	require.Len(t, watcher.Running(ctx), 1)
	var restored int
	unsubscribe := watcher.Subscribe(tracker.ObserverFunc(func(e tracker.Event) {
		if e.Kind == tracker.StateRestored {
			restored++
		}
	}))
	defer unsubscribe()

	clock.Advance(20 * time.Minute)
	other := openOnFile(t, path, clock, "c")
	_, err = other.Stop(ctx, "Writing")
	require.NoError(t, err)
	_, err = other.AddManualEntry(ctx, ManualEntryInput{ActivityRef: "Writing", Minutes: 30})
	require.NoError(t, err)
	require.NoError(t, other.Shutdown(ctx))

	assert.Empty(t, watcher.Running(ctx))
	assert.Len(t, watcher.ListEntries(ctx, time.Time{}), 2)
	assert.InDelta(t, 50.0, watcher.DailySummary(ctx, clock.Now()).TotalMinutes, 0.0001)
	assert.Equal(t, 1, restored, "unchanged store is not restored again")

	_, err = watcher.AddActivity(ctx, tracker.NewActivity{Name: "Email"})
	require.NoError(t, err)
	require.NoError(t, watcher.Shutdown(ctx))

	reopened := openOnFile(t, path, clock, "r")
	assert.Len(t, reopened.ListEntries(ctx, time.Time{}), 2)
	assert.Empty(t, reopened.Running(ctx))
	assert.Len(t, reopened.ListActivities(ctx), 2)
}

func TestTrackerService_LoadFailure(t *testing.T) {
	boom := errors.New("corrupt")
	_, err := OpenTrackerService(context.Background(), failingStore{loadErr: boom}, TrackerOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestTrackerService_ObservesUseCases(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	env := newTestEnv(t, true)
	svc, err := OpenTrackerService(ctx, env.store, TrackerOptions{Clock: env.clock.Now, Location: time.UTC}, obs)
	require.NoError(t, err)

	_, err = svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = svc.Stop(ctx, "Writing")
	require.Error(t, err)

	assert.Equal(t, []string{"load-state", "add-activity", "stop-timer"}, obs.names())
	assert.True(t, obs.events[1].Success)
	assert.False(t, obs.events[2].Success)
	assert.ErrorIs(t, obs.events[2].Err, ErrTimerNotRunning)
}

func TestLogUseCaseObserver_WritesSlogRecord(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "start-timer",
		Duration: 3 * time.Millisecond,
		Success:  false,
		Err:      ErrActivityNotFound,
		Fields:   map[string]any{"ref": "ghost"},
	})

	out := buf.String()
	assert.Contains(t, out, "use_case=start-timer")
	assert.Contains(t, out, "ref=ghost")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "activity not found")

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestTrackerService_SubscribeSeesMutations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)

	var kinds []tracker.EventKind
	unsubscribe := env.svc.Subscribe(tracker.ObserverFunc(func(e tracker.Event) {
		kinds = append(kinds, e.Kind)
	}))
	defer unsubscribe()

	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = env.svc.Start(ctx, "Writing", tracker.StartOptions{})
	require.NoError(t, err)

	assert.Equal(t, []tracker.EventKind{tracker.ActivityAdded, tracker.TimerStarted}, kinds)
}

func TestTrackerService_FixedIDsResolveByPrefix(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	svc, err := OpenTrackerService(ctx, env.store, TrackerOptions{
		PersistRunningTimers: true,
		Clock:                env.clock.Now,
		IDs:                  fixedIDs("a1b2c3", "d4e5f6", "run-1"),
		Location:             time.UTC,
	})
	require.NoError(t, err)

	_, err = svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = svc.AddActivity(ctx, tracker.NewActivity{Name: "Email"})
	require.NoError(t, err)

	e, err := svc.Start(ctx, "d4e", tracker.StartOptions{})
	require.NoError(t, err)
	assert.Equal(t, "d4e5f6", e.ActivityID)
}
