package tracker

import (
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T, opts ...Option) (*Tracker, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(baseTime)
	all := append([]Option{
		WithClock(clock.Now),
		WithIDGenerator(testutil.SequentialIDs("id")),
		WithLocation(time.UTC),
	}, opts...)
	return New(all...), clock
}

func mustAddActivity(t *testing.T, tr *Tracker, name, project string) domain.Activity {
	t.Helper()
	a, ok := tr.AddActivity(NewActivity{Name: name, Project: project})
	require.True(t, ok, "adding activity %q", name)
	return a
}

// assertSingleRunningPerActivity checks the central timer invariant.
func assertSingleRunningPerActivity(t *testing.T, tr *Tracker) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range tr.Running() {
		require.False(t, seen[r.ActivityID], "activity %s has more than one running timer", r.ActivityID)
		require.Nil(t, r.EndTime, "running timer must not have an end time")
		seen[r.ActivityID] = true
	}
}

func domainPatchWeekStart(day int) domain.SettingsPatch {
	return domain.SettingsPatch{WeekStartsOn: &day}
}
