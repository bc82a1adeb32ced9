package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/teatest"
	"github.com/alexanderramin/tempo/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func watchEnv(t *testing.T) (*cliEnv, *teatest.Driver) {
	t.Helper()
	env := testApp(t)
	ctx := context.Background()
	for _, name := range []string{"Coding", "Reading"} {
		_, err := env.app.Tracker.AddActivity(ctx, tracker.NewActivity{Name: name})
		require.NoError(t, err)
		_, err = env.app.Tracker.Start(ctx, name, tracker.StartOptions{PlannedMinutes: 25})
		require.NoError(t, err)
	}
	env.clock.Advance(10 * time.Minute)

	changes, unsubscribe := subscribeChanges(env.app.Tracker)
	t.Cleanup(unsubscribe)
	d := teatest.New(t, newWatchModel(ctx, env.app, changes), teatest.WithSize(80, 24))
	return env, d
}

func TestWatch_RendersRunningTimers(t *testing.T) {
	_, d := watchEnv(t)

	view := d.View()
	assert.Contains(t, view, "tempo › watch")
	assert.Contains(t, view, "Coding")
	assert.Contains(t, view, "Reading")
	assert.Contains(t, view, "0:10:00")
	assert.Contains(t, view, "0:15:00")
	assert.Contains(t, view, " 40%")
	assert.Contains(t, view, "s: stop")
	assert.Contains(t, view, "q: quit")
}

func TestWatch_TickRefreshesElapsed(t *testing.T) {
	env, d := watchEnv(t)

	env.clock.Advance(7 * time.Minute)
	d.Send(tickMsg(env.clock.Now()))

	view := d.View()
	assert.Contains(t, view, "0:17:00")
	assert.Contains(t, view, "0:08:00")
	assert.Contains(t, view, "Today: 0m")
}

func TestWatch_StopSelected(t *testing.T) {
	env, d := watchEnv(t)

	d.Key("down")
	d.Key("s")

	running := env.app.Tracker.Running(context.Background())
	require.Len(t, running, 1)
	reading, err := env.app.Tracker.ResolveActivity(context.Background(), "Reading")
	require.NoError(t, err)
	assert.NotEqual(t, reading.ID, running[0].ActivityID)
	assert.Contains(t, d.View(), "Stopped ● Reading (10m)")
}

func TestWatch_StopAll(t *testing.T) {
	env, d := watchEnv(t)

	d.Key("a")

	assert.Empty(t, env.app.Tracker.Running(context.Background()))
	view := d.View()
	assert.Contains(t, view, "No timers running.")
	assert.Contains(t, view, "Today: 20m")
}

func TestWatch_CursorStaysInRange(t *testing.T) {
	_, d := watchEnv(t)

	d.Key("up")
	d.Key("down")
	d.Key("down")
	d.Key("down")
	m := d.Model.(watchModel)
	assert.Equal(t, 1, m.cursor)

	d.Key("s")
	m = d.Model.(watchModel)
	assert.Equal(t, 0, m.cursor)
}

func TestWatch_ExternalChangeReloads(t *testing.T) {
	env, d := watchEnv(t)

	_, err := env.app.Tracker.StopAll(context.Background())
	require.NoError(t, err)
	d.Send(trackerChangedMsg{})

	assert.Contains(t, d.View(), "No timers running.")
}

func TestWatch_Quit(t *testing.T) {
	_, d := watchEnv(t)

	d.Key("q")

	assert.True(t, d.Quit)
	assert.True(t, d.Model.(watchModel).quitting)
	assert.Empty(t, d.View())
}

func TestWatch_UnsubscribeClosesChanges(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()
	changes, unsubscribe := subscribeChanges(env.app.Tracker)

	_, err := env.app.Tracker.AddActivity(ctx, tracker.NewActivity{Name: "Coding"})
	require.NoError(t, err)
	unsubscribe()
	unsubscribe()

	_, ok := <-changes
	assert.True(t, ok, "pending change is still delivered")
	_, ok = <-changes
	assert.False(t, ok)
	assert.Nil(t, waitForChange(changes)())

	_, err = env.app.Tracker.AddActivity(ctx, tracker.NewActivity{Name: "Reading"})
	require.NoError(t, err)
}
