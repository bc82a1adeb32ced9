package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/notify"
	"github.com/alexanderramin/tempo/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingNotifier struct {
	mu       sync.Mutex
	messages []string
	result   bool
}

func (c *capturingNotifier) Notify(_ context.Context, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return c.result
}

func (c *capturingNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func TestFormatDailyReport(t *testing.T) {
	summary := tracker.DailySummary{
		Date:         "2025-03-10",
		TotalMinutes: 150,
		ByActivity:   map[string]float64{"w": 90, "e": 45, "gone": 15},
		ByProject:    map[string]float64{"Book": 90},
	}
	activities := []domain.Activity{{ID: "w", Name: "Writing"}, {ID: "e", Name: "Email"}}

	got := FormatDailyReport(summary, activities)
	want := "Time report for 2025-03-10: 2h 30m total\n" +
		"Activities:\n" +
		"• Writing: 1h 30m\n" +
		"• Email: 0h 45m\n" +
		"• (deleted activity): 0h 15m\n" +
		"Projects:\n" +
		"• Book: 1h 30m"
	assert.Equal(t, want, got)
}

func TestFormatDailyReport_Empty(t *testing.T) {
	got := FormatDailyReport(tracker.DailySummary{Date: "2025-03-10"}, nil)
	assert.Equal(t, "Time report for 2025-03-10: 0h 0m total\nNo time tracked.", got)
}

func TestReportService_SendDaily(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	_, err := env.svc.AddActivity(ctx, tracker.NewActivity{Name: "Writing"})
	require.NoError(t, err)
	_, err = env.svc.AddManualEntry(ctx, ManualEntryInput{ActivityRef: "Writing", Minutes: 30})
	require.NoError(t, err)

	sink := &capturingNotifier{result: true}
	msg, ok := NewReportService(env.svc, sink).SendDaily(ctx, baseTime)
	assert.True(t, ok)
	require.Equal(t, 1, sink.count())
	assert.Equal(t, msg, sink.messages[0])
	assert.Contains(t, msg, "Writing: 0h 30m")
}

func TestReportService_FailedDeliveryReportedNotPropagated(t *testing.T) {
	env := newTestEnv(t, true)
	obs := &recordingObserver{}
	_, ok := NewReportService(env.svc, notify.Noop{}, obs).SendDaily(context.Background(), baseTime)
	assert.False(t, ok)
	require.Equal(t, []string{"send-daily-report"}, obs.names())
	assert.False(t, obs.events[0].Success)
}

func TestReportScheduler_Tick(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, true)
	sink := &capturingNotifier{result: true}
	sched := NewReportScheduler(env.svc, NewReportService(env.svc, sink))

	at := func(h, m int) time.Time { return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC) }

	assert.False(t, sched.Tick(ctx, at(17, 30)), "no report time configured")

	_, err := env.svc.UpdateSettings(ctx, domain.SettingsPatch{DailyReportTime: strPtr("17:30")})
	require.NoError(t, err)

	assert.False(t, sched.Tick(ctx, at(17, 29)))
	assert.True(t, sched.Tick(ctx, at(17, 30)))
	assert.False(t, sched.Tick(ctx, at(17, 30).Add(40*time.Second)), "once per day")
	assert.False(t, sched.Tick(ctx, at(17, 31)))
	assert.Equal(t, 1, sink.count())

	assert.True(t, sched.Tick(ctx, at(17, 30).AddDate(0, 0, 1)), "next day fires again")
	assert.Equal(t, 2, sink.count())
}

func TestReportScheduler_RunStopsOnCancel(t *testing.T) {
	env := newTestEnv(t, true)
	sched := NewReportScheduler(env.svc, NewReportService(env.svc, notify.Noop{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx, 5*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
