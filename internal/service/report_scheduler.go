package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// ReportScheduler sends the daily report once per local day when the
// wall clock reaches Settings.DailyReportTime.
type ReportScheduler struct {
	tracker TrackerService
	reports ReportService

	mu       sync.Mutex
	lastSent string
}

func NewReportScheduler(tr TrackerService, reports ReportService) *ReportScheduler {
	return &ReportScheduler{tracker: tr, reports: reports}
}

// Tick checks the clock once and sends the report if it is due. Returns
// true when a report was attempted.
func (r *ReportScheduler) Tick(ctx context.Context, now time.Time) bool {
	at := r.tracker.Settings(ctx).DailyReportTime
	if at == "" {
		return false
	}
	hour, minute, err := domain.ParseClock(at)
	if err != nil {
		return false
	}

	loc := r.tracker.Location()
	local := now.In(loc)
	day := domain.LocalDate(local, loc)
	due := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	// Only the scheduled minute fires, so a late start does not send a
	// report for a day already past its report time.
	if local.Before(due) || !local.Before(due.Add(time.Minute)) {
		return false
	}

	r.mu.Lock()
	if r.lastSent == day {
		r.mu.Unlock()
		return false
	}
	r.lastSent = day
	r.mu.Unlock()

	r.reports.SendDaily(ctx, local)
	return true
}

// Run calls Tick every interval until ctx is cancelled. The interval must
// be under a minute for every scheduled minute to be observed.
func (r *ReportScheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || interval >= time.Minute {
		interval = 20 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(ctx, r.tracker.Now())
		}
	}
}
