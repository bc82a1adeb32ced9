package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/notify"
	"github.com/alexanderramin/tempo/internal/tracker"
)

type reportService struct {
	tracker  TrackerService
	notifier notify.Notifier
	observer UseCaseObserver
}

func NewReportService(tr TrackerService, notifier notify.Notifier, observers ...UseCaseObserver) ReportService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &reportService{
		tracker:  tr,
		notifier: notifier,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) DailyMessage(ctx context.Context, date time.Time) string {
	summary := s.tracker.DailySummary(ctx, date)
	return FormatDailyReport(summary, s.tracker.ListActivities(ctx))
}

func (s *reportService) SendDaily(ctx context.Context, date time.Time) (message string, delivered bool) {
	var err error
	fields := map[string]any{}
	defer observe(ctx, s.observer, "send-daily-report", fields)(&err)

	message = s.DailyMessage(ctx, date)
	delivered = s.notifier.Notify(ctx, message)
	fields["delivered"] = delivered
	if !delivered {
		err = fmt.Errorf("daily report not delivered")
	}
	return message, delivered
}

// FormatDailyReport renders a plain-text daily report, largest activity
// first.
func FormatDailyReport(summary tracker.DailySummary, activities []domain.Activity) string {
	names := make(map[string]string, len(activities))
	for _, a := range activities {
		names[a.ID] = a.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Time report for %s: %s total", summary.Date, domain.HoursMinutes(summary.TotalMinutes))
	if summary.TotalMinutes == 0 {
		b.WriteString("\nNo time tracked.")
		return b.String()
	}

	b.WriteString("\nActivities:")
	for _, row := range sortedTotals(summary.ByActivity) {
		name := domain.CoalesceStr(names[row.key], "(deleted activity)")
		fmt.Fprintf(&b, "\n• %s: %s", name, domain.HoursMinutes(row.minutes))
	}

	if len(summary.ByProject) > 0 {
		b.WriteString("\nProjects:")
		for _, row := range sortedTotals(summary.ByProject) {
			fmt.Fprintf(&b, "\n• %s: %s", row.key, domain.HoursMinutes(row.minutes))
		}
	}
	return b.String()
}

type total struct {
	key     string
	minutes float64
}

func sortedTotals(m map[string]float64) []total {
	out := make([]total, 0, len(m))
	for k, v := range m {
		out = append(out, total{key: k, minutes: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].minutes != out[j].minutes {
			return out[i].minutes > out[j].minutes
		}
		return out[i].key < out[j].key
	})
	return out
}
