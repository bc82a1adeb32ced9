package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/tracker"
)

// ManualEntryInput describes a manual entry. ActivityRef may be an id, an
// id prefix or a name.
type ManualEntryInput struct {
	ActivityRef   string
	Minutes       int
	ReferenceDate time.Time // zero means now
	Description   string
}

type TrackerService interface {
	AddActivity(ctx context.Context, in tracker.NewActivity) (domain.Activity, error)
	UpdateActivity(ctx context.Context, ref string, patch domain.ActivityPatch) (domain.Activity, error)
	DeleteActivity(ctx context.Context, ref string) error
	ListActivities(ctx context.Context) []domain.Activity
	ResolveActivity(ctx context.Context, ref string) (domain.Activity, error)

	Start(ctx context.Context, ref string, opts tracker.StartOptions) (domain.TimeEntry, error)
	Stop(ctx context.Context, ref string) (domain.TimeEntry, error)
	StopAll(ctx context.Context) ([]domain.TimeEntry, error)
	Running(ctx context.Context) []domain.TimeEntry

	AddManualEntry(ctx context.Context, in ManualEntryInput) (domain.TimeEntry, error)
	ListEntries(ctx context.Context, day time.Time) []domain.TimeEntry
	DeleteEntry(ctx context.Context, ref string) error

	DailySummary(ctx context.Context, date time.Time) tracker.DailySummary
	WeeklySummary(ctx context.Context, date time.Time) tracker.WeeklySummary

	Settings(ctx context.Context) domain.Settings
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)

	// Subscribe registers o for committed tracker changes, including
	// changes picked up from the store. Observers run while a use case is
	// in progress and must not call back into the service.
	Subscribe(o tracker.Observer) (unsubscribe func())
	// Shutdown stops every running timer when running timers are not
	// persisted, and saves only if that changed anything.
	Shutdown(ctx context.Context) error

	Now() time.Time
	Location() *time.Location
}

type ReportService interface {
	// DailyMessage renders the daily summary for the day containing date.
	DailyMessage(ctx context.Context, date time.Time) string
	// SendDaily renders and delivers the daily message. Delivery failures
	// are logged by the notifier and reported as false.
	SendDaily(ctx context.Context, date time.Time) (message string, delivered bool)
}
