package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/tracker"
)

// TrackerOptions configures the tracker owned by the service.
type TrackerOptions struct {
	PersistRunningTimers bool
	Clock                func() time.Time
	IDs                  func() string
	Location             *time.Location
}

func (o TrackerOptions) trackerOptions() []tracker.Option {
	opts := []tracker.Option{
		tracker.WithClock(o.Clock),
		tracker.WithIDGenerator(o.IDs),
		tracker.WithLocation(o.Location),
	}
	if o.PersistRunningTimers {
		opts = append(opts, tracker.WithRunningTimerPersistence())
	}
	return opts
}

type trackerService struct {
	tr             *tracker.Tracker
	store          repository.StateStore
	persistRunning bool
	observer       UseCaseObserver

	// mu serializes use cases. Each one reloads the store, applies its
	// change and saves before the next starts.
	mu sync.Mutex
	// stored is the state last read from or written to store.
	stored tracker.State
}

// OpenTrackerService creates the tracker, restores it from store and
// returns a service that keeps the tracker in step with store. Other
// processes may write the same store: every use case reloads first and
// every mutation that changed persisted state is saved at once.
func OpenTrackerService(ctx context.Context, store repository.StateStore, opts TrackerOptions, observers ...UseCaseObserver) (TrackerService, error) {
	s := &trackerService{
		tr:             tracker.New(opts.trackerOptions()...),
		store:          store,
		persistRunning: opts.PersistRunningTimers,
		observer:       useCaseObserverOrNoop(observers),
	}

	var err error
	defer observe(ctx, s.observer, "load-state", nil)(&err)

	var st tracker.State
	st, err = store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	s.stored = s.persisted(st)
	s.tr.Restore(st)
	return s, nil
}

// persisted drops the parts of st the store does not keep for this service.
func (s *trackerService) persisted(st tracker.State) tracker.State {
	if !s.persistRunning {
		st.RunningTimers = nil
	}
	return st
}

// syncLocked restores the stored state when another writer changed it
// since this service last read or wrote it. Otherwise the tracker is left
// alone and publishes nothing.
func (s *trackerService) syncLocked(ctx context.Context) error {
	st, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reloading state: %w", err)
	}
	st = s.persisted(st)
	if st.Equal(s.stored) {
		return nil
	}
	s.stored = st
	s.tr.Restore(st)
	return nil
}

// refresh reloads before a read. When the store cannot be read the last
// known state is served and the failure is reported to the observer.
func (s *trackerService) refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.syncLocked(ctx); err != nil {
		observe(ctx, s.observer, "reload-state", nil)(&err)
	}
}

// mutate runs fn on freshly loaded state and saves the result when the
// persisted state changed. A failed save rolls the tracker back to where it
// was before fn, so memory never holds a change the store rejected.
func (s *trackerService) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.syncLocked(ctx); err != nil {
		return err
	}
	before := s.tr.Checkpoint()
	if err := fn(); err != nil {
		return err
	}

	after := s.tr.Snapshot()
	if after.Equal(s.persisted(before)) {
		return nil
	}
	if err := s.store.Save(ctx, after); err != nil {
		s.tr.Rollback(before)
		return fmt.Errorf("saving state: %w", err)
	}
	s.stored = after
	return nil
}

func (s *trackerService) AddActivity(ctx context.Context, in tracker.NewActivity) (a domain.Activity, err error) {
	fields := map[string]any{"name": in.Name}
	defer observe(ctx, s.observer, "add-activity", fields)(&err)

	if !domain.ValidActivityName(in.Name) {
		return domain.Activity{}, fmt.Errorf("%w: activity name is required", ErrInvalidInput)
	}
	err = s.mutate(ctx, func() error {
		var ok bool
		if a, ok = s.tr.AddActivity(in); !ok {
			return fmt.Errorf("%w: activity name is required", ErrInvalidInput)
		}
		fields["activity_id"] = a.ID
		return nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}

func (s *trackerService) UpdateActivity(ctx context.Context, ref string, patch domain.ActivityPatch) (a domain.Activity, err error) {
	fields := map[string]any{"ref": ref}
	defer observe(ctx, s.observer, "update-activity", fields)(&err)

	if patch.Name != nil && !domain.ValidActivityName(*patch.Name) {
		return domain.Activity{}, fmt.Errorf("%w: activity name must not be blank", ErrInvalidInput)
	}
	if patch.IsEmpty() {
		return domain.Activity{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	err = s.mutate(ctx, func() error {
		target, err := resolveActivity(s.tr.Activities(), ref)
		if err != nil {
			return err
		}
		fields["activity_id"] = target.ID

		var ok bool
		if a, ok = s.tr.UpdateActivity(target.ID, patch); !ok {
			return fmt.Errorf("%w: %q", ErrActivityNotFound, ref)
		}
		return nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}

func (s *trackerService) DeleteActivity(ctx context.Context, ref string) (err error) {
	fields := map[string]any{"ref": ref}
	defer observe(ctx, s.observer, "delete-activity", fields)(&err)

	return s.mutate(ctx, func() error {
		target, err := resolveActivity(s.tr.Activities(), ref)
		if err != nil {
			return err
		}
		fields["activity_id"] = target.ID

		if !s.tr.DeleteActivity(target.ID) {
			return fmt.Errorf("%w: %q", ErrActivityNotFound, ref)
		}
		return nil
	})
}

func (s *trackerService) ListActivities(ctx context.Context) []domain.Activity {
	s.refresh(ctx)
	return s.tr.Activities()
}

func (s *trackerService) ResolveActivity(ctx context.Context, ref string) (domain.Activity, error) {
	s.refresh(ctx)
	return resolveActivity(s.tr.Activities(), ref)
}

func (s *trackerService) Start(ctx context.Context, ref string, opts tracker.StartOptions) (e domain.TimeEntry, err error) {
	fields := map[string]any{"ref": ref}
	defer observe(ctx, s.observer, "start-timer", fields)(&err)

	if opts.PlannedMinutes < 0 {
		return domain.TimeEntry{}, fmt.Errorf("%w: planned minutes must not be negative", ErrInvalidInput)
	}
	err = s.mutate(ctx, func() error {
		target, err := resolveActivity(s.tr.Activities(), ref)
		if err != nil {
			return err
		}
		fields["activity_id"] = target.ID

		var ok bool
		if e, ok = s.tr.Start(target.ID, opts); !ok {
			return fmt.Errorf("%w: %q", ErrActivityNotFound, ref)
		}
		return nil
	})
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return e, nil
}

func (s *trackerService) Stop(ctx context.Context, ref string) (e domain.TimeEntry, err error) {
	fields := map[string]any{"ref": ref}
	defer observe(ctx, s.observer, "stop-timer", fields)(&err)

	err = s.mutate(ctx, func() error {
		target, err := resolveActivity(s.tr.Activities(), ref)
		if err != nil {
			return err
		}
		fields["activity_id"] = target.ID

		var ok bool
		if e, ok = s.tr.Stop(target.ID); !ok {
			return fmt.Errorf("%w: %s", ErrTimerNotRunning, target.Name)
		}
		fields["minutes"] = e.Minutes(s.tr.Now())
		return nil
	})
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return e, nil
}

func (s *trackerService) StopAll(ctx context.Context) (stopped []domain.TimeEntry, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "stop-all-timers", fields)(&err)

	err = s.mutate(ctx, func() error {
		stopped = s.tr.StopAll()
		fields["stopped"] = len(stopped)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stopped, nil
}

func (s *trackerService) Running(ctx context.Context) []domain.TimeEntry {
	s.refresh(ctx)
	return s.tr.Running()
}

func (s *trackerService) AddManualEntry(ctx context.Context, in ManualEntryInput) (e domain.TimeEntry, err error) {
	fields := map[string]any{"ref": in.ActivityRef, "minutes": in.Minutes}
	defer observe(ctx, s.observer, "add-manual-entry", fields)(&err)

	if verr := domain.ValidateManualMinutes(in.Minutes); verr != nil {
		return domain.TimeEntry{}, invalid(verr)
	}
	err = s.mutate(ctx, func() error {
		target, err := resolveActivity(s.tr.Activities(), in.ActivityRef)
		if err != nil {
			return err
		}
		fields["activity_id"] = target.ID

		var ok bool
		e, ok = s.tr.AddManual(tracker.ManualEntry{
			ActivityID:      target.ID,
			DurationMinutes: in.Minutes,
			ReferenceDate:   in.ReferenceDate,
			Description:     in.Description,
		})
		if !ok {
			return fmt.Errorf("%w: %q", ErrActivityNotFound, in.ActivityRef)
		}
		return nil
	})
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return e, nil
}

// ListEntries returns completed entries ending on the local day of day, or
// every entry when day is zero.
func (s *trackerService) ListEntries(ctx context.Context, day time.Time) []domain.TimeEntry {
	s.refresh(ctx)
	if day.IsZero() {
		return s.tr.Entries()
	}
	return s.tr.EntriesForDay(day)
}

func (s *trackerService) DeleteEntry(ctx context.Context, ref string) (err error) {
	fields := map[string]any{"ref": ref}
	defer observe(ctx, s.observer, "delete-entry", fields)(&err)

	return s.mutate(ctx, func() error {
		target, err := resolveEntry(s.tr.Entries(), ref)
		if err != nil {
			return err
		}
		if !s.tr.DeleteEntry(target.ID) {
			return fmt.Errorf("%w: %q", ErrEntryNotFound, ref)
		}
		return nil
	})
}

func (s *trackerService) DailySummary(ctx context.Context, date time.Time) tracker.DailySummary {
	s.refresh(ctx)
	return s.tr.DailySummary(date)
}

func (s *trackerService) WeeklySummary(ctx context.Context, date time.Time) tracker.WeeklySummary {
	s.refresh(ctx)
	return s.tr.WeeklySummary(date)
}

func (s *trackerService) Settings(ctx context.Context) domain.Settings {
	s.refresh(ctx)
	return s.tr.Settings()
}

func (s *trackerService) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (st domain.Settings, err error) {
	defer observe(ctx, s.observer, "update-settings", nil)(&err)

	if verr := patch.Validate(); verr != nil {
		return domain.Settings{}, invalid(verr)
	}
	err = s.mutate(ctx, func() error {
		var ok bool
		if st, ok = s.tr.UpdateSettings(patch); !ok {
			return fmt.Errorf("%w: settings rejected", ErrInvalidInput)
		}
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return st, nil
}

func (s *trackerService) Subscribe(o tracker.Observer) func() {
	return s.tr.Subscribe(o)
}

// Shutdown writes nothing unless it stopped timers, since every earlier
// change was saved by its own use case.
func (s *trackerService) Shutdown(ctx context.Context) (err error) {
	fields := map[string]any{"persist_running": s.persistRunning}
	defer observe(ctx, s.observer, "shutdown", fields)(&err)

	return s.mutate(ctx, func() error {
		if !s.persistRunning {
			fields["stopped"] = len(s.tr.StopAll())
		}
		return nil
	})
}

func (s *trackerService) Now() time.Time {
	return s.tr.Now()
}

func (s *trackerService) Location() *time.Location {
	return s.tr.Location()
}

// IsNotFound reports whether err means a referenced activity, entry or
// running timer does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrActivityNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrTimerNotRunning)
}
