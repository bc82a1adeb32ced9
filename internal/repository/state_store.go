package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/tracker"
)

// SQLiteStateStore saves and loads whole tracker snapshots. Every call runs
// in a single transaction, so a reader never sees a half-written snapshot.
type SQLiteStateStore struct {
	uow db.UnitOfWork
}

func NewSQLiteStateStore(uow db.UnitOfWork) *SQLiteStateStore {
	return &SQLiteStateStore{uow: uow}
}

func (s *SQLiteStateStore) Load(ctx context.Context) (tracker.State, error) {
	var state tracker.State
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		activities, err := NewSQLiteActivityRepo(tx).List(ctx)
		if err != nil {
			return err
		}
		entries, err := NewSQLiteEntryRepo(tx).List(ctx)
		if err != nil {
			return err
		}
		running, err := NewSQLiteRunningTimerRepo(tx).List(ctx)
		if err != nil {
			return err
		}
		settings, err := NewSQLiteSettingsRepo(tx).Get(ctx)
		if err != nil {
			return err
		}

		state.Activities = make([]domain.Activity, 0, len(activities))
		for _, a := range activities {
			state.Activities = append(state.Activities, *a)
		}
		state.TimeEntries = derefEntries(entries)
		state.RunningTimers = derefEntries(running)
		state.Settings = *settings
		return nil
	})
	if err != nil {
		return tracker.State{}, fmt.Errorf("loading state: %w", err)
	}
	return state, nil
}

// Save replaces the stored state with st. Activities are written before the
// rows that reference them.
func (s *SQLiteStateStore) Save(ctx context.Context, st tracker.State) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		activities := NewSQLiteActivityRepo(tx)
		entries := NewSQLiteEntryRepo(tx)
		running := NewSQLiteRunningTimerRepo(tx)

		if err := running.DeleteAll(ctx); err != nil {
			return err
		}
		if err := entries.DeleteAll(ctx); err != nil {
			return err
		}
		if err := activities.DeleteAll(ctx); err != nil {
			return err
		}

		for i := range st.Activities {
			if err := activities.Create(ctx, &st.Activities[i], i); err != nil {
				return err
			}
		}
		for i := range st.TimeEntries {
			if err := entries.Create(ctx, &st.TimeEntries[i], i); err != nil {
				return err
			}
		}
		for i := range st.RunningTimers {
			if err := running.Create(ctx, &st.RunningTimers[i]); err != nil {
				return err
			}
		}
		return NewSQLiteSettingsRepo(tx).Put(ctx, &st.Settings)
	})
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func derefEntries(in []*domain.TimeEntry) []domain.TimeEntry {
	out := make([]domain.TimeEntry, 0, len(in))
	for _, e := range in {
		out = append(out, *e)
	}
	return out
}
