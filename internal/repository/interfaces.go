package repository

import (
	"context"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/tracker"
)

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity, position int) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context) ([]*domain.Activity, error)
	DeleteAll(ctx context.Context) error
}

type EntryRepo interface {
	Create(ctx context.Context, e *domain.TimeEntry, position int) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	List(ctx context.Context) ([]*domain.TimeEntry, error)
	DeleteAll(ctx context.Context) error
}

type RunningTimerRepo interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	List(ctx context.Context) ([]*domain.TimeEntry, error)
	DeleteAll(ctx context.Context) error
}

type SettingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Put(ctx context.Context, s *domain.Settings) error
}

// StateStore loads and saves a full tracker snapshot.
type StateStore interface {
	Load(ctx context.Context) (tracker.State, error)
	Save(ctx context.Context, s tracker.State) error
}
