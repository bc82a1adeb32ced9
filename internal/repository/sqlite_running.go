package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteRunningTimerRepo persists in-progress timers, one row per activity.
type SQLiteRunningTimerRepo struct {
	db db.DBTX
}

func NewSQLiteRunningTimerRepo(db db.DBTX) *SQLiteRunningTimerRepo {
	return &SQLiteRunningTimerRepo{db: db}
}

func (r *SQLiteRunningTimerRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	if e.EndTime != nil {
		return fmt.Errorf("inserting running timer %s: entry is already completed", e.ID)
	}
	query := `INSERT INTO running_timers (activity_id, id, start_time, planned_minutes, description)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ActivityID, e.ID, formatTime(e.StartTime), nullableIntToValue(e.PlannedMinutes), e.Description,
	)
	if err != nil {
		return fmt.Errorf("inserting running timer: %w", err)
	}
	return nil
}

func (r *SQLiteRunningTimerRepo) List(ctx context.Context) ([]*domain.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT activity_id, id, start_time, planned_minutes, description
		FROM running_timers ORDER BY start_time, activity_id`)
	if err != nil {
		return nil, fmt.Errorf("listing running timers: %w", err)
	}
	defer rows.Close()

	var out []*domain.TimeEntry
	for rows.Next() {
		var e domain.TimeEntry
		var start string
		var planned sql.NullInt64
		if err := rows.Scan(&e.ActivityID, &e.ID, &start, &planned, &e.Description); err != nil {
			return nil, fmt.Errorf("scanning running timer: %w", err)
		}
		if e.StartTime, err = parseTime(start, "start_time"); err != nil {
			return nil, err
		}
		e.PlannedMinutes = intPtrFromNull(planned)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating running timers: %w", err)
	}
	return out, nil
}

func (r *SQLiteRunningTimerRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM running_timers`); err != nil {
		return fmt.Errorf("deleting running timers: %w", err)
	}
	return nil
}
