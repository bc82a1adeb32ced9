package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteEntryRepo implements EntryRepo for completed time entries.
type SQLiteEntryRepo struct {
	db db.DBTX
}

func NewSQLiteEntryRepo(db db.DBTX) *SQLiteEntryRepo {
	return &SQLiteEntryRepo{db: db}
}

const entryColumns = `id, activity_id, start_time, end_time, planned_minutes, description, is_manual`

func (r *SQLiteEntryRepo) Create(ctx context.Context, e *domain.TimeEntry, position int) error {
	if e.EndTime == nil {
		return fmt.Errorf("inserting time entry %s: running timers belong in running_timers", e.ID)
	}
	query := `INSERT INTO time_entries (id, activity_id, start_time, end_time, planned_minutes, description, is_manual, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ActivityID,
		formatTime(e.StartTime),
		formatTime(*e.EndTime),
		nullableIntToValue(e.PlannedMinutes),
		e.Description,
		boolToInt(e.IsManual),
		position,
	)
	if err != nil {
		return fmt.Errorf("inserting time entry: %w", err)
	}
	return nil
}

func (r *SQLiteEntryRepo) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("time entry: %w", ErrNotFound)
	}
	return e, err
}

func (r *SQLiteEntryRepo) List(ctx context.Context) ([]*domain.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM time_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	return out, nil
}

func (r *SQLiteEntryRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_entries`); err != nil {
		return fmt.Errorf("deleting time entries: %w", err)
	}
	return nil
}

func scanEntry(row rowScanner) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	var start, end string
	var planned sql.NullInt64
	var manual int
	if err := row.Scan(&e.ID, &e.ActivityID, &start, &end, &planned, &e.Description, &manual); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning time entry: %w", err)
	}

	var err error
	if e.StartTime, err = parseTime(start, "start_time"); err != nil {
		return nil, err
	}
	endTime, err := parseTime(end, "end_time")
	if err != nil {
		return nil, err
	}
	e.EndTime = &endTime
	e.PlannedMinutes = intPtrFromNull(planned)
	e.IsManual = intToBool(manual)
	return &e, nil
}
