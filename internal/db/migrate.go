package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Statements are idempotent and re-run on every
// open; ALTER TABLE statements that add an existing column are skipped.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL CHECK(trim(name) <> ''),
		color       TEXT NOT NULL DEFAULT '',
		project     TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		position    INTEGER NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS time_entries (
		id              TEXT PRIMARY KEY,
		activity_id     TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		start_time      TEXT NOT NULL,
		end_time        TEXT NOT NULL CHECK(end_time >= start_time),
		planned_minutes INTEGER,
		description     TEXT NOT NULL DEFAULT '',
		is_manual       INTEGER NOT NULL DEFAULT 0,
		position        INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_entries_activity ON time_entries(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_end ON time_entries(end_time)`,

	`CREATE TABLE IF NOT EXISTS running_timers (
		activity_id     TEXT PRIMARY KEY REFERENCES activities(id) ON DELETE CASCADE,
		id              TEXT NOT NULL,
		start_time      TEXT NOT NULL,
		planned_minutes INTEGER,
		description     TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
