package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

const (
	settingWebhookURL      = "webhook_url"
	settingDailyReportTime = "daily_report_time"
	settingWeekStartsOn    = "week_starts_on"
)

// SQLiteSettingsRepo stores Settings as key/value rows. Unset fields have
// no row.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

func NewSQLiteSettingsRepo(db db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: db}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	defer rows.Close()

	var s domain.Settings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		switch key {
		case settingWebhookURL:
			s.WebhookURL = value
		case settingDailyReportTime:
			s.DailyReportTime = value
		case settingWeekStartsOn:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || n > 6 {
				return nil, fmt.Errorf("parsing %s %q: out of range", settingWeekStartsOn, value)
			}
			wd := time.Weekday(n)
			s.WeekStartsOn = &wd
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating settings: %w", err)
	}
	return &s, nil
}

// Put replaces all stored settings with s.
func (r *SQLiteSettingsRepo) Put(ctx context.Context, s *domain.Settings) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("clearing settings: %w", err)
	}

	values := map[string]string{}
	if s.WebhookURL != "" {
		values[settingWebhookURL] = s.WebhookURL
	}
	if s.DailyReportTime != "" {
		values[settingDailyReportTime] = s.DailyReportTime
	}
	if s.WeekStartsOn != nil {
		values[settingWeekStartsOn] = strconv.Itoa(int(*s.WeekStartsOn))
	}

	for key, value := range values {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("storing setting %s: %w", key, err)
		}
	}
	return nil
}
