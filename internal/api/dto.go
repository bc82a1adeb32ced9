package api

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/tracker"
)

type activityDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Project     string    `json:"project,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toActivityDTO(a domain.Activity) activityDTO {
	return activityDTO{
		ID:          a.ID,
		Name:        a.Name,
		Color:       a.Color,
		Project:     a.Project,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}

type createActivityInput struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Project     string `json:"project"`
	Description string `json:"description"`
}

type updateActivityInput struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Project     *string `json:"project"`
	Description *string `json:"description"`
}

func (in updateActivityInput) patch() domain.ActivityPatch {
	return domain.ActivityPatch{
		Name:        in.Name,
		Color:       in.Color,
		Project:     in.Project,
		Description: in.Description,
	}
}

type entryDTO struct {
	ID             string     `json:"id"`
	ActivityID     string     `json:"activity_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	PlannedMinutes *int       `json:"planned_minutes,omitempty"`
	Description    string     `json:"description,omitempty"`
	IsManual       bool       `json:"is_manual"`
	Minutes        float64    `json:"minutes"`
	// RemainingSeconds is set for running timers with a plan.
	RemainingSeconds *int64 `json:"remaining_seconds,omitempty"`
}

func toEntryDTO(e domain.TimeEntry, now time.Time) entryDTO {
	dto := entryDTO{
		ID:             e.ID,
		ActivityID:     e.ActivityID,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		PlannedMinutes: e.PlannedMinutes,
		Description:    e.Description,
		IsManual:       e.IsManual,
		Minutes:        e.Minutes(now),
	}
	if left, ok := e.Remaining(now); ok {
		secs := int64(left / time.Second)
		dto.RemainingSeconds = &secs
	}
	return dto
}

func toEntryDTOs(entries []domain.TimeEntry, now time.Time) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryDTO(e, now))
	}
	return out
}

type startTimerInput struct {
	Description    string `json:"description"`
	PlannedMinutes int    `json:"planned_minutes"`
}

type createEntryInput struct {
	ActivityID  string `json:"activity_id"`
	Minutes     int    `json:"minutes"`
	Description string `json:"description"`
	// EndTime is RFC 3339; empty means now.
	EndTime string `json:"end_time"`
}

type dailySummaryDTO struct {
	Date         string             `json:"date"`
	TotalMinutes float64            `json:"total_minutes"`
	ByActivity   map[string]float64 `json:"by_activity"`
	ByProject    map[string]float64 `json:"by_project"`
}

func toDailyDTO(s tracker.DailySummary) dailySummaryDTO {
	return dailySummaryDTO{
		Date:         s.Date,
		TotalMinutes: s.TotalMinutes,
		ByActivity:   s.ByActivity,
		ByProject:    s.ByProject,
	}
}

type weeklySummaryDTO struct {
	WeekStart    string             `json:"week_start"`
	TotalMinutes float64            `json:"total_minutes"`
	ByActivity   map[string]float64 `json:"by_activity"`
	ByProject    map[string]float64 `json:"by_project"`
	Days         []dailySummaryDTO  `json:"days"`
}

func toWeeklyDTO(w tracker.WeeklySummary) weeklySummaryDTO {
	days := make([]dailySummaryDTO, 0, len(w.Days))
	for _, d := range w.Days {
		days = append(days, toDailyDTO(d))
	}
	return weeklySummaryDTO{
		WeekStart:    w.WeekStart,
		TotalMinutes: w.TotalMinutes,
		ByActivity:   w.ByActivity,
		ByProject:    w.ByProject,
		Days:         days,
	}
}

type settingsDTO struct {
	WebhookURL      string `json:"webhook_url,omitempty"`
	DailyReportTime string `json:"daily_report_time,omitempty"`
	WeekStartsOn    *int   `json:"week_starts_on,omitempty"`
}

func toSettingsDTO(s domain.Settings) settingsDTO {
	dto := settingsDTO{WebhookURL: s.WebhookURL, DailyReportTime: s.DailyReportTime}
	if s.WeekStartsOn != nil {
		wd := int(*s.WeekStartsOn)
		dto.WeekStartsOn = &wd
	}
	return dto
}

type updateSettingsInput struct {
	WebhookURL      *string `json:"webhook_url"`
	DailyReportTime *string `json:"daily_report_time"`
	WeekStartsOn    *int    `json:"week_starts_on"`
	ClearWeekStart  bool    `json:"clear_week_start"`
}

func (in updateSettingsInput) patch() domain.SettingsPatch {
	return domain.SettingsPatch{
		WebhookURL:      in.WebhookURL,
		DailyReportTime: in.DailyReportTime,
		WeekStartsOn:    in.WeekStartsOn,
		ClearWeekStart:  in.ClearWeekStart,
	}
}
