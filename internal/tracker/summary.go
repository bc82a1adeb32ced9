package tracker

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// DailySummary aggregates the completed entries of one local calendar day.
type DailySummary struct {
	Date         string
	TotalMinutes float64
	ByActivity   map[string]float64
	ByProject    map[string]float64
}

// WeeklySummary aggregates seven consecutive days starting on the
// configured first weekday.
type WeeklySummary struct {
	WeekStart    string
	Days         []DailySummary
	TotalMinutes float64
	ByActivity   map[string]float64
	ByProject    map[string]float64
}

// Summarize computes the summary for the day containing date. An entry
// counts toward the day its EndTime falls on, in full, even when it
// started the previous day. Running entries are ignored.
func Summarize(entries []domain.TimeEntry, activities []domain.Activity, date time.Time, loc *time.Location) DailySummary {
	s := DailySummary{
		Date:       domain.LocalDate(date, loc),
		ByActivity: make(map[string]float64),
		ByProject:  make(map[string]float64),
	}

	projects := make(map[string]string, len(activities))
	for _, a := range activities {
		if a.HasProject() {
			projects[a.ID] = a.Project
		}
	}

	for _, e := range entries {
		if e.EndTime == nil || !domain.SameLocalDay(*e.EndTime, date, loc) {
			continue
		}
		minutes := domain.DurationMinutes(e.StartTime, *e.EndTime)
		s.ByActivity[e.ActivityID] += minutes
		if project, ok := projects[e.ActivityID]; ok {
			s.ByProject[project] += minutes
		}
		s.TotalMinutes += minutes
	}
	return s
}

// DailySummary summarizes the day containing date. A zero date means today.
func (t *Tracker) DailySummary(date time.Time) DailySummary {
	if date.IsZero() {
		date = t.now()
	}
	var s DailySummary
	t.read(func() {
		s = Summarize(t.entries, t.activities, date, t.loc)
	})
	return s
}

// WeeklySummary summarizes the week containing date. A zero date means
// this week.
func (t *Tracker) WeeklySummary(date time.Time) WeeklySummary {
	if date.IsZero() {
		date = t.now()
	}
	var w WeeklySummary
	t.read(func() {
		start := domain.StartOfWeek(date, t.settings.WeekStart(), t.loc)
		w = WeeklySummary{
			WeekStart:  domain.LocalDate(start, t.loc),
			Days:       make([]DailySummary, 0, 7),
			ByActivity: make(map[string]float64),
			ByProject:  make(map[string]float64),
		}
		for i := 0; i < 7; i++ {
			day := Summarize(t.entries, t.activities, start.AddDate(0, 0, i), t.loc)
			w.Days = append(w.Days, day)
			w.TotalMinutes += day.TotalMinutes
			for id, m := range day.ByActivity {
				w.ByActivity[id] += m
			}
			for p, m := range day.ByProject {
				w.ByProject[p] += m
			}
		}
	})
	return w
}
