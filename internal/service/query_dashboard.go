package service

import (
	"context"
	"time"

	"runlog/internal/analysis"
)

// Dashboard contains everything the dashboard screen shows
type Dashboard struct {
	Date      time.Time
	Status    *StatusReport
	Fitness   *FitnessReport
	Readiness *ReadinessReport

	// Last 7 days
	WeekSessions int
	WeekMinutes  float64
	WeekDistance float64 // km
	WeekLoad     float64

	Recent []SessionView

	// Weekly load totals, oldest first, the last bucket ending on Date
	WeeklyLoad   []float64
	WeeklyLabels []string
}

// Dashboard assembles the dashboard for ref
func (q *QueryService) Dashboard(ctx context.Context, ref time.Time) (*Dashboard, error) {
	ref = analysis.Day(ref)
	days := ChartWeeks * 7
	if days < q.fitnessWindow {
		days = q.fitnessWindow
	}

	history, err := q.loadsBetween(ctx, ref.AddDate(0, 0, -(days-1)), ref)
	if err != nil {
		return nil, err
	}

	readiness, err := q.Readiness(ctx, ref)
	if err != nil {
		return nil, err
	}

	recent, err := q.ListSessions(ctx, RecentSessionsLimit, 0)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Date:      ref,
		Status:    q.status(history, ref),
		Fitness:   q.fitness(history, ref),
		Readiness: readiness,
		Recent:    recent,
	}

	week, err := q.store.SessionsBetween(ctx, ref.AddDate(0, 0, -(analysis.AcuteWindowDays-1)), ref)
	if err != nil {
		return nil, err
	}
	for _, s := range week {
		d.WeekSessions++
		d.WeekMinutes += s.DurationMinutes
		d.WeekDistance += s.DistanceKm
	}
	d.WeekLoad = d.Status.Snapshot.Acute

	d.WeeklyLoad, d.WeeklyLabels = weeklyLoad(history, ref, ChartWeeks)
	return d, nil
}

// weeklyLoad buckets loads into consecutive 7-day blocks ending on ref
func weeklyLoad(history []analysis.LoadRecord, ref time.Time, weeks int) ([]float64, []string) {
	totals := make([]float64, weeks)
	labels := make([]string, weeks)

	for i := 0; i < weeks; i++ {
		start := ref.AddDate(0, 0, -(weeks-i)*7+1)
		labels[i] = start.Format("Jan 02")
	}

	for _, r := range history {
		ago := analysis.DaysBetween(r.Date, ref)
		if ago < 0 || ago >= weeks*7 || r.Load <= 0 {
			continue
		}
		totals[weeks-1-ago/7] += r.Load
	}
	return totals, labels
}
