package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"runlog/internal/analysis"
	"runlog/internal/store"
)

// QueryService provides read-only views of the training log.
// Every view is recomputed from the stored sessions and health logs.
type QueryService struct {
	store         *store.DB
	profile       analysis.UserProfile
	fitnessWindow int
	log           zerolog.Logger
}

// NewQueryService creates a query service for the athlete profile.
// A fitnessWindow <= 0 uses analysis.DefaultFitnessWindow.
func NewQueryService(db *store.DB, profile analysis.UserProfile, fitnessWindow int, logger zerolog.Logger) *QueryService {
	if fitnessWindow <= 0 {
		fitnessWindow = analysis.DefaultFitnessWindow
	}
	return &QueryService{store: db, profile: profile, fitnessWindow: fitnessWindow, log: logger}
}

// SessionView is a stored session with its derived load
type SessionView struct {
	Session store.Session
	Load    analysis.SessionLoad
	Effect  analysis.TrainingEffect
}

// StatusReport is the acute:chronic view on a reference date
type StatusReport struct {
	Snapshot analysis.StatusSnapshot
	Series   []analysis.DayStatus
	Monotony float64
}

// FitnessReport is the EWMA fitness view on a reference date
type FitnessReport struct {
	Series  []analysis.FitnessPoint
	Summary analysis.FitnessSummary
}

// ReadinessReport is the morning readiness view.
// Assessment is nil when there is no reading for the day or no baseline to
// compare it against.
type ReadinessReport struct {
	Today       *store.HealthLog
	Assessment  *analysis.Readiness
	BaselineRHR float64
	BaselineHRV float64
}

// SessionLoads returns the load of every session in the trailing window
// the status and fitness models look at, oldest first
func (q *QueryService) SessionLoads(ctx context.Context, ref time.Time) ([]analysis.LoadRecord, error) {
	days := q.fitnessWindow
	if days < analysis.ChronicWindowDays {
		days = analysis.ChronicWindowDays
	}
	return q.loadsBetween(ctx, ref.AddDate(0, 0, -(days-1)), ref)
}

func (q *QueryService) loadsBetween(ctx context.Context, from, to time.Time) ([]analysis.LoadRecord, error) {
	sessions, err := q.store.SessionsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}

	records := make([]analysis.LoadRecord, 0, len(sessions))
	for _, s := range sessions {
		load := analysis.ComputeLoad(s.Engine(), q.profile)
		records = append(records, analysis.LoadRecord{Date: s.StartTime, Load: load.Load, Focus: load.Focus})
	}
	return records, nil
}

// Status computes the training status on ref
func (q *QueryService) Status(ctx context.Context, ref time.Time) (*StatusReport, error) {
	history, err := q.loadsBetween(ctx, ref.AddDate(0, 0, -(2*analysis.ChronicWindowDays-1)), ref)
	if err != nil {
		return nil, err
	}
	return q.status(history, ref), nil
}

func (q *QueryService) status(history []analysis.LoadRecord, ref time.Time) *StatusReport {
	return &StatusReport{
		Snapshot: analysis.ComputeStatus(history, ref),
		Series:   analysis.StatusSeries(history, ref),
		Monotony: analysis.Monotony(history, ref),
	}
}

// Fitness computes the fitness/fatigue/form series ending on ref
func (q *QueryService) Fitness(ctx context.Context, ref time.Time) (*FitnessReport, error) {
	history, err := q.SessionLoads(ctx, ref)
	if err != nil {
		return nil, err
	}
	return q.fitness(history, ref), nil
}

func (q *QueryService) fitness(history []analysis.LoadRecord, ref time.Time) *FitnessReport {
	series := analysis.ComputeFitness(history, ref, q.fitnessWindow)
	return &FitnessReport{
		Series:  series,
		Summary: analysis.SummarizeFitness(series),
	}
}

// Readiness assesses the health log recorded on ref
func (q *QueryService) Readiness(ctx context.Context, ref time.Time) (*ReadinessReport, error) {
	logs, err := q.store.HealthLogsBetween(ctx, ref.AddDate(0, 0, -BaselineLookbackDays), ref)
	if err != nil {
		return nil, fmt.Errorf("loading health logs: %w", err)
	}

	history := make([]analysis.HealthEntry, 0, len(logs))
	report := &ReadinessReport{}
	refDay := analysis.Day(ref)
	for i := range logs {
		if logs[i].Date.Equal(refDay) {
			report.Today = &logs[i]
			continue
		}
		history = append(history, logs[i].Entry())
	}

	report.BaselineRHR, report.BaselineHRV = q.baseline(history, ref)
	if report.Today == nil || report.Today.RHR <= 0 {
		return report, nil
	}

	// Without a week of readings the fixed baseline is the only comparison
	if countReadings(history, refDay) < analysis.BaselineDays && report.BaselineRHR <= 0 {
		q.log.Debug().Str("day", refDay.Format(dateLayout)).Msg("no readiness baseline yet")
		return report, nil
	}

	r := analysis.AssessReadiness(report.Today.Entry(), history, report.BaselineRHR)
	report.Assessment = &r
	return report, nil
}

// baseline prefers the configured monthly averages over the rolling one
func (q *QueryService) baseline(history []analysis.HealthEntry, ref time.Time) (rhr, hrv float64) {
	rhr, hrv = analysis.RollingBaseline(history, ref, BaselineLookbackDays)
	if q.profile.MonthAvgRHR > 0 {
		rhr = q.profile.MonthAvgRHR
	}
	if q.profile.MonthAvgHRV > 0 {
		hrv = q.profile.MonthAvgHRV
	}
	return rhr, hrv
}

func countReadings(history []analysis.HealthEntry, before time.Time) int {
	var n int
	for _, h := range history {
		if h.RHR > 0 && analysis.Day(h.Date).Before(before) {
			n++
		}
	}
	return n
}

// ListSessions returns sessions newest first with their loads
func (q *QueryService) ListSessions(ctx context.Context, limit, offset int) ([]SessionView, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	sessions, err := q.store.ListSessions(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return q.sessionViews(ctx, sessions)
}

// Session returns one session with its load.
// Returns store.ErrSessionNotFound for an unknown id.
func (q *QueryService) Session(ctx context.Context, id string) (*SessionView, error) {
	s, err := q.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := q.sessionViews(ctx, []store.Session{*s})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (q *QueryService) sessionViews(ctx context.Context, sessions []store.Session) ([]SessionView, error) {
	views := make([]SessionView, len(sessions))
	for i, s := range sessions {
		vo2, err := q.vo2Max(ctx, s.StartTime)
		if err != nil {
			return nil, err
		}
		load := analysis.ComputeLoad(s.Engine(), q.profile)
		views[i] = SessionView{
			Session: s,
			Load:    load,
			Effect:  analysis.ComputeTrainingEffect(load.Load, vo2),
		}
	}
	return views, nil
}

// vo2Max returns the latest logged VO2max on or before day, falling back to
// the profile value
func (q *QueryService) vo2Max(ctx context.Context, day time.Time) (float64, error) {
	v, err := q.store.LatestVO2Max(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("loading vo2max: %w", err)
	}
	if v > 0 {
		return v, nil
	}
	return q.profile.VO2Max, nil
}

// HealthHistory returns the readings of the days days ending on ref, newest first
func (q *QueryService) HealthHistory(ctx context.Context, ref time.Time, days int) ([]store.HealthLog, error) {
	if days <= 0 {
		days = HealthHistoryDays
	}
	logs, err := q.store.HealthLogsBetween(ctx, ref.AddDate(0, 0, -(days-1)), ref)
	if err != nil {
		return nil, fmt.Errorf("loading health logs: %w", err)
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// CountSessions returns the number of stored sessions
func (q *QueryService) CountSessions(ctx context.Context) (int, error) {
	return q.store.CountSessions(ctx)
}
