package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"runlog/internal/analysis"
	"runlog/internal/store"
)

var refDay = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return refDay.AddDate(0, 0, offset)
}

func testProfile() analysis.UserProfile {
	return analysis.UserProfile{
		RestingHR: 60,
		MaxHR:     190,
		VO2Max:    50,
		Gender:    analysis.GenderMale,
	}
}

// rpeSession stores a session whose load is minutes * rpe * 0.3
func rpeSession(t *testing.T, db *store.DB, start time.Time, minutes float64, rpe int) *store.Session {
	t.Helper()
	s := &store.Session{
		StartTime:       start,
		Type:            store.TypeRun,
		Name:            "Run",
		DurationMinutes: minutes,
		RPE:             rpe,
	}
	require.NoError(t, db.InsertSession(context.Background(), s))
	return s
}

func healthLog(t *testing.T, db *store.DB, date time.Time, rhr int, hrv float64) {
	t.Helper()
	require.NoError(t, db.UpsertHealthLog(context.Background(), &store.HealthLog{Date: date, RHR: rhr, HRV: hrv}))
}

func newQueryService(db *store.DB, p analysis.UserProfile) *QueryService {
	return NewQueryService(db, p, 0, zerolog.Nop())
}
