package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runlog/internal/store"
	"runlog/internal/validation"
)

func validSession() SessionInput {
	return SessionInput{
		Date:        "2024-03-01",
		Time:        "07:30",
		Type:        store.TypeRun,
		Duration:    "45:00",
		AvgHR:       145,
		ZoneMinutes: [5]float64{5, 30, 10, 0, 0},
		DistanceKm:  8.5,
		Notes:       "  easy  ",
	}
}

func fieldNames(err error) []string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestLogSession(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewEntryService(db, time.UTC, zerolog.Nop())
	ctx := context.Background()

	s, err := svc.LogSession(ctx, validSession())

	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, store.SourceManual, s.Source)
	assert.Equal(t, "Run", s.Name)
	assert.Equal(t, "easy", s.Notes)
	assert.InDelta(t, 45.0, s.DurationMinutes, 1e-9)
	assert.True(t, time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC).Equal(s.StartTime))

	stored, err := db.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, [5]float64{5, 30, 10, 0, 0}, stored.ZoneMinutes)
	assert.Equal(t, "2024-03-01", stored.Day())
}

func TestLogSessionDefaultsToMidnightInLocation(t *testing.T) {
	db := store.NewTestDB(t)
	loc := time.FixedZone("UTC-5", -5*3600)
	svc := NewEntryService(db, loc, zerolog.Nop())
	in := validSession()
	in.Time = ""
	in.Duration = "1:05:30"

	s, err := svc.LogSession(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", s.Day())
	assert.Equal(t, 0, s.StartTime.Hour())
	assert.InDelta(t, 65.5, s.DurationMinutes, 1e-9)
}

func TestLogSessionValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SessionInput)
		fields []string
	}{
		{name: "missing type", modify: func(in *SessionInput) { in.Type = "" }, fields: []string{"type"}},
		{name: "unknown type", modify: func(in *SessionInput) { in.Type = "Swim" }, fields: []string{"type"}},
		{name: "bad date", modify: func(in *SessionInput) { in.Date = "2024-13-01" }, fields: []string{"date"}},
		{name: "bad time", modify: func(in *SessionInput) { in.Time = "7am" }, fields: []string{"time"}},
		{name: "rpe out of range", modify: func(in *SessionInput) { in.RPE = 11 }, fields: []string{"rpe"}},
		{name: "negative hr", modify: func(in *SessionInput) { in.AvgHR = -1 }, fields: []string{"avg_hr"}},
		{name: "unparseable duration", modify: func(in *SessionInput) { in.Duration = "abc" }, fields: []string{"duration"}},
		{name: "zero duration", modify: func(in *SessionInput) { in.Duration = "0" }, fields: []string{"duration"}},
		{name: "missing duration", modify: func(in *SessionInput) { in.Duration = "" }, fields: []string{"duration"}},
		{
			name:   "several fields",
			modify: func(in *SessionInput) { in.Type = ""; in.RPE = 12 },
			fields: []string{"type", "rpe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := store.NewTestDB(t)
			svc := NewEntryService(db, time.UTC, zerolog.Nop())
			in := validSession()
			tt.modify(&in)

			_, err := svc.LogSession(context.Background(), in)

			require.ErrorIs(t, err, ErrValidation)
			assert.ElementsMatch(t, tt.fields, fieldNames(err))

			count, err := db.CountSessions(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestUpdateSessionKeepsImportIdentity(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewEntryService(db, time.UTC, zerolog.Nop())
	ctx := context.Background()

	imported := &store.Session{
		StartTime:       time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC),
		Type:            store.TypeRun,
		DurationMinutes: 40,
		Source:          store.SourceStrava,
		ExternalID:      "123",
	}
	require.NoError(t, db.InsertSession(ctx, imported))

	in := validSession()
	in.RPE = 7
	updated, err := svc.UpdateSession(ctx, imported.ID, in)

	require.NoError(t, err)
	assert.Equal(t, imported.ID, updated.ID)

	stored, err := db.GetSession(ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, store.SourceStrava, stored.Source)
	assert.Equal(t, "123", stored.ExternalID)
	assert.Equal(t, 7, stored.RPE)
	assert.InDelta(t, 45.0, stored.DurationMinutes, 1e-9)
}

func TestUpdateSessionNotFound(t *testing.T) {
	svc := NewEntryService(store.NewTestDB(t), time.UTC, zerolog.Nop())

	_, err := svc.UpdateSession(context.Background(), "missing", validSession())

	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewEntryService(db, time.UTC, zerolog.Nop())
	ctx := context.Background()

	s, err := svc.LogSession(ctx, validSession())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, s.ID))
	assert.ErrorIs(t, svc.DeleteSession(ctx, s.ID), store.ErrSessionNotFound)
}

func TestLogHealth(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewEntryService(db, time.UTC, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.LogHealth(ctx, HealthInput{Date: "2024-03-01", RHR: 52, HRV: 61, SleepHours: 7.5})
	require.NoError(t, err)

	// same day replaces the reading
	h, err := svc.LogHealth(ctx, HealthInput{Date: "2024-03-01", RHR: 55})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", h.Day())

	stored, err := db.GetHealthLog(ctx, refDay)
	require.NoError(t, err)
	assert.Equal(t, 55, stored.RHR)
	assert.Zero(t, stored.HRV)
}

func TestLogHealthValidation(t *testing.T) {
	tests := []struct {
		name   string
		in     HealthInput
		fields []string
	}{
		{name: "missing rhr", in: HealthInput{Date: "2024-03-01"}, fields: []string{"rhr"}},
		{name: "bad date", in: HealthInput{Date: "03/01/2024", RHR: 50}, fields: []string{"date"}},
		{name: "negative hrv", in: HealthInput{Date: "2024-03-01", RHR: 50, HRV: -3}, fields: []string{"hrv"}},
		{name: "too much sleep", in: HealthInput{Date: "2024-03-01", RHR: 50, SleepHours: 25}, fields: []string{"sleep_hours"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewEntryService(store.NewTestDB(t), time.UTC, zerolog.Nop())

			_, err := svc.LogHealth(context.Background(), tt.in)

			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.fields, fieldNames(err))
		})
	}
}

func TestDeleteHealth(t *testing.T) {
	db := store.NewTestDB(t)
	svc := NewEntryService(db, time.UTC, zerolog.Nop())
	ctx := context.Background()
	healthLog(t, db, refDay, 50, 60)

	require.NoError(t, svc.DeleteHealth(ctx, "2024-03-01"))
	assert.ErrorIs(t, svc.DeleteHealth(ctx, "2024-03-01"), store.ErrHealthLogNotFound)
	assert.ErrorIs(t, svc.DeleteHealth(ctx, "yesterday"), ErrValidation)
}

func TestValidationErrorMessage(t *testing.T) {
	err := newValidationError(
		validation.FieldError{Field: "rpe", Message: "must be at most 10"},
		validation.FieldError{Field: "type", Message: "is required"},
	)

	assert.Equal(t, "validation failed: rpe must be at most 10; type is required", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))
}
