package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(start time.Time, minutes float64) *Session {
	return &Session{
		StartTime:       start,
		Type:            TypeRun,
		Name:            "Easy run",
		DurationMinutes: minutes,
		AvgHR:           142,
		ZoneMinutes:     [5]float64{5, 30, 5, 0, 0},
		DistanceKm:      8.2,
	}
}

func TestInsertAndGetSession(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)

	s := newSession(start, 40)
	require.NoError(t, db.InsertSession(ctx, s))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, SourceManual, s.Source)

	got, err := db.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, start.Equal(got.StartTime))
	assert.Equal(t, s.ZoneMinutes, got.ZoneMinutes)
	assert.Equal(t, 142, got.AvgHR)
	assert.Equal(t, 8.2, got.DistanceKm)
	assert.Equal(t, "Easy run", got.Name)
}

func TestGetSessionNotFound(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.GetSession(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionKeepsLocalDay(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	loc := time.FixedZone("UTC+8", 8*3600)
	// 23:30 local is the previous day in UTC
	start := time.Date(2024, 1, 15, 23, 30, 0, 0, loc)

	s := newSession(start, 30)
	require.NoError(t, db.InsertSession(ctx, s))

	got, err := db.SessionsBetween(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-15", got[0].Day())
}

func TestUpdateSession(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	s := newSession(time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC), 40)
	require.NoError(t, db.InsertSession(ctx, s))

	s.RPE = 6
	s.Notes = "windy"
	s.StartTime = s.StartTime.AddDate(0, 0, 1)
	require.NoError(t, db.UpdateSession(ctx, s))

	got, err := db.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.RPE)
	assert.Equal(t, "windy", got.Notes)
	assert.Equal(t, "2024-01-16", got.Day())

	missing := newSession(time.Now(), 10)
	missing.ID = "nope"
	assert.ErrorIs(t, db.UpdateSession(ctx, missing), ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	s := newSession(time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC), 40)
	require.NoError(t, db.InsertSession(ctx, s))

	require.NoError(t, db.DeleteSession(ctx, s.ID))
	assert.ErrorIs(t, db.DeleteSession(ctx, s.ID), ErrSessionNotFound)

	count, err := db.CountSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListSessionsAndBetween(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.InsertSession(ctx, newSession(base.AddDate(0, 0, i), float64(30+i))))
	}

	list, err := db.ListSessions(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-05", list[0].Day())
	assert.Equal(t, "2024-01-04", list[1].Day())

	page, err := db.ListSessions(ctx, 10, 3)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	between, err := db.SessionsBetween(ctx, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, between, 3)
	assert.Equal(t, "2024-01-02", between[0].Day())
	assert.Equal(t, "2024-01-04", between[2].Day())
}

func TestUpsertExternalSession(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	s := newSession(time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC), 40)
	s.Source = SourceStrava
	s.ExternalID = "987"

	created, err := db.UpsertExternalSession(ctx, s)
	require.NoError(t, err)
	assert.True(t, created)
	firstID := s.ID

	// annotate manually, then re-import with new numbers
	s.RPE = 7
	s.Notes = "felt strong"
	require.NoError(t, db.UpdateSession(ctx, s))

	again := newSession(s.StartTime, 42)
	again.Source = SourceStrava
	again.ExternalID = "987"
	created, err = db.UpsertExternalSession(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, firstID, again.ID)

	got, err := db.GetSessionByExternalID(ctx, SourceStrava, "987")
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.DurationMinutes)
	assert.Equal(t, 7, got.RPE)
	assert.Equal(t, "felt strong", got.Notes)

	count, err := db.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertExternalSessionRequiresID(t *testing.T) {
	db := NewTestDB(t)

	_, err := db.UpsertExternalSession(context.Background(), newSession(time.Now(), 30))

	assert.Error(t, err)
}

func TestExternalIDUniquePerSource(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	a := newSession(time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC), 40)
	a.Source, a.ExternalID = SourceStrava, "1"
	require.NoError(t, db.InsertSession(ctx, a))

	b := newSession(a.StartTime, 40)
	b.Source, b.ExternalID = SourceFIT, "1"
	require.NoError(t, db.InsertSession(ctx, b))

	c := newSession(a.StartTime, 40)
	c.Source, c.ExternalID = SourceStrava, "1"
	assert.Error(t, db.InsertSession(ctx, c))

	// manual sessions have no external id and never collide
	require.NoError(t, db.InsertSession(ctx, newSession(a.StartTime, 20)))
	require.NoError(t, db.InsertSession(ctx, newSession(a.StartTime, 25)))
}
