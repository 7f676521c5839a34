package fitfile

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"runlog/internal/store"
)

func TestFromActivityFile(t *testing.T) {
	start := time.Date(2024, 5, 4, 6, 0, 0, 0, time.UTC)
	af := &fit.ActivityFile{
		Sessions: []*fit.SessionMsg{{
			StartTime:      start,
			Sport:          fit.SportRunning,
			TotalTimerTime: 45 * 60 * 1000,
			TotalDistance:  850000,
			AvgHeartRate:   invalidHR,
		}},
		Records: []*fit.RecordMsg{
			{Timestamp: start, HeartRate: 140},
			{Timestamp: start.Add(time.Second), HeartRate: invalidHR},
			{Timestamp: start.Add(2 * time.Second), HeartRate: 150},
			{Timestamp: start.Add(3 * time.Second), HeartRate: 0},
		},
	}

	a, err := fromActivityFile(af)

	require.NoError(t, err)
	assert.Equal(t, "2024-05-04T06:00:00Z", a.ExternalID)
	assert.Equal(t, store.TypeRun, a.Type)
	assert.InDelta(t, 45.0, a.DurationMinutes, 1e-9)
	assert.InDelta(t, 8.5, a.DistanceKm, 1e-9)
	require.Len(t, a.Samples, 2)
	assert.Equal(t, 2*time.Second, a.Samples[1].Offset)
	// session average missing, taken from samples
	assert.Equal(t, 145, a.AvgHR)
}

func TestFromActivityFileSessionAverage(t *testing.T) {
	af := &fit.ActivityFile{
		Sessions: []*fit.SessionMsg{{
			StartTime:    time.Date(2024, 5, 4, 6, 0, 0, 0, time.UTC),
			Sport:        fit.SportCycling,
			AvgHeartRate: 128,
		}},
	}

	a, err := fromActivityFile(af)

	require.NoError(t, err)
	assert.Equal(t, 128, a.AvgHR)
	assert.Equal(t, store.TypeRide, a.Type)
	assert.Empty(t, a.Samples)
}

func TestFromActivityFileNoSession(t *testing.T) {
	_, err := fromActivityFile(&fit.ActivityFile{})

	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a fit file")))

	assert.Error(t, err)
}

func TestSessionType(t *testing.T) {
	tests := []struct {
		sport    fit.Sport
		expected string
	}{
		{fit.SportRunning, store.TypeRun},
		{fit.SportWalking, store.TypeWalk},
		{fit.SportHiking, store.TypeWalk},
		{fit.SportCycling, store.TypeRide},
		{fit.SportTraining, store.TypeGym},
		{fit.SportSwimming, store.TypeOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sessionType(tt.sport))
	}
}
