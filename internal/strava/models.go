package strava

import (
	"strings"
	"time"

	"runlog/internal/analysis"
	"runlog/internal/store"
)

// Activity is the summary of a Strava activity as returned by /athlete/activities
type Activity struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	SportType        string    `json:"sport_type"`
	StartDate        time.Time `json:"start_date"`
	StartDateLocal   time.Time `json:"start_date_local"`
	Timezone         string    `json:"timezone"`
	Distance         float64   `json:"distance"`     // meters
	MovingTime       int       `json:"moving_time"`  // seconds
	ElapsedTime      int       `json:"elapsed_time"` // seconds
	AverageHeartrate float64   `json:"average_heartrate"`
	MaxHeartrate     float64   `json:"max_heartrate"`
	HasHeartrate     bool      `json:"has_heartrate"`
}

// DurationMinutes returns the moving time, falling back to elapsed time
func (a Activity) DurationMinutes() float64 {
	secs := a.MovingTime
	if secs <= 0 {
		secs = a.ElapsedTime
	}
	return float64(secs) / 60
}

// DistanceKm returns the distance in kilometers
func (a Activity) DistanceKm() float64 {
	return a.Distance / 1000
}

// LocalStart returns the start time in the activity's own timezone.
// Strava formats the zone as "(GMT-08:00) America/Los_Angeles"; when it
// cannot be loaded the local wall clock is returned as UTC.
func (a Activity) LocalStart() time.Time {
	name := a.Timezone
	if i := strings.LastIndex(name, ") "); i >= 0 {
		name = name[i+2:]
	}
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return a.StartDate.In(loc)
		}
	}
	if !a.StartDateLocal.IsZero() {
		return a.StartDateLocal
	}
	return a.StartDate
}

// SessionType maps the Strava sport to a session type
func (a Activity) SessionType() string {
	sport := a.SportType
	if sport == "" {
		sport = a.Type
	}
	switch sport {
	case "Run", "TrailRun", "VirtualRun":
		return store.TypeRun
	case "Walk", "Hike":
		return store.TypeWalk
	case "Ride", "VirtualRide", "GravelRide", "MountainBikeRide", "EBikeRide":
		return store.TypeRide
	case "WeightTraining", "Crossfit", "Workout", "HighIntensityIntervalTraining":
		return store.TypeGym
	case "Soccer":
		return store.TypeUltimate
	default:
		return store.TypeOther
	}
}

// Streams holds the time and heart rate streams of an activity.
// Strava returns streams keyed by type when key_by_type=true.
type Streams struct {
	Time      *StreamData[int] `json:"time"`
	Heartrate *StreamData[int] `json:"heartrate"`
}

// StreamData is a single stream
type StreamData[T any] struct {
	Data         []T    `json:"data"`
	SeriesType   string `json:"series_type"`
	OriginalSize int    `json:"original_size"`
	Resolution   string `json:"resolution"`
}

// HasHeartrate reports whether heart rate data is present
func (s *Streams) HasHeartrate() bool {
	return s != nil && s.Heartrate != nil && len(s.Heartrate.Data) > 0
}

// Samples pairs the heart rate stream with its time offsets.
// Returns nil when the streams are missing or misaligned.
func (s *Streams) Samples() []analysis.HRSample {
	if !s.HasHeartrate() || s.Time == nil {
		return nil
	}
	n := len(s.Heartrate.Data)
	if len(s.Time.Data) < n {
		n = len(s.Time.Data)
	}

	samples := make([]analysis.HRSample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, analysis.HRSample{
			Offset: time.Duration(s.Time.Data[i]) * time.Second,
			HR:     s.Heartrate.Data[i],
		})
	}
	return samples
}
