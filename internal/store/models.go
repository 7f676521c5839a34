package store

import (
	"time"

	"runlog/internal/analysis"
)

const dayLayout = "2006-01-02"

// Session types
const (
	TypeRun      = "Run"
	TypeWalk     = "Walk"
	TypeUltimate = "Ultimate"
	TypeRide     = "Ride"
	TypeGym      = "Gym"
	TypeOther    = "Other"
)

// SessionTypes lists the accepted session types
var SessionTypes = []string{TypeRun, TypeWalk, TypeUltimate, TypeRide, TypeGym, TypeOther}

// Session sources
const (
	SourceManual = "manual"
	SourceFIT    = "fit"
	SourceStrava = "strava"
)

// Auth holds the OAuth tokens of a connected provider account
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
	ConnectedAt  time.Time `db:"connected_at"` // set by SaveAuth
	RefreshedAt  time.Time `db:"refreshed_at"` // last token change
}

// Session is one stored training session
type Session struct {
	ID              string     `db:"id"`
	StartTime       time.Time  `db:"start_time"`
	Type            string     `db:"type"`
	Name            string     `db:"name"`
	DurationMinutes float64    `db:"duration_minutes"`
	AvgHR           int        `db:"avg_hr"` // 0 = unknown
	RPE             int        `db:"rpe"`    // 0 = absent
	ZoneMinutes     [5]float64 `db:"-"`
	DistanceKm      float64    `db:"distance_km"`
	Notes           string     `db:"notes"`
	Source          string     `db:"source"`
	ExternalID      string     `db:"external_id"` // dedupe key for imports
}

// Day returns the session's calendar day (YYYY-MM-DD) in its own timezone
func (s Session) Day() string {
	return s.StartTime.Format(dayLayout)
}

// Engine converts the session to the analysis input
func (s Session) Engine() analysis.Session {
	return analysis.Session{
		Date:            s.StartTime,
		DurationMinutes: s.DurationMinutes,
		AvgHR:           s.AvgHR,
		RPE:             s.RPE,
		ZoneMinutes:     s.ZoneMinutes,
	}
}

// HealthLog is one morning reading
type HealthLog struct {
	Date       time.Time `db:"day"`
	RHR        int       `db:"rhr"`
	HRV        float64   `db:"hrv"`         // ms, 0 = not measured
	SleepHours float64   `db:"sleep_hours"` // 0 = not recorded
	VO2Max     float64   `db:"vo2max"`      // 0 = not recorded
}

// Day returns the log's calendar day (YYYY-MM-DD)
func (h HealthLog) Day() string {
	return h.Date.Format(dayLayout)
}

// Entry converts the log to the analysis input
func (h HealthLog) Entry() analysis.HealthEntry {
	return analysis.HealthEntry{
		Date:       h.Date,
		RHR:        h.RHR,
		HRV:        h.HRV,
		SleepHours: h.SleepHours,
	}
}
