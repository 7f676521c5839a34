package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"runlog/internal/analysis"
	"runlog/internal/store"
	"runlog/internal/strava"
)

// Sync phases
const (
	PhaseActivities = "activities"
	PhaseStreams    = "streams"
	PhaseDone       = "done"
)

// ActivitySource is the part of the Strava client the sync needs
type ActivitySource interface {
	GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error)
	GetHeartrateStream(ctx context.Context, activityID int64) (*strava.Streams, error)
	RateLimitStatus() (shortRemaining, dailyRemaining int)
}

// SyncService imports Strava activities as sessions
type SyncService struct {
	client  ActivitySource
	store   *store.DB
	profile analysis.UserProfile
	log     zerolog.Logger
	now     func() time.Time
}

// NewSyncService creates a sync service
func NewSyncService(client ActivitySource, db *store.DB, profile analysis.UserProfile, logger zerolog.Logger) *SyncService {
	return &SyncService{client: client, store: db, profile: profile, log: logger, now: time.Now}
}

// SyncProgress reports progress during a sync
type SyncProgress struct {
	Phase           string
	Total           int
	Completed       int
	CurrentActivity string
}

// SyncResult summarizes a sync run
type SyncResult struct {
	ActivitiesFetched int
	SessionsCreated   int
	SessionsUpdated   int
	StreamsFetched    int
	Errors            []error
}

// SyncAll fetches activities started since the last sync, converts their
// heart rate streams into zone minutes and upserts them as sessions.
// progress, if not nil, is closed when the sync returns.
func (s *SyncService) SyncAll(ctx context.Context, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}
	result := &SyncResult{}

	after := s.lastSync(ctx)
	s.log.Info().Time("after", after).Msg("strava sync started")

	report(ctx, progress, SyncProgress{Phase: PhaseActivities})
	activities, err := s.client.GetAllActivities(ctx, after, func(fetched int) {
		report(ctx, progress, SyncProgress{Phase: PhaseActivities, Total: fetched, Completed: fetched})
	})
	if err != nil {
		return result, fmt.Errorf("fetching activities: %w", err)
	}
	result.ActivitiesFetched = len(activities)

	// The cursor never passes an activity that failed, so the next sync
	// fetches it again.
	latest := after
	var oldestFailed time.Time
	fail := func(start time.Time) {
		if oldestFailed.IsZero() || start.Before(oldestFailed) {
			oldestFailed = start
		}
	}
	for i, a := range activities {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		report(ctx, progress, SyncProgress{
			Phase:           PhaseStreams,
			Total:           len(activities),
			Completed:       i,
			CurrentActivity: a.Name,
		})

		created, complete, err := s.syncActivity(ctx, a, result)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("activity %d (%s): %w", a.ID, a.Name, err))
			fail(a.StartDate)
			continue
		}
		if created {
			result.SessionsCreated++
		} else {
			result.SessionsUpdated++
		}
		if !complete {
			fail(a.StartDate)
		}
		if a.StartDate.After(latest) {
			latest = a.StartDate
		}
	}
	if !oldestFailed.IsZero() && !latest.Before(oldestFailed) {
		latest = oldestFailed.Add(-time.Second)
	}

	if latest.After(after) {
		if err := s.store.SetSyncedThrough(ctx, store.SourceStrava, latest); err != nil {
			return result, err
		}
	}

	report(ctx, progress, SyncProgress{Phase: PhaseDone, Total: len(activities), Completed: len(activities)})

	short, daily := s.client.RateLimitStatus()
	s.log.Info().
		Int("fetched", result.ActivitiesFetched).
		Int("created", result.SessionsCreated).
		Int("updated", result.SessionsUpdated).
		Int("errors", len(result.Errors)).
		Int("rate_short_remaining", short).
		Int("rate_daily_remaining", daily).
		Msg("strava sync finished")
	return result, nil
}

// syncActivity stores one activity. A failed stream download is recorded and
// the session keeps its average heart rate; complete is false so the activity
// is fetched again on the next sync.
func (s *SyncService) syncActivity(ctx context.Context, a strava.Activity, result *SyncResult) (created, complete bool, err error) {
	session := &store.Session{
		StartTime:       a.LocalStart(),
		Type:            a.SessionType(),
		Name:            a.Name,
		DurationMinutes: a.DurationMinutes(),
		AvgHR:           int(a.AverageHeartrate + 0.5),
		DistanceKm:      a.DistanceKm(),
		Source:          store.SourceStrava,
		ExternalID:      strconv.FormatInt(a.ID, 10),
	}

	complete = true
	if a.HasHeartrate {
		streams, err := s.client.GetHeartrateStream(ctx, a.ID)
		switch {
		case err != nil:
			complete = false
			s.log.Warn().Err(err).Int64("activity_id", a.ID).Msg("heart rate stream unavailable")
			result.Errors = append(result.Errors, fmt.Errorf("activity %d streams: %w", a.ID, err))
		case streams.HasHeartrate():
			session.ZoneMinutes = analysis.ZoneMinutesFromSamples(streams.Samples(), s.profile)
			result.StreamsFetched++
		}
	}

	created, err = s.store.UpsertExternalSession(ctx, session)
	return created, complete, err
}

// lastSync returns the start of the newest synced activity, or the lookback
// horizon on the first sync
func (s *SyncService) lastSync(ctx context.Context) time.Time {
	t, ok, err := s.store.SyncedThrough(ctx, store.SourceStrava)
	if err != nil {
		s.log.Warn().Err(err).Msg("ignoring unreadable sync cursor")
		ok = false
	}
	if !ok {
		return s.now().AddDate(0, 0, -SyncLookbackDays)
	}
	return t
}

// RateLimitStatus returns the remaining Strava requests
func (s *SyncService) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return s.client.RateLimitStatus()
}

func report(ctx context.Context, progress chan<- SyncProgress, p SyncProgress) {
	if progress == nil {
		return
	}
	select {
	case progress <- p:
	case <-ctx.Done():
	}
}
