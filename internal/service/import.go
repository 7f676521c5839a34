package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"runlog/internal/analysis"
	"runlog/internal/fitfile"
	"runlog/internal/store"
)

// ImportResult summarizes an import run
type ImportResult struct {
	Created int
	Updated int
	Errors  []error
}

// ImportService turns recorded activity files into sessions
type ImportService struct {
	store   *store.DB
	profile analysis.UserProfile
	loc     *time.Location
	log     zerolog.Logger
}

// NewImportService creates an import service. The profile's zones convert
// heart rate recordings into zone minutes and loc decides which calendar day
// a recording belongs to.
func NewImportService(db *store.DB, profile analysis.UserProfile, loc *time.Location, logger zerolog.Logger) *ImportService {
	if loc == nil {
		loc = time.Local
	}
	return &ImportService{store: db, profile: profile, loc: loc, log: logger}
}

// ImportFIT imports FIT activity files. A file that fails is recorded in the
// result and the rest are still imported.
func (s *ImportService) ImportFIT(ctx context.Context, paths []string) (*ImportResult, error) {
	result := &ImportResult{}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		activity, err := fitfile.Parse(path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("skipping fit file")
			result.Errors = append(result.Errors, err)
			continue
		}

		created, err := s.ImportActivity(ctx, activity)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errors", len(result.Errors)).
		Msg("fit import finished")
	return result, nil
}

// ImportActivity stores a decoded activity, replacing an earlier import of
// the same recording
func (s *ImportService) ImportActivity(ctx context.Context, a *fitfile.Activity) (bool, error) {
	start := a.StartTime.In(s.loc)
	session := &store.Session{
		StartTime:       start,
		Type:            a.Type,
		Name:            fmt.Sprintf("%s %s", a.Type, start.Format("Jan 2 15:04")),
		DurationMinutes: a.DurationMinutes,
		AvgHR:           a.AvgHR,
		DistanceKm:      a.DistanceKm,
		Source:          store.SourceFIT,
		ExternalID:      a.ExternalID,
	}
	if len(a.Samples) > 0 {
		session.ZoneMinutes = analysis.ZoneMinutesFromSamples(a.Samples, s.profile)
	}

	created, err := s.store.UpsertExternalSession(ctx, session)
	if err != nil {
		return false, fmt.Errorf("saving session: %w", err)
	}

	s.log.Debug().
		Str("external_id", a.ExternalID).
		Bool("created", created).
		Int("samples", len(a.Samples)).
		Msg("activity imported")
	return created, nil
}
