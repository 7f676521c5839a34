package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"runlog/internal/store"
	"runlog/internal/units"
	"runlog/internal/validation"
)

// SessionInput is a session as entered by the user
type SessionInput struct {
	Date        string     `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string     `json:"time" validate:"omitempty,datetime=15:04"`
	Type        string     `json:"type" validate:"required,oneof=Run Walk Ultimate Ride Gym Other"`
	Name        string     `json:"name" validate:"max=100"`
	Duration    string     `json:"duration" validate:"required"`
	AvgHR       int        `json:"avg_hr" validate:"gte=0,lte=250"`
	RPE         int        `json:"rpe" validate:"gte=0,lte=10"`
	ZoneMinutes [5]float64 `json:"zone_minutes" validate:"dive,gte=0"`
	DistanceKm  float64    `json:"distance_km" validate:"gte=0"`
	Notes       string     `json:"notes" validate:"max=2000"`
}

// HealthInput is a morning reading as entered by the user
type HealthInput struct {
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	RHR        int     `json:"rhr" validate:"required,gt=0,lte=150"`
	HRV        float64 `json:"hrv" validate:"gte=0,lte=300"`
	SleepHours float64 `json:"sleep_hours" validate:"gte=0,lte=24"`
	VO2Max     float64 `json:"vo2max" validate:"gte=0,lte=100"`
}

// EntryService validates and stores manually entered records
type EntryService struct {
	store *store.DB
	loc   *time.Location
	log   zerolog.Logger
}

// NewEntryService creates an entry service. Dates are interpreted in loc.
func NewEntryService(db *store.DB, loc *time.Location, logger zerolog.Logger) *EntryService {
	if loc == nil {
		loc = time.Local
	}
	return &EntryService{store: db, loc: loc, log: logger}
}

// LogSession validates and stores a new session
func (s *EntryService) LogSession(ctx context.Context, in SessionInput) (*store.Session, error) {
	session, err := s.buildSession(in)
	if err != nil {
		return nil, err
	}
	session.Source = store.SourceManual

	if err := s.store.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	s.log.Info().
		Str("id", session.ID).
		Str("day", session.Day()).
		Str("type", session.Type).
		Float64("minutes", session.DurationMinutes).
		Msg("session logged")
	return session, nil
}

// UpdateSession replaces the user-editable fields of an existing session
func (s *EntryService) UpdateSession(ctx context.Context, id string, in SessionInput) (*store.Session, error) {
	existing, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	session, err := s.buildSession(in)
	if err != nil {
		return nil, err
	}
	session.ID = existing.ID
	session.Source = existing.Source
	session.ExternalID = existing.ExternalID

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	s.log.Info().Str("id", id).Msg("session updated")
	return session, nil
}

// DeleteSession removes a session
func (s *EntryService) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("session deleted")
	return nil
}

// LogHealth stores the reading for a day, replacing any earlier one
func (s *EntryService) LogHealth(ctx context.Context, in HealthInput) (*store.HealthLog, error) {
	if errs := validation.Validate(in); len(errs) > 0 {
		return nil, newValidationError(errs...)
	}

	day, err := time.ParseInLocation(dateLayout, in.Date, time.UTC)
	if err != nil {
		return nil, newValidationError(validation.FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
	}

	h := &store.HealthLog{
		Date:       day,
		RHR:        in.RHR,
		HRV:        in.HRV,
		SleepHours: in.SleepHours,
		VO2Max:     in.VO2Max,
	}
	if err := s.store.UpsertHealthLog(ctx, h); err != nil {
		return nil, fmt.Errorf("saving health log: %w", err)
	}

	s.log.Info().Str("day", h.Day()).Int("rhr", h.RHR).Float64("hrv", h.HRV).Msg("health logged")
	return h, nil
}

// DeleteHealth removes the reading for a YYYY-MM-DD day
func (s *EntryService) DeleteHealth(ctx context.Context, date string) error {
	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return newValidationError(validation.FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if err := s.store.DeleteHealthLog(ctx, day); err != nil {
		return err
	}
	s.log.Info().Str("day", date).Msg("health log deleted")
	return nil
}

func (s *EntryService) buildSession(in SessionInput) (*store.Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Notes = strings.TrimSpace(in.Notes)

	errs := validation.Validate(in)

	minutes, err := units.ParseDuration(in.Duration)
	if in.Duration != "" && (err != nil || minutes <= 0) {
		errs = append(errs, validation.FieldError{Field: "duration", Message: "must be hh:mm:ss, mm:ss or minutes"})
	}
	if len(errs) > 0 {
		return nil, newValidationError(errs...)
	}

	clock := in.Time
	if clock == "" {
		clock = "00:00"
	}
	start, err := time.ParseInLocation(dateTimeLayout, in.Date+" "+clock, s.loc)
	if err != nil {
		return nil, newValidationError(validation.FieldError{Field: "date", Message: "is invalid"})
	}

	name := in.Name
	if name == "" {
		name = in.Type
	}

	return &store.Session{
		StartTime:       start,
		Type:            in.Type,
		Name:            name,
		DurationMinutes: minutes,
		AvgHR:           in.AvgHR,
		RPE:             in.RPE,
		ZoneMinutes:     in.ZoneMinutes,
		DistanceKm:      in.DistanceKm,
		Notes:           in.Notes,
	}, nil
}
