package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sessionColumns = `id, start_time, type, name, duration_minutes, avg_hr, rpe,
	z1_minutes, z2_minutes, z3_minutes, z4_minutes, z5_minutes,
	distance_km, notes, source, external_id`

// InsertSession stores a new session, assigning an ID when empty
func (db *DB) InsertSession(ctx context.Context, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Source == "" {
		s.Source = SourceManual
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`, day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionArgs(s)...)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// UpdateSession overwrites an existing session
func (db *DB) UpdateSession(ctx context.Context, s *Session) error {
	result, err := db.ExecContext(ctx, `
		UPDATE sessions SET
			start_time = ?, type = ?, name = ?, duration_minutes = ?, avg_hr = ?, rpe = ?,
			z1_minutes = ?, z2_minutes = ?, z3_minutes = ?, z4_minutes = ?, z5_minutes = ?,
			distance_km = ?, notes = ?, source = ?, external_id = ?, day = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, append(sessionArgs(s)[1:], s.ID)...)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	return expectRow(result, ErrSessionNotFound)
}

// DeleteSession removes a session by ID
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return expectRow(result, ErrSessionNotFound)
}

// GetSession retrieves a session by ID
func (db *DB) GetSession(ctx context.Context, id string) (*Session, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = ?
	`, id)
	return scanSession(row)
}

// GetSessionByExternalID finds an imported session by its source and external ID
func (db *DB) GetSessionByExternalID(ctx context.Context, source, externalID string) (*Session, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE source = ? AND external_id = ?
	`, source, externalID)
	return scanSession(row)
}

// UpsertExternalSession inserts an imported session or updates the one with
// the same source and external ID, keeping its ID. Reports whether a new row
// was created.
func (db *DB) UpsertExternalSession(ctx context.Context, s *Session) (created bool, err error) {
	if s.ExternalID == "" {
		return false, errors.New("upserting session: external id is required")
	}

	existing, err := db.GetSessionByExternalID(ctx, s.Source, s.ExternalID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		s.ID = ""
		return true, db.InsertSession(ctx, s)
	case err != nil:
		return false, err
	}

	s.ID = existing.ID
	// manual annotations survive a re-import
	if s.RPE == 0 {
		s.RPE = existing.RPE
	}
	if s.Notes == "" {
		s.Notes = existing.Notes
	}
	return false, db.UpdateSession(ctx, s)
}

// ListSessions returns sessions ordered by start time descending
func (db *DB) ListSessions(ctx context.Context, limit, offset int) ([]Session, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		ORDER BY day DESC, start_time DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// SessionsBetween returns sessions whose calendar day lies in [from, to], oldest first
func (db *DB) SessionsBetween(ctx context.Context, from, to time.Time) ([]Session, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC, start_time ASC
	`, from.Format(dayLayout), to.Format(dayLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// CountSessions returns the total number of sessions
func (db *DB) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}

func sessionArgs(s *Session) []interface{} {
	z := s.ZoneMinutes
	return []interface{}{
		s.ID, s.StartTime.Format(time.RFC3339), s.Type, s.Name, s.DurationMinutes, s.AvgHR, s.RPE,
		z[0], z[1], z[2], z[3], z[4],
		s.DistanceKm, s.Notes, s.Source, s.ExternalID, s.Day(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSessionRow(row rowScanner) (*Session, error) {
	var s Session
	var startTime string
	z := &s.ZoneMinutes

	err := row.Scan(
		&s.ID, &startTime, &s.Type, &s.Name, &s.DurationMinutes, &s.AvgHR, &s.RPE,
		&z[0], &z[1], &z[2], &z[3], &z[4],
		&s.DistanceKm, &s.Notes, &s.Source, &s.ExternalID,
	)
	if err != nil {
		return nil, err
	}

	s.StartTime, err = time.Parse(time.RFC3339, startTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time %q: %w", startTime, err)
	}
	return &s, nil
}

// scanSession scans a single session from a row
func scanSession(row *sql.Row) (*Session, error) {
	s, err := scanSessionRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

// scanSessions scans multiple sessions from rows
func scanSessions(rows *sql.Rows) ([]Session, error) {
	var sessions []Session
	for rows.Next() {
		s, err := scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// expectRow maps a write that touched no rows to notFound
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
