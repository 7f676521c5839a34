package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoAuth is returned when no Strava account is connected
var ErrNoAuth = errors.New("no authentication stored")

// ProviderStrava keys the Strava tokens in the credentials table
const ProviderStrava = "strava"

// GetAuth returns the stored Strava tokens
func (db *DB) GetAuth(ctx context.Context) (*Auth, error) {
	row := db.QueryRowContext(ctx, `
		SELECT athlete_id, access_token, refresh_token, expires_at, connected_at, refreshed_at
		FROM credentials
		WHERE provider = ?
	`, ProviderStrava)

	var a Auth
	var expires, connected, refreshed string
	err := row.Scan(&a.AthleteID, &a.AccessToken, &a.RefreshToken, &expires, &connected, &refreshed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	for _, f := range []struct {
		dst *time.Time
		src string
	}{{&a.ExpiresAt, expires}, {&a.ConnectedAt, connected}, {&a.RefreshedAt, refreshed}} {
		if *f.dst, err = time.Parse(time.RFC3339, f.src); err != nil {
			return nil, fmt.Errorf("parsing credential timestamp %q: %w", f.src, err)
		}
	}
	return &a, nil
}

// SaveAuth connects a Strava account, replacing any previous one
func (db *DB) SaveAuth(ctx context.Context, a *Auth) error {
	now := formatTime(time.Now())
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (provider, athlete_id, access_token, refresh_token, expires_at, connected_at, refreshed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			connected_at = excluded.connected_at,
			refreshed_at = excluded.refreshed_at
	`, ProviderStrava, a.AthleteID, a.AccessToken, a.RefreshToken, formatTime(a.ExpiresAt), now, now)
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// UpdateTokens stores a refreshed token pair for the connected account
func (db *DB) UpdateTokens(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) error {
	result, err := db.ExecContext(ctx, `
		UPDATE credentials
		SET access_token = ?, refresh_token = ?, expires_at = ?, refreshed_at = ?
		WHERE provider = ?
	`, accessToken, refreshToken, formatTime(expiresAt), formatTime(time.Now()), ProviderStrava)
	if err != nil {
		return fmt.Errorf("updating tokens: %w", err)
	}
	return expectRow(result, ErrNoAuth)
}

// DeleteAuth disconnects the Strava account
func (db *DB) DeleteAuth(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM credentials WHERE provider = ?`, ProviderStrava)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
