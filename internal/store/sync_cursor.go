package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SyncedThrough returns the start time of the newest activity imported from
// source. ok is false before the first sync.
func (db *DB) SyncedThrough(ctx context.Context, source string) (t time.Time, ok bool, err error) {
	var v string
	err = db.QueryRowContext(ctx, `SELECT synced_through FROM sync_cursors WHERE source = ?`, source).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading sync cursor: %w", err)
	}

	t, err = time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing sync cursor %q: %w", v, err)
	}
	return t, true, nil
}

// SetSyncedThrough moves the sync cursor of source to t
func (db *DB) SetSyncedThrough(ctx context.Context, source string, t time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_cursors (source, synced_through, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(source) DO UPDATE SET
			synced_through = excluded.synced_through,
			updated_at = CURRENT_TIMESTAMP
	`, source, formatTime(t))
	if err != nil {
		return fmt.Errorf("saving sync cursor: %w", err)
	}
	return nil
}
