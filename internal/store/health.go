package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertHealthLog stores the reading for its day, replacing any earlier one
func (db *DB) UpsertHealthLog(ctx context.Context, h *HealthLog) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO health_logs (day, rhr, hrv, sleep_hours, vo2max, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(day) DO UPDATE SET
			rhr = excluded.rhr,
			hrv = excluded.hrv,
			sleep_hours = excluded.sleep_hours,
			vo2max = excluded.vo2max,
			updated_at = CURRENT_TIMESTAMP
	`, h.Day(), h.RHR, h.HRV, h.SleepHours, h.VO2Max)
	if err != nil {
		return fmt.Errorf("saving health log: %w", err)
	}
	return nil
}

// GetHealthLog retrieves the reading for a calendar day
func (db *DB) GetHealthLog(ctx context.Context, day time.Time) (*HealthLog, error) {
	row := db.QueryRowContext(ctx, `
		SELECT day, rhr, hrv, sleep_hours, vo2max
		FROM health_logs
		WHERE day = ?
	`, day.Format(dayLayout))

	h, err := scanHealthLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHealthLogNotFound
	}
	return h, err
}

// DeleteHealthLog removes the reading for a calendar day
func (db *DB) DeleteHealthLog(ctx context.Context, day time.Time) error {
	result, err := db.ExecContext(ctx, `DELETE FROM health_logs WHERE day = ?`, day.Format(dayLayout))
	if err != nil {
		return fmt.Errorf("deleting health log: %w", err)
	}
	return expectRow(result, ErrHealthLogNotFound)
}

// HealthLogsBetween returns readings for days in [from, to], oldest first
func (db *DB) HealthLogsBetween(ctx context.Context, from, to time.Time) ([]HealthLog, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT day, rhr, hrv, sleep_hours, vo2max
		FROM health_logs
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC
	`, from.Format(dayLayout), to.Format(dayLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []HealthLog
	for rows.Next() {
		h, err := scanHealthLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *h)
	}
	return logs, rows.Err()
}

// LatestVO2Max returns the most recent recorded VO2max on or before day, or 0
func (db *DB) LatestVO2Max(ctx context.Context, day time.Time) (float64, error) {
	var v float64
	err := db.QueryRowContext(ctx, `
		SELECT vo2max FROM health_logs
		WHERE vo2max > 0 AND day <= ?
		ORDER BY day DESC
		LIMIT 1
	`, day.Format(dayLayout)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return v, err
}

func scanHealthLog(row rowScanner) (*HealthLog, error) {
	var h HealthLog
	var day string
	if err := row.Scan(&day, &h.RHR, &h.HRV, &h.SleepHours, &h.VO2Max); err != nil {
		return nil, err
	}

	var err error
	h.Date, err = time.Parse(dayLayout, day)
	if err != nil {
		return nil, fmt.Errorf("parsing day %q: %w", day, err)
	}
	return &h, nil
}
