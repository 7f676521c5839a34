package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// OAuth tokens per connected provider
		`CREATE TABLE IF NOT EXISTS credentials (
			provider TEXT PRIMARY KEY,
			athlete_id INTEGER NOT NULL DEFAULT 0,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			connected_at TEXT NOT NULL,
			refreshed_at TEXT NOT NULL
		)`,

		// Training sessions (manual entries and imports)
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			day TEXT NOT NULL,
			start_time TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			duration_minutes REAL NOT NULL,
			avg_hr INTEGER NOT NULL DEFAULT 0,
			rpe INTEGER NOT NULL DEFAULT 0,
			z1_minutes REAL NOT NULL DEFAULT 0,
			z2_minutes REAL NOT NULL DEFAULT 0,
			z3_minutes REAL NOT NULL DEFAULT 0,
			z4_minutes REAL NOT NULL DEFAULT 0,
			z5_minutes REAL NOT NULL DEFAULT 0,
			distance_km REAL NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT 'manual',
			external_id TEXT NOT NULL DEFAULT '',
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_day ON sessions(day)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_external
			ON sessions(source, external_id) WHERE external_id != ''`,

		// Morning health readings, one per day
		`CREATE TABLE IF NOT EXISTS health_logs (
			day TEXT PRIMARY KEY,
			rhr INTEGER NOT NULL,
			hrv REAL NOT NULL DEFAULT 0,
			sleep_hours REAL NOT NULL DEFAULT 0,
			vo2max REAL NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Newest imported activity start per source
		`CREATE TABLE IF NOT EXISTS sync_cursors (
			source TEXT PRIMARY KEY,
			synced_through TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
