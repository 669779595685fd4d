package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Detections table - one row per labeled region
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			ts DATETIME NOT NULL,
			module TEXT NOT NULL,
			label TEXT NOT NULL,
			value REAL NOT NULL DEFAULT 0,
			area REAL NOT NULL DEFAULT 0,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0
		)`,

		// Violations table - safety (PPE) violations
		`CREATE TABLE IF NOT EXISTS violations (
			id TEXT PRIMARY KEY,
			ts DATETIME NOT NULL,
			kind TEXT NOT NULL,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0
		)`,

		// Alerts table - equipment and environmental alerts
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			ts DATETIME NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			value REAL NOT NULL DEFAULT 0
		)`,

		// Indexes for time-ordered queries
		`CREATE INDEX IF NOT EXISTS idx_detections_ts ON detections(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_module ON detections(module)`,
		`CREATE INDEX IF NOT EXISTS idx_violations_ts ON violations(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(ts)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
