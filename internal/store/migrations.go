package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per presentation session
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			gesture_count INTEGER NOT NULL DEFAULT 0,
			avg_latency_ms REAL NOT NULL DEFAULT 0,
			current_slide INTEGER NOT NULL DEFAULT 0,
			total_slides INTEGER NOT NULL DEFAULT 0,
			is_fullscreen INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_activity DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		)`,

		// Gesture logs table - one row per fired gesture, for analytics
		`CREATE TABLE IF NOT EXISTS gesture_logs (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			gesture TEXT NOT NULL,
			confidence REAL NOT NULL DEFAULT 0,
			frame_count INTEGER NOT NULL DEFAULT 0,
			hand_x REAL,
			hand_y REAL,
			hand_z REAL,
			detection_time_ms REAL NOT NULL DEFAULT 0,
			fps REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for the analytics queries
		`CREATE INDEX IF NOT EXISTS idx_gesture_logs_session ON gesture_logs(session_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_gesture_logs_gesture ON gesture_logs(gesture, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
