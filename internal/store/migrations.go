package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Videos table - the catalog of processed reference videos
		`CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			video_path TEXT NOT NULL,
			frames_path TEXT NOT NULL,
			angles_path TEXT NOT NULL,
			coord_space TEXT NOT NULL CHECK(coord_space IN ('world', 'pixel')),
			sample_hz REAL NOT NULL,
			alpha REAL NOT NULL,
			duration REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Session results table - one row per completed live scoring session
		`CREATE TABLE IF NOT EXISTS session_results (
			id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			frames_scored INTEGER NOT NULL,
			total_points INTEGER NOT NULL,
			mean_similarity REAL NOT NULL,
			started_at DATETIME NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_session_results_video_id ON session_results(video_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
