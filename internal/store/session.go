package store

import (
	"database/sql"
	"errors"
	"time"
)

// SessionResult represents one completed live scoring session.
type SessionResult struct {
	ID             string
	VideoID        string
	FramesScored   int
	TotalPoints    int
	MeanSimilarity float64
	StartedAt      time.Time
	CreatedAt      time.Time
}

// SessionRepository provides access to recorded session results.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session-result repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create records a completed session.
func (r *SessionRepository) Create(sr *SessionResult) error {
	sr.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO session_results (id, video_id, frames_scored, total_points, mean_similarity, started_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sr.ID, sr.VideoID, sr.FramesScored, sr.TotalPoints, sr.MeanSimilarity, sr.StartedAt, sr.CreatedAt,
	)
	return err
}

// ListByVideo retrieves all session results for a video, newest first.
func (r *SessionRepository) ListByVideo(videoID string) ([]*SessionResult, error) {
	rows, err := r.db.Query(
		`SELECT id, video_id, frames_scored, total_points, mean_similarity, started_at, created_at
		 FROM session_results WHERE video_id = ? ORDER BY created_at DESC`,
		videoID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*SessionResult
	for rows.Next() {
		sr := &SessionResult{}
		err := rows.Scan(&sr.ID, &sr.VideoID, &sr.FramesScored, &sr.TotalPoints,
			&sr.MeanSimilarity, &sr.StartedAt, &sr.CreatedAt)
		if err != nil {
			return nil, err
		}
		results = append(results, sr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Best returns the highest-scoring session for a video.
func (r *SessionRepository) Best(videoID string) (*SessionResult, error) {
	sr := &SessionResult{}
	err := r.db.QueryRow(
		`SELECT id, video_id, frames_scored, total_points, mean_similarity, started_at, created_at
		 FROM session_results WHERE video_id = ? ORDER BY total_points DESC LIMIT 1`,
		videoID,
	).Scan(&sr.ID, &sr.VideoID, &sr.FramesScored, &sr.TotalPoints,
		&sr.MeanSimilarity, &sr.StartedAt, &sr.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sr, nil
}
