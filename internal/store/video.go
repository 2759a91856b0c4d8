package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/natya/internal/pose"
)

// Video represents a processed reference video stored in the catalog,
// together with the paths of its persisted timeline files.
type Video struct {
	ID         string
	Name       string
	VideoPath  string
	FramesPath string
	AnglesPath string
	CoordSpace pose.CoordSpace
	SampleHz   float64
	Alpha      float64
	Duration   float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// VideoRepository provides CRUD operations for the video catalog.
type VideoRepository struct {
	db *sql.DB
}

// Videos returns the video repository for this store.
func (s *Store) Videos() *VideoRepository {
	return &VideoRepository{db: s.db}
}

// Create inserts a new video into the catalog.
func (r *VideoRepository) Create(v *Video) error {
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO videos (id, name, video_path, frames_path, angles_path, coord_space, sample_hz, alpha, duration, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.VideoPath, v.FramesPath, v.AnglesPath, string(v.CoordSpace),
		v.SampleHz, v.Alpha, v.Duration, v.CreatedAt, v.UpdatedAt,
	)
	return err
}

func scanVideo(scan func(dest ...any) error) (*Video, error) {
	v := &Video{}
	var space string

	err := scan(&v.ID, &v.Name, &v.VideoPath, &v.FramesPath, &v.AnglesPath, &space,
		&v.SampleHz, &v.Alpha, &v.Duration, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	v.CoordSpace = pose.CoordSpace(space)
	return v, nil
}

const videoColumns = `id, name, video_path, frames_path, angles_path, coord_space, sample_hz, alpha, duration, created_at, updated_at`

// GetByID retrieves a video by its ID.
func (r *VideoRepository) GetByID(id string) (*Video, error) {
	row := r.db.QueryRow(`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	return scanVideo(row.Scan)
}

// GetByName retrieves a video by its name.
func (r *VideoRepository) GetByName(name string) (*Video, error) {
	row := r.db.QueryRow(`SELECT `+videoColumns+` FROM videos WHERE name = ?`, name)
	return scanVideo(row.Scan)
}

// List retrieves all videos from the catalog, newest first.
func (r *VideoRepository) List() ([]*Video, error) {
	rows, err := r.db.Query(`SELECT ` + videoColumns + ` FROM videos ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		v, err := scanVideo(rows.Scan)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return videos, nil
}

// Update updates an existing video in the catalog.
func (r *VideoRepository) Update(v *Video) error {
	v.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE videos SET name = ?, video_path = ?, frames_path = ?, angles_path = ?, coord_space = ?, sample_hz = ?, alpha = ?, duration = ?, updated_at = ?
		 WHERE id = ?`,
		v.Name, v.VideoPath, v.FramesPath, v.AnglesPath, string(v.CoordSpace),
		v.SampleHz, v.Alpha, v.Duration, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a video from the catalog by its ID.
func (r *VideoRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
