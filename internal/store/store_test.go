package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/natya/internal/pose"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "natya-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func testVideo(name string) *Video {
	return &Video{
		ID:         uuid.New().String(),
		Name:       name,
		VideoPath:  "videos/" + name + ".mov",
		FramesPath: "out/" + name + ".jsonl",
		AnglesPath: "out/" + name + ".csv",
		CoordSpace: pose.WorldSpace,
		SampleHz:   15,
		Alpha:      0.7,
		Duration:   42.5,
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"videos", "session_results", "settings"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist after migrations: %v", table, err)
		}
	}
}

func TestVideoRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	v := testVideo("dance")
	if err := s.Videos().Create(v); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Videos().GetByID(v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Name != "dance" || got.CoordSpace != pose.WorldSpace {
		t.Errorf("unexpected video: %+v", got)
	}
	if got.SampleHz != 15 || got.Alpha != 0.7 || got.Duration != 42.5 {
		t.Errorf("numeric fields did not round trip: %+v", got)
	}

	byName, err := s.Videos().GetByName("dance")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if byName.ID != v.ID {
		t.Errorf("expected id %s, got %s", v.ID, byName.ID)
	}
}

func TestVideoRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Videos().GetByID("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestVideoRepository_List(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"first", "second", "third"} {
		if err := s.Videos().Create(testVideo(name)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	videos, err := s.Videos().List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(videos) != 3 {
		t.Errorf("expected 3 videos, got %d", len(videos))
	}
}

func TestVideoRepository_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)

	v := testVideo("dance")
	if err := s.Videos().Create(v); err != nil {
		t.Fatalf("create: %v", err)
	}

	v.Name = "renamed"
	v.Duration = 60
	if err := s.Videos().Update(v); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Videos().GetByID(v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "renamed" || got.Duration != 60 {
		t.Errorf("update did not stick: %+v", got)
	}

	if err := s.Videos().Delete(v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Videos().GetByID(v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.Videos().Delete(v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSessionRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)

	v := testVideo("dance")
	if err := s.Videos().Create(v); err != nil {
		t.Fatalf("create video: %v", err)
	}

	for i, points := range []int{300, 800, 550} {
		sr := &SessionResult{
			ID:             uuid.New().String(),
			VideoID:        v.ID,
			FramesScored:   10 + i,
			TotalPoints:    points,
			MeanSimilarity: float64(points) / 10,
			StartedAt:      time.Now().Add(-time.Minute),
		}
		if err := s.Sessions().Create(sr); err != nil {
			t.Fatalf("create session %d: %v", i, err)
		}
	}

	results, err := s.Sessions().ListByVideo(v.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	best, err := s.Sessions().Best(v.ID)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best.TotalPoints != 800 {
		t.Errorf("expected best 800, got %d", best.TotalPoints)
	}
}

func TestSessionRepository_BestMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().Best("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
