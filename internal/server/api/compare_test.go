package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/natya/internal/compare"
	"github.com/ayusman/natya/internal/pose"
	"github.com/ayusman/natya/internal/store"
	"github.com/ayusman/natya/internal/timeline"
)

// seedVideoAt inserts a video whose angle records start at the given time
// offset, for overlap testing.
func seedVideoAt(t *testing.T, s *store.Store, id string, offset float64) {
	t.Helper()

	dir := t.TempDir()
	framesPath := filepath.Join(dir, "frames.jsonl")
	anglesPath := filepath.Join(dir, "angles.csv")

	var frames []timeline.FrameRecord
	var angles []timeline.AngleRecord
	for i := 0; i < 3; i++ {
		ts := offset + float64(i)
		pts := testPose(float64(i))
		frames = append(frames, timeline.FrameRecord{T: ts, OK: true, Landmarks: pts})
		angles = append(angles, timeline.AngleRecord{T: ts, Angles: pose.ExtractAngles(pts)})
	}

	if err := timeline.SaveFrames(framesPath, frames); err != nil {
		t.Fatalf("failed to save frames: %v", err)
	}
	if err := timeline.SaveAngles(anglesPath, angles); err != nil {
		t.Fatalf("failed to save angles: %v", err)
	}
	if err := s.Videos().Create(&store.Video{
		ID: id, Name: id, FramesPath: framesPath, AnglesPath: anglesPath,
		CoordSpace: pose.WorldSpace, SampleHz: 15, Alpha: 0.7,
	}); err != nil {
		t.Fatalf("failed to create video: %v", err)
	}
}

func postCompare(t *testing.T, handler http.Handler, req compareRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	httpReq := httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httpReq)
	return rec
}

func TestCompareHandler_SelfComparison(t *testing.T) {
	s := newTestStore(t)
	seedVideoAt(t, s, "ref", 0)
	handler := NewCompareHandler(s)

	rec := postCompare(t, handler, compareRequest{RefID: "ref", UsrID: "ref", Samples: 5})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var report compare.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}

	if math.Abs(report.Mean-1.0) > 1e-9 {
		t.Errorf("self comparison mean = %v, want 1.0", report.Mean)
	}
	if len(report.Samples) != 5 {
		t.Errorf("expected 5 samples, got %d", len(report.Samples))
	}
}

func TestCompareHandler_NoOverlap(t *testing.T) {
	s := newTestStore(t)
	seedVideoAt(t, s, "ref", 0)
	seedVideoAt(t, s, "usr", 100)
	handler := NewCompareHandler(s)

	rec := postCompare(t, handler, compareRequest{RefID: "ref", UsrID: "usr"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestCompareHandler_MissingVideo(t *testing.T) {
	s := newTestStore(t)
	seedVideoAt(t, s, "ref", 0)
	handler := NewCompareHandler(s)

	rec := postCompare(t, handler, compareRequest{RefID: "ref", UsrID: "missing"})

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestCompareHandler_BadRequests(t *testing.T) {
	s := newTestStore(t)
	handler := NewCompareHandler(s)

	rec := postCompare(t, handler, compareRequest{RefID: "", UsrID: "usr"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing ref_id: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	rec = postCompare(t, handler, compareRequest{RefID: "a", UsrID: "b", Samples: 1})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("samples=1: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/compare", nil)
	recGet := httptest.NewRecorder()
	handler.ServeHTTP(recGet, req)
	if recGet.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET: expected status %d, got %d", http.StatusMethodNotAllowed, recGet.Code)
	}
}
