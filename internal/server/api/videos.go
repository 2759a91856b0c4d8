// Package api provides HTTP API handlers for the Natya dance practice
// system.
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/ayusman/natya/internal/pose"
	"github.com/ayusman/natya/internal/score"
	"github.com/ayusman/natya/internal/store"
	"github.com/ayusman/natya/internal/timeline"
)

// VideoHandler handles HTTP requests for reference video resources and
// their extracted timeline data.
type VideoHandler struct {
	store  *store.Store
	scorer *score.Scorer
}

// NewVideoHandler creates a new VideoHandler with the given store and scorer.
func NewVideoHandler(s *store.Store, sc *score.Scorer) *VideoHandler {
	return &VideoHandler{store: s, scorer: sc}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *VideoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/videos, /api/videos/{id},
	// /api/videos/{id}/activate, /api/videos/{id}/sessions
	path := strings.TrimPrefix(r.URL.Path, "/api/videos")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/videos
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/activate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	if id, ok := strings.CutSuffix(path, "/sessions"); ok {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.sessions(w, r, id)
		return
	}

	// Item endpoint: /api/videos/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type videoResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CoordSpace string  `json:"coord_space"`
	SampleHz   float64 `json:"sample_hz"`
	Alpha      float64 `json:"alpha"`
	Duration   float64 `json:"duration"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type listVideosResponse struct {
	Videos []videoResponse `json:"videos"`
}

type sessionResponse struct {
	ID             string  `json:"id"`
	VideoID        string  `json:"video_id"`
	FramesScored   int     `json:"frames_scored"`
	TotalPoints    int     `json:"total_points"`
	MeanSimilarity float64 `json:"mean_similarity"`
	StartedAt      string  `json:"started_at"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Video to a videoResponse.
func (h *VideoHandler) toResponse(v *store.Video) videoResponse {
	return videoResponse{
		ID:         v.ID,
		Name:       v.Name,
		CoordSpace: string(v.CoordSpace),
		SampleHz:   v.SampleHz,
		Alpha:      v.Alpha,
		Duration:   v.Duration,
		Active:     h.scorer != nil && h.scorer.ActiveID() == v.ID,
		CreatedAt:  v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  v.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/videos and returns all reference videos.
func (h *VideoHandler) list(w http.ResponseWriter, r *http.Request) {
	videos, err := h.store.Videos().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list videos")
		return
	}

	response := listVideosResponse{
		Videos: make([]videoResponse, 0, len(videos)),
	}
	for _, v := range videos {
		response.Videos = append(response.Videos, h.toResponse(v))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/videos/{id} and returns a single video.
func (h *VideoHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	video, err := h.store.Videos().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get video")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(video))
}

// delete handles DELETE /api/videos/{id} and removes a video from the
// catalog. The extracted timeline files stay on disk.
func (h *VideoHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Videos().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete video")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// activate handles POST /api/videos/{id}/activate: it makes the video the
// live scoring reference, loading its timeline from disk on first use, and
// resets the running session.
func (h *VideoHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	if h.scorer == nil {
		writeError(w, http.StatusServiceUnavailable, "Live scoring not available")
		return
	}

	video, err := h.store.Videos().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get video")
		return
	}

	if err := h.scorer.Activate(id); err != nil {
		if !errors.Is(err, score.ErrUnknownReference) {
			writeError(w, http.StatusInternalServerError, "Failed to activate video")
			return
		}
		tl, err := timeline.Load(video.CoordSpace, video.FramesPath, video.AnglesPath)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load timeline")
			return
		}
		h.scorer.AddReference(id, tl)
		if err := h.scorer.Activate(id); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to activate video")
			return
		}
	}

	writeJSON(w, http.StatusOK, h.toResponse(video))
}

// sessions handles GET /api/videos/{id}/sessions and returns the recorded
// scoring sessions for a video, newest first.
func (h *VideoHandler) sessions(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Videos().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get video")
		return
	}

	results, err := h.store.Sessions().ListByVideo(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(results)),
	}
	for _, sr := range results {
		response.Sessions = append(response.Sessions, sessionResponse{
			ID:             sr.ID,
			VideoID:        sr.VideoID,
			FramesScored:   sr.FramesScored,
			TotalPoints:    sr.TotalPoints,
			MeanSimilarity: sr.MeanSimilarity,
			StartedAt:      sr.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// activeVideo resolves the currently active reference video, or writes the
// error response and returns nil.
func (h *VideoHandler) activeVideo(w http.ResponseWriter) *store.Video {
	if h.scorer == nil {
		writeError(w, http.StatusServiceUnavailable, "Live scoring not available")
		return nil
	}
	id := h.scorer.ActiveID()
	if id == "" {
		writeError(w, http.StatusNotFound, "No active video")
		return nil
	}

	video, err := h.store.Videos().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get active video")
		return nil
	}
	return video
}

type poseFrame struct {
	T  float64         `json:"t"`
	OK bool            `json:"ok"`
	KP []pose.Landmark `json:"kp,omitempty"`
}

// ActivePoses handles GET /api/poses: the full frame log of the active
// reference video.
func (h *VideoHandler) ActivePoses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	video := h.activeVideo(w)
	if video == nil {
		return
	}

	frames, err := timeline.LoadFrames(video.FramesPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read pose data")
		return
	}

	out := make([]poseFrame, 0, len(frames))
	for _, f := range frames {
		pf := poseFrame{T: f.T, OK: f.OK}
		if f.OK {
			pf.KP = f.Landmarks[:]
		}
		out = append(out, pf)
	}

	writeJSON(w, http.StatusOK, out)
}

// angleRow carries one angle record on the wire. Undefined angles are null
// rather than NaN, which JSON cannot represent.
type angleRow struct {
	T      float64  `json:"t"`
	ElbowL *float64 `json:"elbow_L"`
	ElbowR *float64 `json:"elbow_R"`
	KneeL  *float64 `json:"knee_L"`
	KneeR  *float64 `json:"knee_R"`
}

func angleValue(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// ActiveAngles handles GET /api/angles: the joint angle table of the active
// reference video.
func (h *VideoHandler) ActiveAngles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	video := h.activeVideo(w)
	if video == nil {
		return
	}

	angles, err := timeline.LoadAngles(video.AnglesPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read angle data")
		return
	}

	out := make([]angleRow, 0, len(angles))
	for _, a := range angles {
		out = append(out, angleRow{
			T:      a.T,
			ElbowL: angleValue(a.ElbowL),
			ElbowR: angleValue(a.ElbowR),
			KneeL:  angleValue(a.KneeL),
			KneeR:  angleValue(a.KneeR),
		})
	}

	writeJSON(w, http.StatusOK, out)
}
