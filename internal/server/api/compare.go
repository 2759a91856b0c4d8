package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/natya/internal/compare"
	"github.com/ayusman/natya/internal/store"
	"github.com/ayusman/natya/internal/timeline"
)

// DefaultCompareSamples is the sample count used when a comparison request
// does not specify one.
const DefaultCompareSamples = 200

// CompareHandler handles offline timeline-vs-timeline comparison requests.
type CompareHandler struct {
	store *store.Store
}

// NewCompareHandler creates a new CompareHandler with the given store.
func NewCompareHandler(s *store.Store) *CompareHandler {
	return &CompareHandler{store: s}
}

type compareRequest struct {
	RefID   string `json:"ref_id"`
	UsrID   string `json:"usr_id"`
	Samples int    `json:"samples"`
}

// ServeHTTP handles POST /api/compare: it loads the two videos' angle
// timelines and returns the similarity report.
func (h *CompareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.RefID == "" || req.UsrID == "" {
		writeError(w, http.StatusBadRequest, "ref_id and usr_id are required")
		return
	}

	samples := req.Samples
	if samples == 0 {
		samples = DefaultCompareSamples
	}
	if samples < 2 {
		writeError(w, http.StatusBadRequest, "samples must be at least 2")
		return
	}

	ref, ok := h.loadTimeline(w, req.RefID)
	if !ok {
		return
	}
	usr, ok := h.loadTimeline(w, req.UsrID)
	if !ok {
		return
	}

	report, err := compare.Compare(ref, usr, samples)
	if err != nil {
		switch {
		case errors.Is(err, compare.ErrNoOverlap):
			writeError(w, http.StatusUnprocessableEntity, "Timelines do not overlap in time")
		case errors.Is(err, compare.ErrInsufficientSamples):
			writeError(w, http.StatusUnprocessableEntity, "Too few valid samples in the overlap window")
		default:
			writeError(w, http.StatusInternalServerError, "Comparison failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// loadTimeline resolves a video id to its stored timeline, writing the
// error response on failure.
func (h *CompareHandler) loadTimeline(w http.ResponseWriter, id string) (*timeline.Timeline, bool) {
	video, err := h.store.Videos().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Video not found: "+id)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get video")
		return nil, false
	}

	tl, err := timeline.Load(video.CoordSpace, video.FramesPath, video.AnglesPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load timeline for "+id)
		return nil, false
	}
	return tl, true
}
