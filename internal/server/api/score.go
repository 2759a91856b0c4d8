package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/natya/internal/pose"
	"github.com/ayusman/natya/internal/score"
)

// ScoreHandler handles live pose scoring requests for clients that run
// their own pose detection (e.g. a browser) and submit snapshots over HTTP.
type ScoreHandler struct {
	scorer *score.Scorer
}

// NewScoreHandler creates a new ScoreHandler with the given scorer.
func NewScoreHandler(sc *score.Scorer) *ScoreHandler {
	return &ScoreHandler{scorer: sc}
}

type scoreRequest struct {
	LivePose []pose.Landmark `json:"live_pose"`
}

type scoreResponse struct {
	score.Result
	FrameCount      int `json:"frame_count"`
	CumulativeScore int `json:"cumulative_score"`
}

// ServeHTTP handles POST /api/compare-pose: it scores one live snapshot
// against the active reference at the elapsed session time.
func (h *ScoreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.LivePose) == 0 {
		writeError(w, http.StatusBadRequest, "No live pose data provided")
		return
	}

	result, err := h.scorer.Score(req.LivePose)
	if err != nil {
		if errors.Is(err, score.ErrNoReference) {
			writeError(w, http.StatusNotFound, "No active reference video")
			return
		}
		writeError(w, http.StatusInternalServerError, "Scoring failed")
		return
	}

	session := h.scorer.Session()
	writeJSON(w, http.StatusOK, scoreResponse{
		Result:          result,
		FrameCount:      session.FrameCount,
		CumulativeScore: session.CumulativeScore,
	})
}
