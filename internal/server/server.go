// Package server provides the HTTP server for the Natya dance practice
// system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/natya/internal/capture"
	"github.com/ayusman/natya/internal/score"
	"github.com/ayusman/natya/internal/server/api"
	"github.com/ayusman/natya/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Scorer    *score.Scorer
	Camera    *capture.CameraSource

	// IsEnabled and SetEnabled expose the live pipeline's scoring switch.
	// Either may be nil when no live pipeline is running.
	IsEnabled  func() bool
	SetEnabled func(bool)
}

// Server represents the HTTP server for the Natya application.
type Server struct {
	config Config
	mux    *http.ServeMux
	feed   *ScoreFeedHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		feed:   NewScoreFeedHandler(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)

	if s.config.Store != nil {
		videoHandler := api.NewVideoHandler(s.config.Store, s.config.Scorer)
		s.mux.Handle("/api/videos", videoHandler)
		s.mux.Handle("/api/videos/", videoHandler)
		s.mux.HandleFunc("/api/poses", videoHandler.ActivePoses)
		s.mux.HandleFunc("/api/angles", videoHandler.ActiveAngles)

		s.mux.Handle("/api/compare", api.NewCompareHandler(s.config.Store))
	}

	if s.config.Scorer != nil {
		s.mux.Handle("/api/compare-pose", api.NewScoreHandler(s.config.Scorer))
		s.mux.HandleFunc("/api/session/reset", s.handleSessionReset)
	}

	// Live score feed over WebSocket; events arrive via Feed().Publish.
	s.mux.Handle("/api/live", s.feed)

	// Register camera stream endpoint if a camera is configured
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Feed returns the live score feed, so the pipeline can publish into it.
func (s *Server) Feed() *ScoreFeedHandler {
	return s.feed
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type statusResponse struct {
	Enabled     bool                `json:"enabled"`
	ActiveVideo string              `json:"active_video,omitempty"`
	Session     *score.SessionState `json:"session,omitempty"`
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// handleStatus handles /api/status: GET reports the live pipeline state,
// POST toggles scoring on or off.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		response := statusResponse{}
		if s.config.IsEnabled != nil {
			response.Enabled = s.config.IsEnabled()
		}
		if s.config.Scorer != nil {
			response.ActiveVideo = s.config.Scorer.ActiveID()
			session := s.config.Scorer.Session()
			response.Session = &session
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)

	case http.MethodPost:
		if s.config.SetEnabled == nil {
			http.Error(w, "Live pipeline not running", http.StatusServiceUnavailable)
			return
		}
		var req setEnabledRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		s.config.SetEnabled(req.Enabled)
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSessionReset handles POST /api/session/reset and restarts the
// scoring session clock.
func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.config.Scorer.ResetSession()
	w.WriteHeader(http.StatusNoContent)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
