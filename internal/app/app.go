// Package app provides the main application logic for the Natya dance
// practice system: reference extraction from video and the live scoring
// session loop.
package app

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/natya/internal/capture"
	"github.com/ayusman/natya/internal/detector"
	"github.com/ayusman/natya/internal/score"
	"github.com/ayusman/natya/internal/store"
	"github.com/ayusman/natya/internal/timeline"
)

// DefaultScoreIntervalMs is the time between live scoring ticks when the
// config does not specify one.
const DefaultScoreIntervalMs = 500

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store
	CameraID        int
	ScoreIntervalMs int
}

// ScoreEvent is delivered to the score callback after each live scoring
// tick.
type ScoreEvent struct {
	VideoID string       `json:"video_id"`
	Elapsed float64      `json:"elapsed"`
	Result  score.Result `json:"result"`
}

// App orchestrates the live practice session: camera capture, pose
// detection, and scoring against the active reference timeline.
type App struct {
	config   Config
	camera   *capture.CameraSource
	detector detector.Detector
	scorer   *score.Scorer
	enabled  bool
	onScore  func(ScoreEvent)
	mu       sync.RWMutex
	stopCh   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.ScoreIntervalMs <= 0 {
		config.ScoreIntervalMs = DefaultScoreIntervalMs
	}

	a := &App{
		config:  config,
		camera:  capture.NewCamera(config.CameraID),
		scorer:  score.NewScorer(),
		enabled: false,
		stopCh:  nil,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables live scoring.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether live scoring is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetScoreCallback registers a function invoked after each scoring tick.
// The callback runs on the pipeline goroutine and must not block.
func (a *App) SetScoreCallback(fn func(ScoreEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onScore = fn
}

// LoadReferences loads every extracted video's timeline from the database
// into the scorer.
func (a *App) LoadReferences() error {
	if a.config.Store == nil {
		return nil
	}

	videos, err := a.config.Store.Videos().List()
	if err != nil {
		return err
	}

	loaded := 0
	for _, v := range videos {
		if v.FramesPath == "" || v.AnglesPath == "" {
			continue
		}
		tl, err := timeline.Load(v.CoordSpace, v.FramesPath, v.AnglesPath)
		if err != nil {
			log.Printf("Failed to load timeline for %s: %v", v.Name, err)
			continue
		}
		a.scorer.AddReference(v.ID, tl)
		loaded++
	}

	log.Printf("Loaded %d reference timelines from database", loaded)
	return nil
}

// Start begins the live scoring pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Live scoring pipeline started")
	return nil
}

// Stop halts the pipeline, persists the session result, and releases
// resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	a.persistSession()

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close the pose detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Live scoring pipeline stopped")
}

// persistSession writes the finished session's totals to the database.
// Caller must hold a.mu.
func (a *App) persistSession() {
	if a.config.Store == nil {
		return
	}

	videoID := a.scorer.ActiveID()
	if videoID == "" {
		return
	}

	session := a.scorer.Session()
	if session.FrameCount == 0 {
		return
	}

	result := &store.SessionResult{
		ID:             uuid.New().String(),
		VideoID:        videoID,
		FramesScored:   session.FrameCount,
		TotalPoints:    session.CumulativeScore,
		MeanSimilarity: session.MeanSimilarity,
		StartedAt:      session.StartTime,
	}

	if err := a.config.Store.Sessions().Create(result); err != nil {
		log.Printf("Failed to persist session result: %v", err)
	}
}

// Camera returns the camera source.
func (a *App) Camera() *capture.CameraSource {
	return a.camera
}

// Scorer returns the live scorer.
func (a *App) Scorer() *score.Scorer {
	return a.scorer
}

// Detector returns the pose detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
