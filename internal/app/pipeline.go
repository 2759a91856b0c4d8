package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/natya/internal/pose"
	"github.com/ayusman/natya/internal/score"
)

// runPipeline is the live scoring loop. Each tick it reads a camera frame,
// runs pose detection, and scores the detected snapshot against the active
// reference timeline at the elapsed session time.
//
// Pipeline logic:
// 1. Tick at the configured scoring interval
// 2. Skip ticks while scoring is disabled or no reference is active
// 3. Read a frame and detect a pose
// 4. Score the snapshot; a failed detection still counts as a scored frame
// 5. Deliver the result to the registered callback
func (a *App) runPipeline(stopCh chan struct{}) {
	interval := time.Duration(a.config.ScoreIntervalMs) * time.Millisecond

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if scoring is disabled
			if !a.IsEnabled() {
				continue
			}

			videoID := a.scorer.ActiveID()
			if videoID == "" {
				continue
			}

			frame, t, err := a.camera.Next()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			det, err := a.Detector().Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting pose: %v", err)
				continue
			}

			// A frame without a pose still scores, as a miss. The session
			// clock keeps running whether or not the dancer is visible.
			var live []pose.Landmark
			if snap, ok := pose.Select(det); ok {
				live = snap.Points[:]
			}

			result, err := a.scorer.Score(live)
			if err != nil {
				if !errors.Is(err, score.ErrNoReference) {
					log.Printf("Error scoring frame: %v", err)
				}
				continue
			}

			a.mu.RLock()
			onScore := a.onScore
			a.mu.RUnlock()

			if onScore != nil {
				onScore(ScoreEvent{
					VideoID: videoID,
					Elapsed: t,
					Result:  result,
				})
			}
		}
	}
}
