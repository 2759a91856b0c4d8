// Package score implements the live similarity scorer: it holds the
// precomputed reference timelines, tracks one active scoring session, and
// turns a live pose snapshot into a bounded point value for gameplay
// feedback.
package score

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/natya/internal/pose"
	"github.com/ayusman/natya/internal/timeline"
)

// visibilityThreshold gates which joints take part in a comparison; both the
// live and the reference landmark must exceed it.
const visibilityThreshold = 0.5

// keyJoints are the landmark indices compared by the live scorer: shoulders,
// elbows, wrists, hips, knees and ankles.
var keyJoints = []int{
	pose.LeftShoulder, pose.RightShoulder,
	pose.LeftElbow, pose.RightElbow,
	pose.LeftWrist, pose.RightWrist,
	pose.LeftHip, pose.RightHip,
	pose.LeftKnee, pose.RightKnee,
	pose.LeftAnkle, pose.RightAnkle,
}

// ErrNoReference is returned when scoring is attempted with no active
// reference timeline.
var ErrNoReference = errors.New("no active reference")

// ErrUnknownReference is returned when activating a reference id that was
// never registered.
var ErrUnknownReference = errors.New("unknown reference")

// Result is the outcome of one scoring call.
type Result struct {
	Points     int     `json:"points_earned"`
	Similarity float64 `json:"similarity_percent"`
	Message    string  `json:"message"`
}

// SessionState is a snapshot of the current live session.
type SessionState struct {
	StartTime       time.Time `json:"start_time"`
	FrameCount      int       `json:"frame_count"`
	CumulativeScore int       `json:"cumulative_score"`
	MeanSimilarity  float64   `json:"mean_similarity"`
}

// activeRef pairs an id with its timeline so a reference switch replaces
// both in a single pointer swap.
type activeRef struct {
	id string
	tl *timeline.Timeline
}

// Scorer scores live pose snapshots against the active reference timeline.
// Activating a reference is atomic with respect to in-flight scoring calls:
// a reader sees either the old or the new timeline in full, never a mix.
type Scorer struct {
	mu   sync.Mutex // guards refs and session fields
	refs map[string]*timeline.Timeline

	active atomic.Pointer[activeRef]

	start  time.Time
	frames int
	total  int
	simSum float64

	now func() time.Time
}

// NewScorer creates an empty Scorer.
func NewScorer() *Scorer {
	return &Scorer{
		refs: make(map[string]*timeline.Timeline),
		now:  time.Now,
	}
}

// AddReference registers a reference timeline under the given id.
func (s *Scorer) AddReference(id string, tl *timeline.Timeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[id] = tl
}

// Activate makes the given reference the active one and resets the session.
func (s *Scorer) Activate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tl, ok := s.refs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReference, id)
	}

	s.active.Store(&activeRef{id: id, tl: tl})
	s.resetSessionLocked()
	return nil
}

// ActiveID returns the id of the active reference, or "" when none is set.
func (s *Scorer) ActiveID() string {
	if ref := s.active.Load(); ref != nil {
		return ref.id
	}
	return ""
}

// ResetSession restarts the session clock and clears the counters.
func (s *Scorer) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetSessionLocked()
}

func (s *Scorer) resetSessionLocked() {
	s.start = s.now()
	s.frames = 0
	s.total = 0
	s.simSum = 0
}

// Session returns a snapshot of the current session state.
func (s *Scorer) Session() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := SessionState{
		StartTime:       s.start,
		FrameCount:      s.frames,
		CumulativeScore: s.total,
	}
	if s.frames > 0 {
		state.MeanSimilarity = s.simSum / float64(s.frames)
	}
	return state
}

// Score compares one live snapshot against the reference frame nearest to
// the elapsed session time and returns the points earned. A snapshot with no
// comparable joints scores 0 points; it is not an error.
func (s *Scorer) Score(live []pose.Landmark) (Result, error) {
	ref := s.active.Load()
	if ref == nil {
		return Result{}, ErrNoReference
	}

	s.mu.Lock()
	elapsed := s.now().Sub(s.start).Seconds()
	s.mu.Unlock()

	frame, ok := ref.tl.NearestFrame(elapsed)
	if !ok {
		return Result{}, fmt.Errorf("%w: reference %s has no usable frames", ErrNoReference, ref.id)
	}

	similarity := snapshotSimilarity(frame.Landmarks, live)
	points := pointsFor(similarity)

	s.mu.Lock()
	s.frames++
	s.total += points
	s.simSum += similarity
	s.mu.Unlock()

	return Result{
		Points:     points,
		Similarity: math.Round(similarity*100) / 100,
		Message:    messageFor(points),
	}, nil
}

// snapshotSimilarity maps the average 2D distance between corresponding key
// joints to a percentage: closer poses score higher, on a linear scale that
// bottoms out at zero.
func snapshotSimilarity(ref [pose.NumLandmarks]pose.Landmark, live []pose.Landmark) float64 {
	var total float64
	valid := 0

	for _, idx := range keyJoints {
		if idx >= len(live) {
			continue
		}
		rp := ref[idx]
		lp := live[idx]
		if rp.Visibility <= visibilityThreshold || lp.Visibility <= visibilityThreshold {
			continue
		}
		total += pose.Distance2D(rp, lp)
		valid++
	}

	if valid == 0 {
		return 0
	}

	similarity := 100 - total/float64(valid)*20
	if similarity < 0 {
		return 0
	}
	if similarity > 100 {
		return 100
	}
	return similarity
}

// pointsFor maps a similarity percentage to the tiered point value for one
// scoring call.
func pointsFor(similarity float64) int {
	switch {
	case similarity >= 90:
		return 100
	case similarity >= 80:
		return 80
	case similarity >= 70:
		return 60
	case similarity >= 60:
		return 40
	case similarity >= 50:
		return 20
	default:
		return 0
	}
}

// messageFor returns the feedback string shown to the player for a point
// value.
func messageFor(points int) string {
	switch {
	case points >= 100:
		return "PERFECT!"
	case points >= 80:
		return "GREAT!"
	case points >= 60:
		return "GOOD!"
	case points >= 40:
		return "FAIR"
	case points >= 20:
		return "POOR"
	default:
		return "MISS"
	}
}
