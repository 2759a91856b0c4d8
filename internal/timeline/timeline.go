// Package timeline assembles per-frame pose output into ordered, timestamped
// sequences and handles their persisted forms (landmark JSONL and angle CSV).
package timeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ayusman/natya/internal/pose"
)

// ErrEmptyTimeline is returned when an operation needs at least one record.
var ErrEmptyTimeline = errors.New("timeline is empty")

// FrameRecord is one sampled instant. When OK is false, detection failed at
// that instant and Landmarks is zero-valued.
type FrameRecord struct {
	T         float64
	OK        bool
	Landmarks [pose.NumLandmarks]pose.Landmark
}

// AngleRecord is the joint-angle vector for one successfully detected frame.
type AngleRecord struct {
	T float64
	pose.Angles
}

// Timeline is an immutable ordered sequence of frame and angle records for a
// single capture run, tagged with the coordinate space its landmarks use.
// Angle records exist only for frames where detection succeeded.
type Timeline struct {
	space  pose.CoordSpace
	frames []FrameRecord
	angles []AngleRecord
}

// New builds a Timeline from already-ordered records. Timestamps must be
// strictly increasing within each sequence.
func New(space pose.CoordSpace, frames []FrameRecord, angles []AngleRecord) (*Timeline, error) {
	for i := 1; i < len(frames); i++ {
		if frames[i].T <= frames[i-1].T {
			return nil, fmt.Errorf("frame timestamps not strictly increasing at index %d (%g after %g)",
				i, frames[i].T, frames[i-1].T)
		}
	}
	for i := 1; i < len(angles); i++ {
		if angles[i].T <= angles[i-1].T {
			return nil, fmt.Errorf("angle timestamps not strictly increasing at index %d (%g after %g)",
				i, angles[i].T, angles[i-1].T)
		}
	}

	return &Timeline{
		space:  space,
		frames: frames,
		angles: angles,
	}, nil
}

// Space returns the coordinate space of the timeline's landmarks.
func (tl *Timeline) Space() pose.CoordSpace {
	return tl.space
}

// Frames returns the frame records. Callers must not mutate the slice.
func (tl *Timeline) Frames() []FrameRecord {
	return tl.frames
}

// Angles returns the angle records. Callers must not mutate the slice.
func (tl *Timeline) Angles() []AngleRecord {
	return tl.angles
}

// Len returns the number of frame records.
func (tl *Timeline) Len() int {
	return len(tl.frames)
}

// AngleBounds returns the first and last angle-record timestamps.
func (tl *Timeline) AngleBounds() (start, end float64, err error) {
	if len(tl.angles) == 0 {
		return 0, 0, ErrEmptyTimeline
	}
	return tl.angles[0].T, tl.angles[len(tl.angles)-1].T, nil
}

// NearestFrame returns the successfully detected frame whose timestamp is
// nearest to t. Returns false when no frame in the timeline has landmarks.
func (tl *Timeline) NearestFrame(t float64) (FrameRecord, bool) {
	if len(tl.frames) == 0 {
		return FrameRecord{}, false
	}

	// First frame at or after t.
	i := sort.Search(len(tl.frames), func(i int) bool {
		return tl.frames[i].T >= t
	})

	// Walk outward from the insertion point, skipping failed detections,
	// to find the nearest OK frame on each side.
	lo := i - 1
	for lo >= 0 && !tl.frames[lo].OK {
		lo--
	}
	hi := i
	for hi < len(tl.frames) && !tl.frames[hi].OK {
		hi++
	}

	switch {
	case lo < 0 && hi >= len(tl.frames):
		return FrameRecord{}, false
	case lo < 0:
		return tl.frames[hi], true
	case hi >= len(tl.frames):
		return tl.frames[lo], true
	case t-tl.frames[lo].T <= tl.frames[hi].T-t:
		return tl.frames[lo], true
	default:
		return tl.frames[hi], true
	}
}
