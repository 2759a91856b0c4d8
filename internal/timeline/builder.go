package timeline

import (
	"fmt"

	"github.com/ayusman/natya/internal/pose"
)

// Decision tells the caller what to do with the source frame it just offered.
type Decision int

const (
	// Skip means the frame is not needed for the current target timestamp.
	Skip Decision = iota
	// Sample means the frame should be detected and appended via AddFrame
	// or AddMiss.
	Sample
)

// Builder converts an arbitrary-rate frame source into a Timeline sampled at
// a fixed target rate. For each target timestamp it selects the first source
// frame at or after the target, provided it lies within the tolerance;
// targets with no source frame near enough get an ok=false record at the
// target timestamp itself. The first offered frame anchors the target grid.
//
// A Builder is owned by a single extraction run and is not safe for
// concurrent use.
type Builder struct {
	interval float64
	tol      float64

	target  float64
	started bool
	lastT   float64

	frames []FrameRecord
	angles []AngleRecord
	built  bool
}

// NewBuilder creates a Builder sampling at the given rate in Hz. A tol of 0
// selects the default tolerance of half the sample interval; larger values
// are rejected because they could produce out-of-order records.
func NewBuilder(hz float64, tol float64) (*Builder, error) {
	if hz <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", hz)
	}
	interval := 1 / hz
	if tol == 0 {
		tol = interval / 2
	}
	if tol < 0 || tol > interval/2 {
		return nil, fmt.Errorf("tolerance must be in (0, %g], got %g", interval/2, tol)
	}

	return &Builder{
		interval: interval,
		tol:      tol,
	}, nil
}

// Offer advances the sampler with the next source frame timestamp.
// Timestamps must be strictly increasing. When the source has skipped past
// one or more target timestamps by more than the tolerance, ok=false records
// are appended for those targets before the decision is returned.
func (b *Builder) Offer(t float64) (Decision, error) {
	if b.built {
		return Skip, fmt.Errorf("builder already finished")
	}
	if b.started && t <= b.lastT {
		return Skip, fmt.Errorf("source timestamps not strictly increasing (%g after %g)", t, b.lastT)
	}

	if !b.started {
		b.started = true
		b.target = t
	}
	b.lastT = t

	// Source moved past targets no frame can serve anymore.
	for t > b.target+b.tol {
		b.frames = append(b.frames, FrameRecord{T: b.target, OK: false})
		b.target += b.interval
	}

	if t >= b.target {
		return Sample, nil
	}
	return Skip, nil
}

// AddFrame appends a successfully detected sample for the current target,
// keeping the actual source timestamp, together with its angle record.
// Call only after Offer returned Sample.
func (b *Builder) AddFrame(t float64, pts [pose.NumLandmarks]pose.Landmark, angles pose.Angles) {
	b.frames = append(b.frames, FrameRecord{T: t, OK: true, Landmarks: pts})
	b.angles = append(b.angles, AngleRecord{T: t, Angles: angles})
	b.target += b.interval
}

// AddMiss appends an ok=false record for a sampled frame where detection
// found no person. Call only after Offer returned Sample.
func (b *Builder) AddMiss(t float64) {
	b.frames = append(b.frames, FrameRecord{T: t, OK: false})
	b.target += b.interval
}

// Finish seals the builder and returns the completed immutable Timeline,
// tagged with the coordinate space the run operated in.
func (b *Builder) Finish(space pose.CoordSpace) (*Timeline, error) {
	if b.built {
		return nil, fmt.Errorf("builder already finished")
	}
	b.built = true
	return New(space, b.frames, b.angles)
}
