package pose

import "fmt"

// Smoother applies exponential moving-average filtering to a landmark stream.
// It smooths the x, y, z channels of every landmark; visibility is passed
// through unsmoothed. A Smoother is owned by a single extraction run and is
// not safe for concurrent use.
type Smoother struct {
	alpha  float64
	prev   [NumLandmarks]Landmark
	primed bool
}

// NewSmoother creates a Smoother with the given smoothing factor.
// alpha must be in (0, 1]; alpha = 1 disables smoothing entirely.
func NewSmoother(alpha float64) (*Smoother, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("smoothing factor must be in (0, 1], got %g", alpha)
	}
	return &Smoother{alpha: alpha}, nil
}

// Apply smooths one landmark set against the previous smoothed output:
//
//	smoothed_k = alpha*raw_k + (1-alpha)*smoothed_{k-1}
//
// The first set seen after construction or Reset passes through unchanged.
// Frames where detection failed must not be passed to Apply; simply skip
// them and the filter resumes from the last valid state.
func (s *Smoother) Apply(curr [NumLandmarks]Landmark) [NumLandmarks]Landmark {
	if !s.primed {
		s.prev = curr
		s.primed = true
		return curr
	}

	a := s.alpha
	var out [NumLandmarks]Landmark
	for i := 0; i < NumLandmarks; i++ {
		out[i] = Landmark{
			X:          a*curr[i].X + (1-a)*s.prev[i].X,
			Y:          a*curr[i].Y + (1-a)*s.prev[i].Y,
			Z:          a*curr[i].Z + (1-a)*s.prev[i].Z,
			Visibility: curr[i].Visibility,
		}
	}

	s.prev = out
	return out
}

// Alpha returns the configured smoothing factor.
func (s *Smoother) Alpha() float64 {
	return s.alpha
}

// Reset clears the filter state so the next frame starts a new run.
func (s *Smoother) Reset() {
	s.primed = false
}
