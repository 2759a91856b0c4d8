package pose

import (
	"math"
	"testing"
)

func makeLandmarks(x, y, z, vis float64) [NumLandmarks]Landmark {
	var pts [NumLandmarks]Landmark
	for i := range pts {
		pts[i] = Landmark{X: x, Y: y, Z: z, Visibility: vis}
	}
	return pts
}

func TestNewSmoother_RejectsInvalidAlpha(t *testing.T) {
	for _, alpha := range []float64{0, -0.5, 1.5, 2} {
		if _, err := NewSmoother(alpha); err == nil {
			t.Errorf("expected error for alpha=%g", alpha)
		}
	}

	for _, alpha := range []float64{0.1, 0.7, 1} {
		if _, err := NewSmoother(alpha); err != nil {
			t.Errorf("unexpected error for alpha=%g: %v", alpha, err)
		}
	}
}

func TestSmoother_FirstFramePassesThrough(t *testing.T) {
	s, err := NewSmoother(0.3)
	if err != nil {
		t.Fatalf("failed to create smoother: %v", err)
	}

	raw := makeLandmarks(1.5, -2.0, 0.25, 0.9)
	out := s.Apply(raw)

	if out != raw {
		t.Error("first frame should pass through unchanged")
	}
}

func TestSmoother_SteadyStateIsFixedPoint(t *testing.T) {
	// Two identical successive inputs leave the smoothed value unchanged,
	// for any alpha.
	for _, alpha := range []float64{0.1, 0.5, 0.7, 1.0} {
		s, err := NewSmoother(alpha)
		if err != nil {
			t.Fatalf("failed to create smoother: %v", err)
		}

		raw := makeLandmarks(2.0, 3.0, -1.0, 0.8)
		s.Apply(raw)
		out := s.Apply(raw)

		for i := range out {
			if math.Abs(out[i].X-2.0) > 1e-12 ||
				math.Abs(out[i].Y-3.0) > 1e-12 ||
				math.Abs(out[i].Z+1.0) > 1e-12 {
				t.Fatalf("alpha=%g: steady state drifted at index %d: %+v", alpha, i, out[i])
			}
		}
	}
}

func TestSmoother_AlphaOneIsIdentity(t *testing.T) {
	s, err := NewSmoother(1.0)
	if err != nil {
		t.Fatalf("failed to create smoother: %v", err)
	}

	s.Apply(makeLandmarks(0, 0, 0, 1))
	raw := makeLandmarks(7.0, -4.0, 2.5, 0.6)
	out := s.Apply(raw)

	if out != raw {
		t.Errorf("alpha=1 should be the identity, got %+v", out[0])
	}
}

func TestSmoother_BlendsTowardPrevious(t *testing.T) {
	s, err := NewSmoother(0.25)
	if err != nil {
		t.Fatalf("failed to create smoother: %v", err)
	}

	s.Apply(makeLandmarks(0, 0, 0, 1))
	out := s.Apply(makeLandmarks(4, 8, -4, 0.5))

	// 0.25*4 + 0.75*0 = 1, etc.
	if math.Abs(out[0].X-1) > 1e-12 || math.Abs(out[0].Y-2) > 1e-12 || math.Abs(out[0].Z+1) > 1e-12 {
		t.Errorf("unexpected blend result: %+v", out[0])
	}
}

func TestSmoother_VisibilityPassesThrough(t *testing.T) {
	s, err := NewSmoother(0.5)
	if err != nil {
		t.Fatalf("failed to create smoother: %v", err)
	}

	s.Apply(makeLandmarks(0, 0, 0, 0.2))
	out := s.Apply(makeLandmarks(1, 1, 1, 0.9))

	if out[0].Visibility != 0.9 {
		t.Errorf("visibility should be the current raw value, got %g", out[0].Visibility)
	}
}

func TestSmoother_StateSurvivesSkippedFrames(t *testing.T) {
	// A failed detection is simply not applied; the next valid frame blends
	// against the last valid smoothed value, not a fresh state.
	s, err := NewSmoother(0.5)
	if err != nil {
		t.Fatalf("failed to create smoother: %v", err)
	}

	s.Apply(makeLandmarks(2, 2, 2, 1))
	// ok=false frame here: caller skips Apply entirely.
	out := s.Apply(makeLandmarks(4, 4, 4, 1))

	if math.Abs(out[0].X-3) > 1e-12 {
		t.Errorf("expected blend against retained state (3), got %g", out[0].X)
	}
}

func TestSmoother_Reset(t *testing.T) {
	s, err := NewSmoother(0.5)
	if err != nil {
		t.Fatalf("failed to create smoother: %v", err)
	}

	s.Apply(makeLandmarks(10, 10, 10, 1))
	s.Reset()

	raw := makeLandmarks(2, 2, 2, 1)
	out := s.Apply(raw)

	if out != raw {
		t.Error("after Reset the next frame should pass through unchanged")
	}
}
