package pose

import "testing"

func fullSet(x, y float64) []Landmark {
	pts := make([]Landmark, NumLandmarks)
	for i := range pts {
		pts[i] = Landmark{X: x, Y: y, Z: 0.1, Visibility: 0.9}
	}
	return pts
}

func TestSelect_PrefersWorldLandmarks(t *testing.T) {
	d := Detection{
		Ok:     true,
		World:  fullSet(0.3, -0.4),
		Image:  fullSet(0.5, 0.5),
		Width:  640,
		Height: 480,
	}

	snap, ok := Select(d)
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if snap.Space != WorldSpace {
		t.Errorf("expected world space, got %q", snap.Space)
	}
	if snap.Points[Nose].X != 0.3 || snap.Points[Nose].Y != -0.4 {
		t.Errorf("world landmarks must pass through unchanged, got %+v", snap.Points[Nose])
	}
}

func TestSelect_PixelFallbackScales(t *testing.T) {
	d := Detection{
		Ok:     true,
		Image:  fullSet(0.5, 0.25),
		Width:  640,
		Height: 480,
	}

	snap, ok := Select(d)
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if snap.Space != PixelSpace {
		t.Errorf("expected pixel space, got %q", snap.Space)
	}

	got := snap.Points[Nose]
	if got.X != 320 || got.Y != 120 {
		t.Errorf("expected (320, 120), got (%g, %g)", got.X, got.Y)
	}
	if got.Z != 0.1 || got.Visibility != 0.9 {
		t.Errorf("z and visibility must pass through unchanged, got %+v", got)
	}
}

func TestSelect_NoDetection(t *testing.T) {
	if _, ok := Select(Detection{Ok: false}); ok {
		t.Error("failed detection should not produce a snapshot")
	}

	// Detector claimed ok but produced neither landmark set.
	if _, ok := Select(Detection{Ok: true}); ok {
		t.Error("detection without landmark sets should not produce a snapshot")
	}

	// Truncated landmark set.
	short := Detection{Ok: true, World: fullSet(0, 0)[:10]}
	if _, ok := Select(short); ok {
		t.Error("short landmark set should not produce a snapshot")
	}
}
