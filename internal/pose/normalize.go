package pose

// Detection is the raw output contract of an external pose detector for one
// frame. World holds 3D landmarks in meters when the detector produced them;
// Image holds the normalized [0,1] image-space set with the frame dimensions
// needed to scale it. Either set may be absent.
type Detection struct {
	Ok     bool
	World  []Landmark
	Image  []Landmark
	Width  int
	Height int
}

// Snapshot is a normalized landmark set ready for smoothing and angle
// extraction, tagged with the coordinate space it was produced in.
type Snapshot struct {
	Points [NumLandmarks]Landmark
	Space  CoordSpace
}

// Select picks the coordinate space for a detection result. World landmarks
// are preferred unchanged; otherwise the normalized image set is scaled to
// pixel coordinates (x by width, y by height; z and visibility untouched).
// Returns ok=false when the detector found no person or produced neither set.
func Select(d Detection) (Snapshot, bool) {
	if !d.Ok {
		return Snapshot{}, false
	}

	if len(d.World) >= NumLandmarks {
		var s Snapshot
		s.Space = WorldSpace
		copy(s.Points[:], d.World[:NumLandmarks])
		return s, true
	}

	if len(d.Image) >= NumLandmarks {
		var s Snapshot
		s.Space = PixelSpace
		w := float64(d.Width)
		h := float64(d.Height)
		for i := 0; i < NumLandmarks; i++ {
			lm := d.Image[i]
			s.Points[i] = Landmark{
				X:          lm.X * w,
				Y:          lm.Y * h,
				Z:          lm.Z,
				Visibility: lm.Visibility,
			}
		}
		return s, true
	}

	return Snapshot{}, false
}
