package pose

import "math"

// degenerateEps is the vector magnitude below which a joint triple is
// considered degenerate (coinciding landmarks).
const degenerateEps = 1e-6

// Angles holds the four tracked joint angles for one frame, in radians
// within [0, pi]. An angle that could not be computed (degenerate geometry)
// is NaN; use Valid or math.IsNaN to check before using a value.
type Angles struct {
	ElbowL float64
	ElbowR float64
	KneeL  float64
	KneeR  float64
}

// Valid reports whether all four angles are defined.
func (a Angles) Valid() bool {
	return !math.IsNaN(a.ElbowL) && !math.IsNaN(a.ElbowR) &&
		!math.IsNaN(a.KneeL) && !math.IsNaN(a.KneeR)
}

// JointAngle computes the angle at vertex b between the vectors b->a and
// b->c, in radians clamped to [0, pi]. Returns NaN when either vector has
// near-zero magnitude.
func JointAngle(a, b, c Landmark) float64 {
	ux, uy, uz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	vx, vy, vz := c.X-b.X, c.Y-b.Y, c.Z-b.Z

	nu := math.Sqrt(ux*ux + uy*uy + uz*uz)
	nv := math.Sqrt(vx*vx + vy*vy + vz*vz)
	if nu < degenerateEps || nv < degenerateEps {
		return math.NaN()
	}

	cos := (ux*vx + uy*vy + uz*vz) / (nu * nv)
	// Guard against floating-point overshoot before the arc-cosine.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos)
}

// ExtractAngles computes the four tracked joint angles from a landmark set:
// both elbows (shoulder-elbow-wrist) and both knees (hip-knee-ankle).
func ExtractAngles(pts [NumLandmarks]Landmark) Angles {
	return Angles{
		ElbowL: JointAngle(pts[LeftShoulder], pts[LeftElbow], pts[LeftWrist]),
		ElbowR: JointAngle(pts[RightShoulder], pts[RightElbow], pts[RightWrist]),
		KneeL:  JointAngle(pts[LeftHip], pts[LeftKnee], pts[LeftAnkle]),
		KneeR:  JointAngle(pts[RightHip], pts[RightKnee], pts[RightAnkle]),
	}
}
