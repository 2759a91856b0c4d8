package pose

import (
	"math"
	"testing"
)

const angleTol = 1e-9

func TestJointAngle_StraightLine(t *testing.T) {
	// B exactly between A and C, opposite-pointing vectors: angle = pi.
	a := Landmark{X: -1, Y: 0, Z: 0}
	b := Landmark{X: 0, Y: 0, Z: 0}
	c := Landmark{X: 1, Y: 0, Z: 0}

	angle := JointAngle(a, b, c)

	if math.Abs(angle-math.Pi) > angleTol {
		t.Errorf("expected pi for collinear opposite vectors, got %g", angle)
	}
}

func TestJointAngle_RightAngle(t *testing.T) {
	a := Landmark{X: 1, Y: 0, Z: 0}
	b := Landmark{X: 0, Y: 0, Z: 0}
	c := Landmark{X: 0, Y: 1, Z: 0}

	angle := JointAngle(a, b, c)

	if math.Abs(angle-math.Pi/2) > angleTol {
		t.Errorf("expected pi/2 for perpendicular vectors, got %g", angle)
	}
}

func TestJointAngle_ZeroAngle(t *testing.T) {
	// Both vectors point the same way.
	a := Landmark{X: 2, Y: 2, Z: 2}
	b := Landmark{X: 0, Y: 0, Z: 0}
	c := Landmark{X: 1, Y: 1, Z: 1}

	angle := JointAngle(a, b, c)

	if math.Abs(angle) > angleTol {
		t.Errorf("expected 0 for parallel vectors, got %g", angle)
	}
}

func TestJointAngle_DegenerateIsNaN(t *testing.T) {
	b := Landmark{X: 0.5, Y: 0.5, Z: 0.5}
	c := Landmark{X: 1, Y: 1, Z: 1}

	// A coincides with the vertex.
	angle := JointAngle(b, b, c)
	if !math.IsNaN(angle) {
		t.Errorf("expected NaN for degenerate geometry, got %g", angle)
	}

	// C coincides with the vertex.
	angle = JointAngle(c, b, b)
	if !math.IsNaN(angle) {
		t.Errorf("expected NaN for degenerate geometry, got %g", angle)
	}
}

func TestJointAngle_ClampsFloatOvershoot(t *testing.T) {
	// Nearly-parallel unit vectors can push the dot-product ratio a hair
	// past 1; Acos must never see that.
	a := Landmark{X: 1, Y: 1e-15, Z: 0}
	b := Landmark{}
	c := Landmark{X: 1, Y: 0, Z: 0}

	angle := JointAngle(a, b, c)

	if math.IsNaN(angle) || angle < 0 || angle > math.Pi {
		t.Errorf("expected angle in [0, pi], got %g", angle)
	}
}

func TestExtractAngles_KnownPose(t *testing.T) {
	var pts [NumLandmarks]Landmark

	// Left arm bent at a right angle.
	pts[LeftShoulder] = Landmark{X: 0, Y: 1, Z: 0}
	pts[LeftElbow] = Landmark{X: 0, Y: 0, Z: 0}
	pts[LeftWrist] = Landmark{X: 1, Y: 0, Z: 0}

	// Right arm fully extended.
	pts[RightShoulder] = Landmark{X: 2, Y: 2, Z: 0}
	pts[RightElbow] = Landmark{X: 2, Y: 1, Z: 0}
	pts[RightWrist] = Landmark{X: 2, Y: 0, Z: 0}

	// Legs fully extended.
	pts[LeftHip] = Landmark{X: 0, Y: -1, Z: 0}
	pts[LeftKnee] = Landmark{X: 0, Y: -2, Z: 0}
	pts[LeftAnkle] = Landmark{X: 0, Y: -3, Z: 0}
	pts[RightHip] = Landmark{X: 1, Y: -1, Z: 0}
	pts[RightKnee] = Landmark{X: 1, Y: -2, Z: 0}
	pts[RightAnkle] = Landmark{X: 1, Y: -3, Z: 0}

	angles := ExtractAngles(pts)

	if math.Abs(angles.ElbowL-math.Pi/2) > angleTol {
		t.Errorf("elbow_L: expected pi/2, got %g", angles.ElbowL)
	}
	if math.Abs(angles.ElbowR-math.Pi) > angleTol {
		t.Errorf("elbow_R: expected pi, got %g", angles.ElbowR)
	}
	if math.Abs(angles.KneeL-math.Pi) > angleTol {
		t.Errorf("knee_L: expected pi, got %g", angles.KneeL)
	}
	if !angles.Valid() {
		t.Error("expected all angles valid")
	}
}

func TestExtractAngles_PartialDegenerate(t *testing.T) {
	// All landmarks at the origin except a well-formed left arm: the left
	// elbow is defined, everything else is NaN.
	var pts [NumLandmarks]Landmark
	pts[LeftShoulder] = Landmark{X: 0, Y: 1, Z: 0}
	pts[LeftWrist] = Landmark{X: 1, Y: 0, Z: 0}

	angles := ExtractAngles(pts)

	if math.IsNaN(angles.ElbowL) {
		t.Error("elbow_L should be defined")
	}
	if !math.IsNaN(angles.ElbowR) || !math.IsNaN(angles.KneeL) || !math.IsNaN(angles.KneeR) {
		t.Errorf("expected NaN for degenerate joints, got %+v", angles)
	}
	if angles.Valid() {
		t.Error("partial angle set must not report valid")
	}
}
