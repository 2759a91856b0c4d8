// Package pose provides the landmark data model and the per-frame signal
// pipeline for the Natya pose comparison system: coordinate-space selection,
// exponential smoothing, and joint-angle extraction.
package pose

import (
	"encoding/json"
	"fmt"
	"math"
)

// Body landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark is a single body point with a detection confidence.
// X, Y, Z are either world coordinates (meters) or pixel coordinates,
// depending on the CoordSpace of the set it belongs to.
type Landmark struct {
	X          float64
	Y          float64
	Z          float64
	Visibility float64
}

// MarshalJSON encodes the landmark as the [x, y, z, visibility] array
// used by the persisted timeline format.
func (l Landmark) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{l.X, l.Y, l.Z, l.Visibility})
}

// UnmarshalJSON decodes a [x, y, z, visibility] array.
func (l *Landmark) UnmarshalJSON(data []byte) error {
	var v [4]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("landmark: %w", err)
	}
	l.X, l.Y, l.Z, l.Visibility = v[0], v[1], v[2], v[3]
	return nil
}

// CoordSpace identifies the coordinate system of a landmark set.
type CoordSpace string

const (
	// WorldSpace means 3D coordinates in meters, origin near the hip center.
	WorldSpace CoordSpace = "world"
	// PixelSpace means image coordinates in pixels, z a relative depth proxy.
	PixelSpace CoordSpace = "pixel"
)

// Distance2D is the Euclidean distance between two landmarks in the
// image-plane projection.
func Distance2D(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Distance3D is the Euclidean distance between two landmarks.
func Distance3D(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
