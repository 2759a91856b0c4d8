package detector

import (
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/natya/internal/pose"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, or to play back a
// deterministic synthetic motion when no results are queued.
type MockDetector struct {
	results []pose.Detection
	index   int
	err     error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetResults queues the detections returned by successive Detect calls.
// The last result repeats once the queue is exhausted.
func (m *MockDetector) SetResults(results []pose.Detection) {
	m.results = results
	m.index = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the next queued detection, or a synthetic standing pose
// swaying per call when nothing is queued.
func (m *MockDetector) Detect(frame *gocv.Mat) (pose.Detection, error) {
	if m.err != nil {
		return pose.Detection{}, m.err
	}

	if len(m.results) > 0 {
		res := m.results[m.index]
		if m.index < len(m.results)-1 {
			m.index++
		}
		return res, nil
	}

	det := pose.Detection{
		Ok:    true,
		World: StandingPose(float64(m.index) * 0.1),
	}
	m.index++
	return det, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// StandingPose returns a synthetic 33-landmark world-space pose of a person
// standing upright with arms slightly raised. phase sways the arms so
// successive frames differ.
func StandingPose(phase float64) []pose.Landmark {
	pts := make([]pose.Landmark, pose.NumLandmarks)
	for i := range pts {
		// Head and minor landmarks cluster near the top of the figure.
		pts[i] = pose.Landmark{X: 0, Y: 0.6, Z: 0, Visibility: 0.9}
	}

	sway := 0.1 * math.Sin(phase)

	pts[pose.LeftShoulder] = pose.Landmark{X: -0.2, Y: 0.4, Z: 0, Visibility: 0.99}
	pts[pose.RightShoulder] = pose.Landmark{X: 0.2, Y: 0.4, Z: 0, Visibility: 0.99}
	pts[pose.LeftElbow] = pose.Landmark{X: -0.35 + sway, Y: 0.2, Z: 0, Visibility: 0.98}
	pts[pose.RightElbow] = pose.Landmark{X: 0.35 - sway, Y: 0.2, Z: 0, Visibility: 0.98}
	pts[pose.LeftWrist] = pose.Landmark{X: -0.45 + sway, Y: 0.0, Z: 0, Visibility: 0.97}
	pts[pose.RightWrist] = pose.Landmark{X: 0.45 - sway, Y: 0.0, Z: 0, Visibility: 0.97}
	pts[pose.LeftHip] = pose.Landmark{X: -0.12, Y: 0.0, Z: 0, Visibility: 0.99}
	pts[pose.RightHip] = pose.Landmark{X: 0.12, Y: 0.0, Z: 0, Visibility: 0.99}
	pts[pose.LeftKnee] = pose.Landmark{X: -0.13, Y: -0.4, Z: 0, Visibility: 0.98}
	pts[pose.RightKnee] = pose.Landmark{X: 0.13, Y: -0.4, Z: 0, Visibility: 0.98}
	pts[pose.LeftAnkle] = pose.Landmark{X: -0.14, Y: -0.8, Z: 0, Visibility: 0.96}
	pts[pose.RightAnkle] = pose.Landmark{X: 0.14, Y: -0.8, Z: 0, Visibility: 0.96}

	return pts
}
