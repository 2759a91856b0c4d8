package capture

import (
	"errors"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// CameraSource captures frames from a camera device. Timestamps are seconds
// elapsed since the source was opened.
type CameraSource struct {
	deviceID int
	capture  *gocv.VideoCapture
	start    time.Time
	mu       sync.Mutex
	running  bool
}

// NewCamera creates a camera frame source for the given device ID.
// Call Open before reading frames.
func NewCamera(deviceID int) *CameraSource {
	return &CameraSource{deviceID: deviceID}
}

// Open opens the camera. It sets the resolution to 640x480 for performance.
func (c *CameraSource) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)

	c.capture = capture
	c.start = time.Now()
	c.running = true

	return nil
}

// Next reads a single frame from the camera.
func (c *CameraSource) Next() (*gocv.Mat, float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, 0, ErrSourceClosed
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, 0, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		mat.Close()
		return nil, 0, errors.New("captured frame is empty")
	}

	return &mat, time.Since(c.start).Seconds(), nil
}

// IsOpen returns true if the camera is currently open.
func (c *CameraSource) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Close closes the camera and releases resources.
func (c *CameraSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}
