// Package capture provides timestamped frame sources using GoCV (OpenCV):
// video files for reference extraction and cameras for live capture.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// ErrSourceClosed is returned when reading from a source that is not open.
var ErrSourceClosed = errors.New("frame source is not open")

// ErrEndOfSource is returned when a finite source has no more frames.
var ErrEndOfSource = errors.New("end of frame source")

// FrameSource yields video frames in timestamp order. The caller is
// responsible for closing each returned Mat.
type FrameSource interface {
	// Next returns the next frame and its timestamp in seconds from the
	// start of the source. Returns ErrEndOfSource when exhausted.
	Next() (*gocv.Mat, float64, error)

	// Close releases the underlying capture device or file.
	Close() error
}

// VideoFileSource reads frames from a video file, reporting each frame's
// position in the stream as its timestamp.
type VideoFileSource struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
}

// OpenVideoFile opens a video file as a frame source.
func OpenVideoFile(path string) (*VideoFileSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}

	return &VideoFileSource{
		path:    path,
		capture: capture,
	}, nil
}

// FPS returns the container's reported frame rate.
func (v *VideoFileSource) FPS() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.capture == nil {
		return 0
	}
	return v.capture.Get(gocv.VideoCaptureFPS)
}

// Next reads the next frame. The timestamp is the decoder's stream position
// in seconds.
func (v *VideoFileSource) Next() (*gocv.Mat, float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.capture == nil {
		return nil, 0, ErrSourceClosed
	}

	mat := gocv.NewMat()
	if ok := v.capture.Read(&mat); !ok {
		mat.Close()
		return nil, 0, ErrEndOfSource
	}
	if mat.Empty() {
		mat.Close()
		return nil, 0, ErrEndOfSource
	}

	t := v.capture.Get(gocv.VideoCapturePosMsec) / 1000.0
	return &mat, t, nil
}

// Close releases the video file.
func (v *VideoFileSource) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.capture == nil {
		return nil
	}
	err := v.capture.Close()
	v.capture = nil
	return err
}
