package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back a fixed sequence of timestamped frames for testing.
type MockSource struct {
	frames []*gocv.Mat
	times  []float64
	index  int
	loop   bool
	mu     sync.Mutex
	closed bool
}

// NewMockSource creates a MockSource over the given frames and timestamps.
// frames and times must have the same length.
func NewMockSource(frames []*gocv.Mat, times []float64, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		times:  times,
		loop:   loop,
	}
}

// Next returns the next frame as a clone, so the originals survive playback.
func (m *MockSource) Next() (*gocv.Mat, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, 0, ErrSourceClosed
	}
	if len(m.frames) == 0 {
		return nil, 0, ErrEndOfSource
	}

	if m.index >= len(m.frames) {
		if !m.loop {
			return nil, 0, ErrEndOfSource
		}
		m.index = 0
	}

	frame := m.frames[m.index].Clone()
	t := m.times[m.index]
	m.index++

	return &frame, t, nil
}

// Reset restarts playback from the beginning.
func (m *MockSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = 0
	m.closed = false
}

// Close stops playback.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
