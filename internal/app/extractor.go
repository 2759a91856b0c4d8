package app

import (
	"errors"
	"fmt"
	"log"

	"github.com/ayusman/natya/internal/capture"
	"github.com/ayusman/natya/internal/detector"
	"github.com/ayusman/natya/internal/pose"
	"github.com/ayusman/natya/internal/timeline"
)

// ExtractConfig holds the knobs for one extraction run.
type ExtractConfig struct {
	// SampleHz is the target sampling rate of the produced timeline.
	SampleHz float64
	// Alpha is the EMA smoothing factor in (0, 1].
	Alpha float64
	// Tolerance is the maximum distance between a target timestamp and the
	// source frame serving it. Zero selects half the sample interval.
	Tolerance float64
}

// DefaultExtractConfig mirrors the defaults used for reference videos.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		SampleHz: 15,
		Alpha:    0.7,
	}
}

// Extractor converts a frame source into a completed Timeline: sampling at
// the target rate, detecting a pose per sampled frame, smoothing the
// landmark stream, and extracting joint angles.
type Extractor struct {
	detector detector.Detector
	config   ExtractConfig
}

// NewExtractor creates an Extractor using the given detector.
func NewExtractor(d detector.Detector, config ExtractConfig) *Extractor {
	return &Extractor{
		detector: d,
		config:   config,
	}
}

// Run processes the source until exhaustion and returns the completed
// timeline. The run owns its smoothing state; concurrent runs need separate
// Extractor calls with separate sources but may share the Extractor value
// only if the detector is safe for concurrent use.
//
// The timeline's coordinate space is fixed by the first successful
// detection; later frames resolving to a different space are recorded as
// detection misses so a single timeline never mixes units.
func (e *Extractor) Run(src capture.FrameSource) (*timeline.Timeline, error) {
	smoother, err := pose.NewSmoother(e.config.Alpha)
	if err != nil {
		return nil, err
	}

	builder, err := timeline.NewBuilder(e.config.SampleHz, e.config.Tolerance)
	if err != nil {
		return nil, err
	}

	var space pose.CoordSpace

	for {
		mat, t, err := src.Next()
		if errors.Is(err, capture.ErrEndOfSource) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read source frame: %w", err)
		}

		decision, err := builder.Offer(t)
		if err != nil {
			mat.Close()
			return nil, err
		}
		if decision != timeline.Sample {
			mat.Close()
			continue
		}

		det, err := e.detector.Detect(mat)
		mat.Close()
		if err != nil {
			log.Printf("Detection error at t=%.3f: %v", t, err)
			builder.AddMiss(t)
			continue
		}

		snap, ok := pose.Select(det)
		if !ok {
			builder.AddMiss(t)
			continue
		}

		if space == "" {
			space = snap.Space
		} else if snap.Space != space {
			builder.AddMiss(t)
			continue
		}

		pts := smoother.Apply(snap.Points)
		builder.AddFrame(t, pts, pose.ExtractAngles(pts))
	}

	if space == "" {
		space = pose.WorldSpace
	}
	return builder.Finish(space)
}

// ExtractToFiles runs an extraction and persists the timeline's frame log
// and angle table.
func (e *Extractor) ExtractToFiles(src capture.FrameSource, jsonlPath, csvPath string) (*timeline.Timeline, error) {
	tl, err := e.Run(src)
	if err != nil {
		return nil, err
	}

	if err := timeline.SaveFrames(jsonlPath, tl.Frames()); err != nil {
		return nil, err
	}
	if err := timeline.SaveAngles(csvPath, tl.Angles()); err != nil {
		return nil, err
	}

	return tl, nil
}
