package timeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ayusman/natya/internal/pose"
)

// jsonFrame is the persisted per-frame record: one JSON object per line.
// kp is omitted entirely for failed detections.
type jsonFrame struct {
	T  float64         `json:"t"`
	OK bool            `json:"ok"`
	KP []pose.Landmark `json:"kp,omitempty"`
}

// WriteFrames writes frame records as line-delimited JSON.
func WriteFrames(w io.Writer, frames []FrameRecord) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	for i, f := range frames {
		rec := jsonFrame{T: f.T, OK: f.OK}
		if f.OK {
			rec.KP = f.Landmarks[:]
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// ReadFrames reads line-delimited frame records.
func ReadFrames(r io.Reader) ([]FrameRecord, error) {
	var frames []FrameRecord

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}

		var rec jsonFrame
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("parse frame at line %d: %w", line, err)
		}

		f := FrameRecord{T: rec.T, OK: rec.OK}
		if rec.OK {
			if len(rec.KP) != pose.NumLandmarks {
				return nil, fmt.Errorf("frame at line %d: expected %d landmarks, got %d",
					line, pose.NumLandmarks, len(rec.KP))
			}
			copy(f.Landmarks[:], rec.KP)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}

	return frames, nil
}

// SaveFrames writes the timeline's frame records to a JSONL file.
func SaveFrames(path string, frames []FrameRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteFrames(f, frames); err != nil {
		return err
	}
	return f.Close()
}

// LoadFrames reads frame records from a JSONL file.
func LoadFrames(path string) ([]FrameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ReadFrames(f)
}
