package timeline

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ayusman/natya/internal/pose"
)

func TestWriteFrames_Format(t *testing.T) {
	frames := []FrameRecord{
		{T: 0.5, OK: true, Landmarks: testPoints(1)},
		{T: 1.0, OK: false},
	}

	var buf bytes.Buffer
	if err := WriteFrames(&buf, frames); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	if !strings.Contains(lines[0], `"ok":true`) || !strings.Contains(lines[0], `"kp":[[`) {
		t.Errorf("ok frame should carry landmark arrays: %s", lines[0])
	}
	if strings.Contains(lines[1], "kp") {
		t.Errorf("failed frame must omit kp: %s", lines[1])
	}
}

func TestFrames_RoundTrip(t *testing.T) {
	frames := []FrameRecord{
		{T: 0.1, OK: true, Landmarks: testPoints(0.25)},
		{T: 0.2, OK: false},
		{T: 0.3, OK: true, Landmarks: testPoints(-1.5)},
	}

	var buf bytes.Buffer
	if err := WriteFrames(&buf, frames); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadFrames(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(got) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(got))
	}
	for i := range frames {
		if got[i].T != frames[i].T || got[i].OK != frames[i].OK {
			t.Errorf("frame %d: got (t=%g ok=%v)", i, got[i].T, got[i].OK)
		}
		if got[i].Landmarks != frames[i].Landmarks {
			t.Errorf("frame %d: landmarks did not survive round trip", i)
		}
	}
}

func TestReadFrames_RejectsShortLandmarkSet(t *testing.T) {
	in := `{"t":0,"ok":true,"kp":[[1,2,3,0.9]]}`
	if _, err := ReadFrames(strings.NewReader(in)); err == nil {
		t.Error("expected error for truncated landmark set")
	}
}

func TestAngles_RoundTripWithNaN(t *testing.T) {
	angles := []AngleRecord{
		{T: 0, Angles: pose.Angles{ElbowL: math.Pi, ElbowR: math.Pi / 2, KneeL: 1.1, KneeR: 0.9}},
		{T: 0.5, Angles: pose.Angles{ElbowL: math.NaN(), ElbowR: 1, KneeL: 1, KneeR: 1}},
	}

	var buf bytes.Buffer
	if err := WriteAngles(&buf, angles); err != nil {
		t.Fatalf("write: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "t,elbow_L,elbow_R,knee_L,knee_R\n") {
		t.Errorf("unexpected header: %s", buf.String())
	}

	got, err := ReadAngles(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	if math.Abs(got[0].ElbowL-math.Pi) > 1e-12 {
		t.Errorf("elbow_L: got %g", got[0].ElbowL)
	}
	if !math.IsNaN(got[1].ElbowL) {
		t.Errorf("undefined angle must survive the round trip as NaN, got %g", got[1].ElbowL)
	}
	if got[1].ElbowR != 1 {
		t.Errorf("elbow_R: got %g", got[1].ElbowR)
	}
}

func TestReadAngles_RejectsBadHeader(t *testing.T) {
	in := "time,a,b,c,d\n0,1,1,1,1\n"
	if _, err := ReadAngles(strings.NewReader(in)); err == nil {
		t.Error("expected error for wrong header")
	}
}
