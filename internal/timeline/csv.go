package timeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ayusman/natya/internal/pose"
)

var angleHeader = []string{"t", "elbow_L", "elbow_R", "knee_L", "knee_R"}

// WriteAngles writes angle records as CSV with the fixed five-column header.
// Undefined angles are written as NaN, which round-trips through ParseFloat.
func WriteAngles(w io.Writer, angles []AngleRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(angleHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, a := range angles {
		row := []string{
			formatFloat(a.T),
			formatFloat(a.ElbowL),
			formatFloat(a.ElbowR),
			formatFloat(a.KneeL),
			formatFloat(a.KneeR),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadAngles reads angle records from CSV written by WriteAngles.
func ReadAngles(r io.Reader) ([]AngleRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(angleHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(angleHeader), len(header))
	}
	for i, name := range angleHeader {
		if header[i] != name {
			return nil, fmt.Errorf("expected column %q at position %d, got %q", name, i, header[i])
		}
	}

	var angles []AngleRecord
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		row++

		vals := make([]float64, len(rec))
		for i, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, angleHeader[i], err)
			}
			vals[i] = v
		}

		angles = append(angles, AngleRecord{
			T: vals[0],
			Angles: pose.Angles{
				ElbowL: vals[1],
				ElbowR: vals[2],
				KneeL:  vals[3],
				KneeR:  vals[4],
			},
		})
	}

	return angles, nil
}

// SaveAngles writes angle records to a CSV file.
func SaveAngles(path string, angles []AngleRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteAngles(f, angles); err != nil {
		return err
	}
	return f.Close()
}

// LoadAngles reads angle records from a CSV file.
func LoadAngles(path string) ([]AngleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ReadAngles(f)
}

// Load reads a persisted timeline from its JSONL frame log and CSV angle
// table.
func Load(space pose.CoordSpace, jsonlPath, csvPath string) (*Timeline, error) {
	frames, err := LoadFrames(jsonlPath)
	if err != nil {
		return nil, err
	}

	angles, err := LoadAngles(csvPath)
	if err != nil {
		return nil, err
	}

	return New(space, frames, angles)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
