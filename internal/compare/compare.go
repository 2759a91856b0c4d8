// Package compare aligns two completed angle timelines onto a shared
// timestamp grid and scores their similarity sample by sample.
package compare

import (
	"errors"
	"fmt"
	"math"

	"github.com/ayusman/natya/internal/timeline"
)

// zeroEps is the vector magnitude below which a cosine similarity is
// undefined.
const zeroEps = 1e-6

// ErrNoOverlap is returned when the two timelines share no time window.
var ErrNoOverlap = errors.New("no overlapping time window")

// ErrInsufficientSamples is returned when fewer than two usable samples
// remain after exclusions. It is distinct from a low score: it means the
// comparison itself could not be carried out.
var ErrInsufficientSamples = errors.New("insufficient valid samples")

// Sample is one scored point on the shared timestamp grid.
type Sample struct {
	T     float64 `json:"t"`
	Score float64 `json:"score"`
}

// Report aggregates per-sample similarity scores in [0, 1].
type Report struct {
	Mean    float64  `json:"mean"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Samples []Sample `json:"samples"`
}

// Compare resamples both timelines onto n evenly spaced timestamps across
// their overlapping window and scores each point by the cosine similarity of
// the two 4-angle vectors, mapped to [0, 1]. Samples where either vector is
// undefined or has near-zero magnitude are excluded from aggregation.
func Compare(ref, usr *timeline.Timeline, n int) (*Report, error) {
	if n < 2 {
		return nil, fmt.Errorf("sample count must be at least 2, got %d", n)
	}

	refStart, refEnd, err := ref.AngleBounds()
	if err != nil {
		return nil, fmt.Errorf("reference timeline: %w", err)
	}
	usrStart, usrEnd, err := usr.AngleBounds()
	if err != nil {
		return nil, fmt.Errorf("user timeline: %w", err)
	}

	start := math.Max(refStart, usrStart)
	end := math.Min(refEnd, usrEnd)
	if start >= end {
		return nil, ErrNoOverlap
	}

	report := &Report{
		Min: math.Inf(1),
		Max: math.Inf(-1),
	}

	var sum float64
	step := (end - start) / float64(n-1)
	for i := 0; i < n; i++ {
		t := start + float64(i)*step

		refVec, ok := angleVector(ref.Angles(), t)
		if !ok {
			continue
		}
		usrVec, ok := angleVector(usr.Angles(), t)
		if !ok {
			continue
		}

		cos, ok := cosineSimilarity(refVec, usrVec)
		if !ok {
			continue
		}

		score := (cos + 1) / 2
		report.Samples = append(report.Samples, Sample{T: t, Score: score})
		sum += score
		report.Min = math.Min(report.Min, score)
		report.Max = math.Max(report.Max, score)
	}

	if len(report.Samples) < 2 {
		return nil, ErrInsufficientSamples
	}

	report.Mean = sum / float64(len(report.Samples))
	return report, nil
}

// angleVector resamples the four angle channels of a timeline at t.
// Each channel is interpolated independently so an undefined angle in one
// joint does not poison the others.
func angleVector(recs []timeline.AngleRecord, t float64) ([4]float64, bool) {
	getters := [4]func(timeline.AngleRecord) float64{
		func(r timeline.AngleRecord) float64 { return r.ElbowL },
		func(r timeline.AngleRecord) float64 { return r.ElbowR },
		func(r timeline.AngleRecord) float64 { return r.KneeL },
		func(r timeline.AngleRecord) float64 { return r.KneeR },
	}

	var vec [4]float64
	for i, get := range getters {
		v, ok := interpChannel(recs, get, t)
		if !ok {
			return vec, false
		}
		vec[i] = v
	}
	return vec, true
}

// interpChannel reconstructs one angle channel at t by piecewise-linear
// interpolation between the bracketing records with a defined value; records
// holding NaN for this channel are skipped. Timestamps outside the channel's
// valid range clamp to the nearest defined value.
func interpChannel(recs []timeline.AngleRecord, get func(timeline.AngleRecord) float64, t float64) (float64, bool) {
	// Nearest defined record at or before t, and at or after t.
	lo := -1
	hi := -1
	for i := range recs {
		v := get(recs[i])
		if math.IsNaN(v) {
			continue
		}
		if recs[i].T <= t {
			lo = i
		}
		if recs[i].T >= t {
			hi = i
			break
		}
	}

	switch {
	case lo < 0 && hi < 0:
		return 0, false
	case lo < 0:
		return get(recs[hi]), true
	case hi < 0:
		return get(recs[lo]), true
	case lo == hi:
		// Exact hit: return the record's value unchanged.
		return get(recs[lo]), true
	}

	a, b := recs[lo], recs[hi]
	frac := (t - a.T) / (b.T - a.T)
	va, vb := get(a), get(b)
	return va + frac*(vb-va), true
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// clamped to [-1, 1]. Returns false when either magnitude is near zero.
func cosineSimilarity(a, b [4]float64) (float64, bool) {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	na = math.Sqrt(na)
	nb = math.Sqrt(nb)
	if na < zeroEps || nb < zeroEps {
		return 0, false
	}

	cos := dot / (na * nb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return cos, true
}
