// Package spectrum measures the magnitude response of FIR taps over sets of
// frequency bands and checks it against passband and stopband tolerances.
//
// Frequencies are normalized to the sample rate. The measured axis runs from
// -0.5 to just below 0.5; real taps only need the non-negative half.
package spectrum

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBandEdges is returned when band edges do not come in pairs.
	ErrInvalidBandEdges = errors.New("invalid number of band edges")

	// ErrUnorderedBandEdges is returned when band edges decrease.
	ErrUnorderedBandEdges = errors.New("band edges must be non-decreasing")

	// ErrInvalidTolerance is returned when a set of bands has no tolerance.
	ErrInvalidTolerance = errors.New("missing band tolerance")

	// ErrNoTaps is returned when measuring an empty tap sequence.
	ErrNoTaps = errors.New("no taps to measure")
)

// BandEdges is a flat list of band boundaries: [start₀, end₀, start₁, end₁, …].
type BandEdges []float64

// Validate checks that the edges come in pairs and never decrease.
func (e BandEdges) Validate() error {
	if len(e)%2 != 0 {
		return fmt.Errorf("%w: %d edges", ErrInvalidBandEdges, len(e))
	}
	for i := 1; i < len(e); i++ {
		if e[i] < e[i-1] {
			return fmt.Errorf("%w: edge %d (%g) < edge %d (%g)", ErrUnorderedBandEdges, i, e[i], i-1, e[i-1])
		}
	}
	return nil
}

// Bands returns the number of bands.
func (e BandEdges) Bands() int {
	return len(e) / 2
}

// Band returns the start and end of band i.
func (e BandEdges) Band(i int) (start, end float64) {
	return e[2*i], e[2*i+1]
}

// Width returns the total measure of all bands.
func (e BandEdges) Width() float64 {
	var total float64
	for i := range e.Bands() {
		start, end := e.Band(i)
		total += end - start
	}
	return total
}

// Clamp returns a copy with every edge limited to [lo, hi].
func (e BandEdges) Clamp(lo, hi float64) BandEdges {
	out := make(BandEdges, len(e))
	for i, v := range e {
		out[i] = min(max(v, lo), hi)
	}
	return out
}

// EvenlySpacedSamples spreads count samples uniformly over the union of the
// bands, stepping across the gaps between them. The first and last samples
// are exactly the first and last edges.
//
//	EvenlySpacedSamples(5, [0, 1, 2, 3]) = [0, 0.5, 1, 2.5, 3]
func EvenlySpacedSamples(count int, edges BandEdges) ([]float64, error) {
	if err := edges.Validate(); err != nil {
		return nil, err
	}
	if len(edges) == 0 || count <= 0 {
		return nil, nil
	}
	if count == 1 {
		return []float64{edges[0]}, nil
	}

	step := edges.Width() / float64(count-1)
	bands := edges.Bands()

	out := make([]float64, 0, count)
	out = append(out, edges[0])

	band := 0
	cur := edges[0]
	for range count - 2 {
		remaining := step
		for band < bands-1 {
			_, end := edges.Band(band)
			if cur+remaining <= end {
				break
			}
			remaining -= end - cur
			band++
			cur, _ = edges.Band(band)
		}
		cur += remaining
		out = append(out, cur)
	}

	return append(out, edges[len(edges)-1]), nil
}
