package spectrum

import (
	"encoding/json"
	"fmt"
	"math"
)

// BandResponse is the extreme magnitude response over one band, in dB.
type BandResponse struct {
	MinDB float64
	MaxDB float64
}

// bandResponseJSON carries non-finite readings as the strings "-Infinity",
// "Infinity" and "NaN", which encoding/json cannot emit as numbers.
type bandResponseJSON struct {
	MinValue json.RawMessage `json:"minValue"`
	MaxValue json.RawMessage `json:"maxValue"`
}

// MarshalJSON implements json.Marshaler.
func (r BandResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(bandResponseJSON{
		MinValue: encodeDB(r.MinDB),
		MaxValue: encodeDB(r.MaxDB),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *BandResponse) UnmarshalJSON(data []byte) error {
	var raw bandResponseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lo, err := decodeDB(raw.MinValue)
	if err != nil {
		return fmt.Errorf("minValue: %w", err)
	}
	hi, err := decodeDB(raw.MaxValue)
	if err != nil {
		return fmt.Errorf("maxValue: %w", err)
	}
	r.MinDB, r.MaxDB = lo, hi
	return nil
}

func encodeDB(v float64) json.RawMessage {
	switch {
	case math.IsInf(v, -1):
		return json.RawMessage(`"-Infinity"`)
	case math.IsInf(v, 1):
		return json.RawMessage(`"Infinity"`)
	case math.IsNaN(v):
		return json.RawMessage(`"NaN"`)
	}
	b, _ := json.Marshal(v)
	return b
}

func decodeDB(data json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "-Infinity":
			return math.Inf(-1), nil
		case "Infinity":
			return math.Inf(1), nil
		case "NaN":
			return math.NaN(), nil
		}
		return 0, fmt.Errorf("invalid decibel value %q", s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// FailureReason names the first tolerance a response violated.
type FailureReason int

// Failure reasons, in the order they are checked.
const (
	FailureNone FailureReason = iota
	FailurePassband
	FailureStopband
)

func (f FailureReason) String() string {
	switch f {
	case FailurePassband:
		return "passband"
	case FailureStopband:
		return "stopband"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f FailureReason) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FailureReason) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*f = FailureNone
	case "passband":
		*f = FailurePassband
	case "stopband":
		*f = FailureStopband
	default:
		return fmt.Errorf("unknown failure reason %q", text)
	}
	return nil
}

// SpecResult is the outcome of checking a response against tolerances.
type SpecResult struct {
	SpecMet       bool           `json:"specMet"`
	Passband      []BandResponse `json:"filterPassbandResponse"`
	Stopband      []BandResponse `json:"filterStopbandResponse"`
	FailureReason FailureReason  `json:"failureReason,omitempty"`
}

// MeasureBandResponse measures the minimum and maximum response of taps over
// each band of edges. Edges are validated before any transform is done.
func MeasureBandResponse(taps []complex128, edges BandEdges) ([]BandResponse, error) {
	if err := edges.Validate(); err != nil {
		return nil, err
	}
	if len(taps) == 0 {
		return nil, ErrNoTaps
	}
	return MeasureResponseDB(FrequencyResponseDB(taps, DefaultPaddingScalar), edges)
}

// MeasureResponseDB measures each band of edges on a response computed by
// FrequencyResponseDB. A band is seeded with the interpolated readings at
// its edges, then every bin between them is scanned.
func MeasureResponseDB(responseDB []float64, edges BandEdges) ([]BandResponse, error) {
	if err := edges.Validate(); err != nil {
		return nil, err
	}
	if len(responseDB) == 0 {
		return nil, ErrNoTaps
	}

	n := len(responseDB)
	centre := float64(n / 2)
	out := make([]BandResponse, edges.Bands())

	for i := range out {
		start, end := edges.Band(i)
		first := Interpolate(start, responseDB)
		last := Interpolate(end, responseDB)
		r := BandResponse{MinDB: min(first, last), MaxDB: max(first, last)}

		lo := max(int(math.Ceil(start*float64(n)+centre)), 0)
		hi := min(int(math.Floor(end*float64(n)+centre)), n-1)
		for k := lo; k <= hi; k++ {
			r.MinDB = min(r.MinDB, responseDB[k])
			r.MaxDB = max(r.MaxDB, responseDB[k])
		}
		out[i] = r
	}
	return out, nil
}

// TestAgainstSpec measures taps over the passband and stopband edges and
// checks them in order:
//
//   - a passband fails when |max| or |min| exceeds its allowed ripple (dB);
//   - a stopband fails when its max exceeds the desired level (dB, negative
//     for attenuation).
//
// The first failing band decides the reason. allowedRipple and desiredStop
// give one value per band; bands beyond the end of a list reuse its last
// value.
func TestAgainstSpec(taps []complex128, passEdges, stopEdges BandEdges, allowedRipple, desiredStop []float64) (SpecResult, error) {
	if err := passEdges.Validate(); err != nil {
		return SpecResult{}, fmt.Errorf("passband: %w", err)
	}
	if err := stopEdges.Validate(); err != nil {
		return SpecResult{}, fmt.Errorf("stopband: %w", err)
	}
	if passEdges.Bands() > 0 && len(allowedRipple) == 0 {
		return SpecResult{}, fmt.Errorf("%w: passband ripple", ErrInvalidTolerance)
	}
	if stopEdges.Bands() > 0 && len(desiredStop) == 0 {
		return SpecResult{}, fmt.Errorf("%w: stopband attenuation", ErrInvalidTolerance)
	}
	if len(taps) == 0 {
		return SpecResult{}, ErrNoTaps
	}

	responseDB := FrequencyResponseDB(taps, DefaultPaddingScalar)
	pass, err := MeasureResponseDB(responseDB, passEdges)
	if err != nil {
		return SpecResult{}, err
	}
	stop, err := MeasureResponseDB(responseDB, stopEdges)
	if err != nil {
		return SpecResult{}, err
	}

	result := SpecResult{SpecMet: true, Passband: pass, Stopband: stop}

	for i, r := range pass {
		allowed := toleranceFor(allowedRipple, i)
		if math.Abs(r.MaxDB) > allowed || math.Abs(r.MinDB) > allowed {
			result.SpecMet = false
			result.FailureReason = FailurePassband
			return result, nil
		}
	}
	for i, r := range stop {
		if r.MaxDB > toleranceFor(desiredStop, i) {
			result.SpecMet = false
			result.FailureReason = FailureStopband
			return result, nil
		}
	}
	return result, nil
}

func toleranceFor(values []float64, band int) float64 {
	return values[min(band, len(values)-1)]
}
