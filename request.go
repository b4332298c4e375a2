package firdesign

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRequest indicates a design request that cannot be synthesized.
var ErrInvalidRequest = errors.New("invalid design request")

// Cutoff is either a single cutoff frequency (lowpass, highpass) or a
// [Low, High] band (bandpass, bandstop). In JSON it is a number or a
// two-element array.
type Cutoff struct {
	Low    float64
	High   float64
	IsBand bool
}

// SingleCutoff returns the cutoff of a lowpass or highpass filter.
func SingleCutoff(f float64) Cutoff {
	return Cutoff{Low: f}
}

// BandCutoff returns the band edges of a bandpass or bandstop filter.
func BandCutoff(low, high float64) Cutoff {
	return Cutoff{Low: low, High: high, IsBand: true}
}

func (c Cutoff) String() string {
	if c.IsBand {
		return fmt.Sprintf("[%g, %g]", c.Low, c.High)
	}
	return fmt.Sprintf("%g", c.Low)
}

// MarshalJSON implements json.Marshaler.
func (c Cutoff) MarshalJSON() ([]byte, error) {
	if c.IsBand {
		return json.Marshal([bandCutoffSize]float64{c.Low, c.High})
	}
	return json.Marshal(c.Low)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cutoff) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != bandCutoffSize {
			return fmt.Errorf("cutoff band needs 2 frequencies, got %d", len(pair))
		}
		*c = BandCutoff(pair[0], pair[1])
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = SingleCutoff(f)
	return nil
}

// DesignRequest describes a Kaiser-window design and the tolerances its
// measured response must meet.
type DesignRequest struct {
	FilterType  FilterType `json:"filterType"`
	TapKind     TapKind    `json:"tapNumericType"`
	OutputWidth Width      `json:"outputDatatype"`

	// Cutoff is normalized to the sample rate, in [0, 0.5].
	Cutoff Cutoff `json:"cutoffFreq"`

	// TransitionBandwidth is the normalized width of each transition band,
	// centred on the cutoff.
	TransitionBandwidth float64 `json:"transitionBandwidth"`

	// MinStopbandAttenuation is the required attenuation in dB (positive).
	MinStopbandAttenuation float64 `json:"minStopbandAttenuation"`

	// MaxPassbandRipple is the allowed passband deviation from 0 dB.
	MaxPassbandRipple float64 `json:"maxPassbandRipple"`

	// BesselMaxIterations bounds the I₀ series. Zero selects
	// DefaultBesselMaxIterations.
	BesselMaxIterations int `json:"besselMaxIterations,omitempty"`

	// BesselTolerance stops the I₀ series early. Zero selects
	// DefaultBesselTolerance.
	BesselTolerance float64 `json:"besselTolerance,omitempty"`

	// ExplicitTapCount fixes the filter length instead of estimating it
	// from the tolerances. Even counts are rounded up to odd.
	ExplicitTapCount int `json:"explicitTapCount,omitempty"`

	// MaxIterations is the retry budget. Zero selects DefaultMaxIterations.
	MaxIterations int `json:"maxIterations,omitempty"`

	// Precision is the synthesis precision in bits. Zero selects
	// DefaultPrecision.
	Precision uint `json:"precision,omitempty"`
}

// withDefaults returns a copy with zero-valued options filled in.
func (r DesignRequest) withDefaults() DesignRequest {
	if r.BesselMaxIterations == 0 {
		r.BesselMaxIterations = DefaultBesselMaxIterations
	}
	if r.BesselTolerance == 0 {
		r.BesselTolerance = DefaultBesselTolerance
	}
	if r.MaxIterations == 0 {
		r.MaxIterations = DefaultMaxIterations
	}
	if r.Precision == 0 {
		r.Precision = DefaultPrecision
	}
	return r
}

// Validate checks the request. Zero-valued options are valid and mean
// "use the default".
func (r *DesignRequest) Validate() error {
	if !r.OutputWidth.Valid() {
		return fmt.Errorf("%w: unknown output width %d", ErrInvalidRequest, int(r.OutputWidth))
	}
	if r.TapKind != TapsReal && r.TapKind != TapsComplex {
		return fmt.Errorf("%w: unknown tap kind %d", ErrInvalidRequest, int(r.TapKind))
	}

	switch r.FilterType {
	case Lowpass, Highpass:
		if r.Cutoff.IsBand {
			return fmt.Errorf("%w: %s needs a single cutoff, got %s", ErrInvalidRequest, r.FilterType, r.Cutoff)
		}
	case Bandpass, Bandstop:
		if !r.Cutoff.IsBand {
			return fmt.Errorf("%w: %s needs a [low, high] cutoff, got %s", ErrInvalidRequest, r.FilterType, r.Cutoff)
		}
		if err := checkFrequency("upper cutoff", r.Cutoff.High); err != nil {
			return err
		}
		if r.Cutoff.Low >= r.Cutoff.High {
			return fmt.Errorf("%w: cutoff band %s is empty", ErrInvalidRequest, r.Cutoff)
		}
	default:
		return fmt.Errorf("%w: unknown filter type %d", ErrInvalidRequest, int(r.FilterType))
	}
	if err := checkFrequency("cutoff", r.Cutoff.Low); err != nil {
		return err
	}

	if !(r.TransitionBandwidth > 0) || r.TransitionBandwidth > nyquist {
		return fmt.Errorf("%w: transition bandwidth %g must be in (0, 0.5]", ErrInvalidRequest, r.TransitionBandwidth)
	}
	if !(r.MinStopbandAttenuation >= 0) || math.IsInf(r.MinStopbandAttenuation, 0) {
		return fmt.Errorf("%w: stopband attenuation %g must be a non-negative number", ErrInvalidRequest, r.MinStopbandAttenuation)
	}
	if !(r.MaxPassbandRipple >= 0) || math.IsInf(r.MaxPassbandRipple, 0) {
		return fmt.Errorf("%w: passband ripple %g must be a non-negative number", ErrInvalidRequest, r.MaxPassbandRipple)
	}
	if r.BesselMaxIterations < 0 {
		return fmt.Errorf("%w: bessel iterations %d must be positive", ErrInvalidRequest, r.BesselMaxIterations)
	}
	if r.BesselTolerance != 0 && !(r.BesselTolerance > 0 && r.BesselTolerance < 1) {
		return fmt.Errorf("%w: bessel tolerance %g outside (0, 1)", ErrInvalidRequest, r.BesselTolerance)
	}
	if r.ExplicitTapCount < 0 {
		return fmt.Errorf("%w: tap count %d must not be negative", ErrInvalidRequest, r.ExplicitTapCount)
	}
	if r.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d must not be negative", ErrInvalidRequest, r.MaxIterations)
	}
	return nil
}

func checkFrequency(name string, f float64) error {
	if !(f >= 0 && f <= nyquist) {
		return fmt.Errorf("%w: %s %g outside [0, 0.5]", ErrInvalidRequest, name, f)
	}
	return nil
}
