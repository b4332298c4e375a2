package firdesign

import (
	"github.com/tphakala/go-fir-designer/internal/filter"
	"github.com/tphakala/go-fir-designer/internal/mathutil"
)

// DesignParameters are the inputs of one synthesis attempt. The validator
// never modifies a DesignParameters value; each retry derives a new one with
// WithMaxPassbandRipple or WithMinStopbandAttenuation, so every attempt's
// inputs can be inspected on their own.
type DesignParameters struct {
	FilterType             FilterType `json:"filterType"`
	TapKind                TapKind    `json:"tapNumericType"`
	Cutoff                 Cutoff     `json:"cutoffFreq"`
	TransitionBandwidth    float64    `json:"transitionBandwidth"`
	MinStopbandAttenuation float64    `json:"minStopbandAttenuation"`
	MaxPassbandRipple      float64    `json:"maxPassbandRipple"`
	BesselMaxIterations    int        `json:"besselMaxIterations"`
	BesselTolerance        float64    `json:"besselTolerance"`
	ExplicitTapCount       int        `json:"explicitTapCount,omitempty"`
}

// Parameters returns the initial design parameters of a request, with
// defaults applied.
func (r DesignRequest) Parameters() DesignParameters {
	r = r.withDefaults()
	return DesignParameters{
		FilterType:             r.FilterType,
		TapKind:                r.TapKind,
		Cutoff:                 r.Cutoff,
		TransitionBandwidth:    r.TransitionBandwidth,
		MinStopbandAttenuation: r.MinStopbandAttenuation,
		MaxPassbandRipple:      r.MaxPassbandRipple,
		BesselMaxIterations:    r.BesselMaxIterations,
		BesselTolerance:        r.BesselTolerance,
		ExplicitTapCount:       r.ExplicitTapCount,
	}
}

// WithMaxPassbandRipple returns a copy with a different design ripple.
func (p DesignParameters) WithMaxPassbandRipple(ripple float64) DesignParameters {
	p.MaxPassbandRipple = ripple
	return p
}

// WithMinStopbandAttenuation returns a copy with a different design
// attenuation.
func (p DesignParameters) WithMinStopbandAttenuation(attenuation float64) DesignParameters {
	p.MinStopbandAttenuation = attenuation
	return p
}

// Attenuation returns the attenuation the window is sized for: the
// requested stopband attenuation, raised if the passband ripple demands
// more.
func (p DesignParameters) Attenuation() float64 {
	return mathutil.DesignAttenuation(p.MinStopbandAttenuation, p.MaxPassbandRipple)
}

// Beta returns the Kaiser window parameter.
func (p DesignParameters) Beta() float64 {
	return mathutil.KaiserBeta(p.Attenuation())
}

// NumTaps returns the filter length, always odd.
func (p DesignParameters) NumTaps() int {
	if p.ExplicitTapCount > 0 {
		return p.ExplicitTapCount | 1
	}
	return mathutil.EstimateKaiserTapCount(p.Attenuation(), p.TransitionBandwidth)
}

func (p DesignParameters) spec() filter.Spec {
	return filter.Spec{
		Type:                p.FilterType,
		Kind:                p.TapKind,
		Cutoff:              p.Cutoff.Low,
		CutoffHigh:          p.Cutoff.High,
		NumTaps:             p.NumTaps(),
		Beta:                p.Beta(),
		BesselMaxIterations: p.BesselMaxIterations,
		BesselTolerance:     p.BesselTolerance,
	}
}
