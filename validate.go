package firdesign

import (
	"fmt"

	"github.com/tphakala/go-fir-designer/internal/filter"
	"github.com/tphakala/go-fir-designer/internal/mathutil"
	"github.com/tphakala/go-fir-designer/internal/precision"
	"github.com/tphakala/go-fir-designer/internal/spectrum"
)

// ValidatedFilterResult is the outcome of DesignAndValidate.
type ValidatedFilterResult struct {
	// Taps are the final attempt's taps at the requested output width.
	Taps OutputTaps

	// SpecMet reports whether Taps meet the requested tolerances.
	SpecMet bool

	// FailureReason names the failing band class when SpecMet is false.
	FailureReason FailureReason

	// Passband and Stopband are the measured responses of Taps, one entry
	// per band.
	Passband []BandResponse
	Stopband []BandResponse

	// PassbandEdges and StopbandEdges are the bands that were measured.
	PassbandEdges []float64
	StopbandEdges []float64

	// Iterations is the number of synthesis attempts made.
	Iterations int

	// Parameters are the inputs of the final attempt.
	Parameters DesignParameters
}

// BandLayout returns the passband and stopband edges a request is measured
// against. Real filters are measured over [0, 0.5]; complex filters over
// [-0.5, 0.5], with negative frequencies mirrored for the symmetric shapes.
func BandLayout(ft FilterType, kind TapKind, cutoff Cutoff, transitionBandwidth float64) (pass, stop []float64) {
	h := transitionBandwidth / 2
	c, lo, hi := cutoff.Low, cutoff.Low, cutoff.High

	if kind == TapsComplex {
		switch ft {
		case Lowpass:
			pass = []float64{-(c - h), c - h}
			stop = []float64{-nyquist, -(c + h), c + h, nyquist}
		case Highpass:
			pass = []float64{-nyquist, -(c + h), c + h, nyquist}
			stop = []float64{-(c - h), c - h}
		case Bandpass:
			pass = []float64{lo + h, hi - h}
			stop = []float64{-nyquist, lo - h, hi + h, nyquist}
		case Bandstop:
			pass = []float64{-nyquist, -(hi + h), -(lo - h), lo - h, hi + h, nyquist}
			stop = []float64{-(hi - h), -(lo + h), lo + h, hi - h}
		}
	} else {
		switch ft {
		case Lowpass:
			pass = []float64{0, c - h}
			stop = []float64{c + h, nyquist}
		case Highpass:
			pass = []float64{c + h, nyquist}
			stop = []float64{0, c - h}
		case Bandpass:
			pass = []float64{lo + h, hi - h}
			stop = []float64{0, lo - h, hi + h, nyquist}
		case Bandstop:
			pass = []float64{0, lo - h, hi + h, nyquist}
			stop = []float64{lo + h, hi - h}
		}
	}

	return spectrum.BandEdges(pass).Clamp(-nyquist, nyquist), spectrum.BandEdges(stop).Clamp(-nyquist, nyquist)
}

// DesignAndValidate synthesizes the requested filter, rounds it to the
// output width and measures it. While the measurement fails, the design
// ripple is shrunk (passband failure) or the design attenuation raised
// (stopband failure) and the filter is synthesized again. Measurements
// always use the requested tolerances.
//
// Running out of iterations is not an error: the result then has SpecMet
// false and holds the last attempt.
func DesignAndValidate(req DesignRequest) (*ValidatedFilterResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()

	passEdges, stopEdges := BandLayout(req.FilterType, req.TapKind, req.Cutoff, req.TransitionBandwidth)
	if err := checkLayout(passEdges, stopEdges); err != nil {
		return nil, err
	}

	ctx := mathutil.NewContext(req.Precision)
	allowedRipple := []float64{req.MaxPassbandRipple}
	desiredStop := []float64{-req.MinStopbandAttenuation}

	var result *ValidatedFilterResult
	params := req.Parameters()
	for iter := 1; iter <= req.MaxIterations; iter++ {
		taps, err := filter.Synthesize(ctx, params.spec())
		if err != nil {
			return nil, fmt.Errorf("%w: attempt %d: %w", ErrInvalidRequest, iter, err)
		}
		cast := precision.Cast(taps, req.OutputWidth)

		check, err := spectrum.TestAgainstSpec(cast.Complex128(), passEdges, stopEdges, allowedRipple, desiredStop)
		if err != nil {
			return nil, fmt.Errorf("measuring attempt %d: %w", iter, err)
		}

		result = &ValidatedFilterResult{
			Taps:          cast,
			SpecMet:       check.SpecMet,
			FailureReason: check.FailureReason,
			Passband:      check.Passband,
			Stopband:      check.Stopband,
			PassbandEdges: passEdges,
			StopbandEdges: stopEdges,
			Iterations:    iter,
			Parameters:    params,
		}

		switch check.FailureReason {
		case FailureNone:
			return result, nil
		case FailurePassband:
			params = params.WithMaxPassbandRipple(params.MaxPassbandRipple * rippleShrink)
		case FailureStopband:
			params = params.WithMinStopbandAttenuation(params.MinStopbandAttenuation + attenuationStep)
		}
	}
	return result, nil
}

// checkLayout rejects transition bands that leave a passband or stopband
// with negative width.
func checkLayout(pass, stop spectrum.BandEdges) error {
	if err := pass.Validate(); err != nil {
		return fmt.Errorf("%w: passband %v: %w", ErrInvalidRequest, []float64(pass), err)
	}
	if err := stop.Validate(); err != nil {
		return fmt.Errorf("%w: stopband %v: %w", ErrInvalidRequest, []float64(stop), err)
	}
	return nil
}
