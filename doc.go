// Package firdesign designs and validates FIR filters in pure Go.
//
// Taps are synthesized in arbitrary precision with the Kaiser-windowed sinc
// method, rounded to the floating-point width the caller will filter with,
// and measured with an FFT against the requested passband ripple and
// stopband attenuation. When a design misses its tolerances the design
// parameters are tightened and the filter is synthesized again, up to a
// fixed retry budget.
//
// # Features
//
//   - Lowpass, highpass, bandpass and bandstop shapes
//   - Real taps, or complex taps for asymmetric (single-sided) passbands
//   - Arbitrary-precision synthesis via math/big (192 bits by default)
//   - Output rounding to float64, float32 or float16
//   - FFT-based verification of every band, including interpolated band edges
//   - Parks–McClellan (Remez exchange) equiripple design
//   - JSON encoding compatible with the browser front end's message protocol
//
// # Quick Start
//
// Design a lowpass filter and check that it meets its tolerances:
//
//	res, err := firdesign.DesignAndValidate(firdesign.DesignRequest{
//	    FilterType:             firdesign.Lowpass,
//	    TapKind:                firdesign.TapsReal,
//	    OutputWidth:            firdesign.WidthSingle,
//	    Cutoff:                 firdesign.SingleCutoff(0.25),
//	    TransitionBandwidth:    0.1,
//	    MinStopbandAttenuation: 60,
//	    MaxPassbandRipple:      0.1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !res.SpecMet {
//	    log.Printf("closest design after %d attempts: %v", res.Iterations, res.Stopband)
//	}
//	use(res.Taps.Real)
//
// A result whose SpecMet is false is not an error: it carries the last
// attempt's taps and measured responses so the caller can see how far off
// it was.
//
// # Frequencies
//
// All frequencies are normalized to the sample rate, so the Nyquist
// frequency is 0.5. Real filters are measured over [0, 0.5]; complex
// filters over [-0.5, 0.5] since their response is not symmetric.
//
// # Equiripple Design
//
// [DesignEquiripple] runs the Remez exchange over arbitrary bands:
//
//	res, err := firdesign.DesignEquiripple(firdesign.EquirippleRequest{
//	    Edges:   []float64{0, 0.2, 0.3, 0.5},
//	    Desired: []float64{1, 0},
//	    NumTaps: 31,
//	})
//
// # Thread Safety
//
// Every function is a pure computation over its arguments and may be called
// concurrently.
package firdesign
