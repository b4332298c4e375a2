package firdesign

import "github.com/tphakala/go-fir-designer/internal/mathutil"

// Request defaults
const (
	// DefaultMaxIterations is the validator's retry budget.
	DefaultMaxIterations = 50

	// DefaultPrecision is the synthesis precision in bits.
	DefaultPrecision = mathutil.DefaultPrecision

	// DefaultBesselMaxIterations bounds the I₀ series of the Kaiser window.
	DefaultBesselMaxIterations = mathutil.DefaultBesselMaxIterations

	// DefaultBesselTolerance stops the I₀ series early.
	DefaultBesselTolerance = mathutil.DefaultBesselTolerance
)

// Refinement steps
const (
	// rippleShrink scales the design ripple after a passband failure.
	rippleShrink = 0.9

	// attenuationStep is added to the design attenuation after a stopband
	// failure, in dB.
	attenuationStep = 0.5
)

// Normalized frequency axis
const (
	nyquist        = 0.5
	bandCutoffSize = 2
)
