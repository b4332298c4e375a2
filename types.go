package firdesign

import (
	"github.com/tphakala/go-fir-designer/internal/filter"
	"github.com/tphakala/go-fir-designer/internal/precision"
	"github.com/tphakala/go-fir-designer/internal/spectrum"
)

// FilterType selects the filter shape.
type FilterType = filter.Type

// Filter shapes.
const (
	Lowpass  = filter.Lowpass
	Highpass = filter.Highpass
	Bandpass = filter.Bandpass
	Bandstop = filter.Bandstop
)

// TapKind selects real or complex taps.
type TapKind = filter.Kind

// Tap kinds.
const (
	TapsReal    = filter.Real
	TapsComplex = filter.Complex
)

// Width is the floating-point width of the output taps.
type Width = precision.Width

// Output widths.
const (
	WidthDouble = precision.WidthDouble
	WidthSingle = precision.WidthSingle
	WidthHalf   = precision.WidthHalf
)

// TapSequence is a high-precision tap sequence as produced by synthesis.
type TapSequence = filter.Taps

// OutputTaps is a tap sequence rounded to an output width.
type OutputTaps = precision.Taps

// BandResponse is the measured minimum and maximum gain of one band, in dB.
type BandResponse = spectrum.BandResponse

// SpecResult is the outcome of measuring taps against tolerances.
type SpecResult = spectrum.SpecResult

// FailureReason names the band class that failed a measurement.
type FailureReason = spectrum.FailureReason

// Failure reasons.
const (
	FailureNone     = spectrum.FailureNone
	FailurePassband = spectrum.FailurePassband
	FailureStopband = spectrum.FailureStopband
)
