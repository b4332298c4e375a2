package firdesign

import (
	"fmt"

	"github.com/tphakala/go-fir-designer/internal/filter"
	"github.com/tphakala/go-fir-designer/internal/mathutil"
	"github.com/tphakala/go-fir-designer/internal/spectrum"
)

// DesignRaw synthesizes the request's initial design without measuring or
// rounding it. OutputWidth and MaxIterations are ignored.
func DesignRaw(req DesignRequest) (TapSequence, error) {
	if err := req.Validate(); err != nil {
		return TapSequence{}, err
	}
	req = req.withDefaults()

	taps, err := filter.Synthesize(mathutil.NewContext(req.Precision), req.Parameters().spec())
	if err != nil {
		return TapSequence{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return taps, nil
}

// MeasureResponse returns the minimum and maximum gain in dB of taps over
// each band of edges. Edges come in (start, end) pairs on the normalized
// axis [-0.5, 0.5].
func MeasureResponse(taps []complex128, edges []float64) ([]BandResponse, error) {
	return spectrum.MeasureBandResponse(taps, edges)
}

// MeasureTaps is MeasureResponse for rounded taps.
func MeasureTaps(taps OutputTaps, edges []float64) ([]BandResponse, error) {
	return MeasureResponse(taps.Complex128(), edges)
}
