package firdesign

import (
	"fmt"

	"github.com/tphakala/go-fir-designer/internal/filter"
	"github.com/tphakala/go-fir-designer/internal/precision"
	"github.com/tphakala/go-fir-designer/internal/remez"
	"github.com/tphakala/go-fir-designer/internal/spectrum"
)

// Equiripple defaults, re-exported from the solver.
const (
	DefaultGridDensity          = remez.DefaultGridDensity
	DefaultEquirippleIterations = remez.DefaultMaxIterations
)

// EquirippleRequest describes a Parks–McClellan design.
//
// The desired response and the error weight are given either as one
// constant per band (Desired, Weights) or as functions of frequency
// (DesiredFunc, WeightFunc); a function takes precedence over the
// per-band values.
type EquirippleRequest struct {
	// Edges are the band edges in (start, end) pairs on [0, 0.5].
	Edges []float64 `json:"bandEdges"`

	// Desired holds one target amplitude per band.
	Desired []float64 `json:"desired,omitempty"`

	// Weights holds one error weight per band. Nil weighs all bands equally.
	Weights []float64 `json:"weights,omitempty"`

	DesiredFunc func(f float64) float64 `json:"-"`
	WeightFunc  func(f float64) float64 `json:"-"`

	// NumTaps is the filter length. It must be odd and at least 3.
	NumTaps int `json:"numTaps"`

	// GridDensity is the dense grid size per polynomial order. Zero
	// selects DefaultGridDensity.
	GridDensity int `json:"gridDensity,omitempty"`

	// MaxIterations bounds the exchange. Zero selects
	// DefaultEquirippleIterations.
	MaxIterations int `json:"maxIterations,omitempty"`

	// OutputWidth is the width the taps are rounded to.
	OutputWidth Width `json:"outputDatatype"`
}

// EquirippleResult is a converged equiripple design.
type EquirippleResult struct {
	Taps OutputTaps `json:"taps"`

	// Ripple is the weighted error magnitude on the extremal set.
	Ripple float64 `json:"ripple"`

	Iterations int       `json:"iterations"`
	Extremal   []float64 `json:"extremalFrequencies"`
}

// Validate checks the request.
func (r *EquirippleRequest) Validate() error {
	if r.NumTaps < 3 || r.NumTaps%2 == 0 {
		return fmt.Errorf("%w: tap count %d must be odd and at least 3", ErrInvalidRequest, r.NumTaps)
	}
	if !r.OutputWidth.Valid() {
		return fmt.Errorf("%w: unknown output width %d", ErrInvalidRequest, int(r.OutputWidth))
	}
	edges := spectrum.BandEdges(r.Edges)
	if err := edges.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if r.DesiredFunc == nil && len(r.Desired) != edges.Bands() {
		return fmt.Errorf("%w: %d desired values for %d bands", ErrInvalidRequest, len(r.Desired), edges.Bands())
	}
	if r.WeightFunc == nil && r.Weights != nil && len(r.Weights) != edges.Bands() {
		return fmt.Errorf("%w: %d weights for %d bands", ErrInvalidRequest, len(r.Weights), edges.Bands())
	}
	return nil
}

// DesignEquiripple runs the Remez exchange and rounds the converged taps to
// the output width. Solver failures are returned as remez.ErrInvalidParams,
// remez.ErrInvalidPeakCount or remez.ErrNoConvergence.
func DesignEquiripple(req EquirippleRequest) (*EquirippleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := remez.Params{
		Order:         (req.NumTaps - 1) / 2,
		Edges:         req.Edges,
		Desired:       req.DesiredFunc,
		Weight:        req.WeightFunc,
		GridDensity:   req.GridDensity,
		MaxIterations: req.MaxIterations,
	}
	if p.Desired == nil {
		p.Desired = piecewise(req.Edges, req.Desired)
	}
	if p.Weight == nil && req.Weights != nil {
		p.Weight = piecewise(req.Edges, req.Weights)
	}

	res, err := remez.Design(p)
	if err != nil {
		return nil, err
	}

	taps := precision.Taps{Width: WidthDouble, Kind: filter.Real, Real: res.Taps}
	return &EquirippleResult{
		Taps:       taps.Cast(req.OutputWidth),
		Ripple:     res.Ripple,
		Iterations: res.Iterations,
		Extremal:   res.Extremal,
	}, nil
}

// piecewise returns a function that is values[b] on band b. A frequency
// between bands takes the value of the band below it.
func piecewise(edges, values []float64) func(float64) float64 {
	bands := spectrum.BandEdges(edges)
	return func(f float64) float64 {
		v := values[0]
		for b := 1; b < bands.Bands(); b++ {
			start, _ := bands.Band(b)
			if f < start-bandSlack {
				break
			}
			v = values[b]
		}
		return v
	}
}

// bandSlack matches grid points that land a rounding error before a band.
const bandSlack = 1e-12
