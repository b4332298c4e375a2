// Package remez designs linear-phase equiripple FIR filters with the
// Parks–McClellan (Remez exchange) algorithm.
//
// A design of order N is a cosine polynomial of degree N in cos(2πf), which
// gives an odd-length, symmetric filter of 2N+1 taps. The algorithm keeps a
// set of N+2 extremal frequencies, solves for the polynomial whose weighted
// error alternates with equal magnitude on that set, then moves the set to
// the peaks of the error on a dense grid until the set stops changing.
package remez

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-fir-designer/internal/spectrum"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidParams is returned when a design cannot be set up.
	ErrInvalidParams = errors.New("invalid remez parameters")

	// ErrInvalidPeakCount is returned when the error function does not have
	// enough alternating peaks to form a new extremal set.
	ErrInvalidPeakCount = errors.New("invalid number of error peaks")

	// ErrNoConvergence is returned when the extremal set is still moving
	// after the iteration budget.
	ErrNoConvergence = errors.New("remez exchange did not converge")
)

const (
	// DefaultGridDensity is the number of grid points per order.
	DefaultGridDensity = 16

	// DefaultMaxIterations bounds the exchange loop.
	DefaultMaxIterations = 100

	// bandEdgeSlack lets grid points that land a rounding error outside a
	// band still belong to it.
	bandEdgeSlack = 1e-12

	maxFrequency = 0.5
)

// Params describes an equiripple design.
type Params struct {
	// Order is the polynomial degree N; the filter has 2N+1 taps.
	Order int

	// Edges are the band edges, in pairs, normalized to [0, 0.5].
	Edges []float64

	// Desired is the target amplitude at frequency f.
	Desired func(f float64) float64

	// Weight is the error weight at frequency f. Nil weighs every band
	// equally.
	Weight func(f float64) float64

	// GridDensity is the number of dense grid points per order.
	// Zero selects DefaultGridDensity.
	GridDensity int

	// MaxIterations bounds the exchange. Zero selects DefaultMaxIterations.
	MaxIterations int
}

// Validate checks the parameters and fills in defaults.
func (p *Params) Validate() error {
	if p.Order < 1 {
		return fmt.Errorf("%w: order %d (minimum 1)", ErrInvalidParams, p.Order)
	}
	if len(p.Edges) < 2 {
		return fmt.Errorf("%w: at least one band is required", ErrInvalidParams)
	}
	if err := spectrum.BandEdges(p.Edges).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	if p.Edges[0] < 0 || p.Edges[len(p.Edges)-1] > maxFrequency {
		return fmt.Errorf("%w: band edges must lie in [0, 0.5]", ErrInvalidParams)
	}
	if spectrum.BandEdges(p.Edges).Width() <= 0 {
		return fmt.Errorf("%w: bands have no width", ErrInvalidParams)
	}
	if p.Desired == nil {
		return fmt.Errorf("%w: desired response is required", ErrInvalidParams)
	}
	if p.Weight == nil {
		p.Weight = func(float64) float64 { return 1 }
	}

	if p.GridDensity == 0 {
		p.GridDensity = DefaultGridDensity
	}
	if p.GridDensity < 0 || p.GridDensity*p.Order < p.Order+2 {
		return fmt.Errorf("%w: grid density %d too low for order %d", ErrInvalidParams, p.GridDensity, p.Order)
	}

	if p.MaxIterations == 0 {
		p.MaxIterations = DefaultMaxIterations
	}
	if p.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, p.MaxIterations)
	}
	return nil
}

// Result is a converged equiripple design.
type Result struct {
	// Taps are the 2N+1 symmetric filter coefficients.
	Taps []float64

	// Ripple is the signed alternation error on the final extremal set.
	Ripple float64

	// Iterations is the number of exchanges performed.
	Iterations int

	// Extremal is the final extremal frequency set.
	Extremal []float64
}

// grid is the dense frequency grid with per-point desired values, weights
// and band membership.
type grid struct {
	freq    []float64
	desired []float64
	weight  []float64
	band    []int
}

func newGrid(p *Params) (*grid, error) {
	edges := spectrum.BandEdges(p.Edges)
	freq, err := spectrum.EvenlySpacedSamples(p.GridDensity*p.Order, edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	g := &grid{
		freq:    freq,
		desired: make([]float64, len(freq)),
		weight:  make([]float64, len(freq)),
		band:    make([]int, len(freq)),
	}
	for i, f := range freq {
		// Points on a shared edge belong to the later band.
		for b := range edges.Bands() {
			start, end := edges.Band(b)
			if f >= start-bandEdgeSlack && f <= end+bandEdgeSlack {
				g.band[i] = b
			}
		}
		g.desired[i] = p.Desired(f)
		g.weight[i] = p.Weight(f)
		if !(g.weight[i] > 0) {
			return nil, fmt.Errorf("%w: weight %g at f=%g must be positive", ErrInvalidParams, g.weight[i], f)
		}
	}
	return g, nil
}

// nearest returns the grid point closest to f; ties go to the lower frequency.
func (g *grid) nearest(f float64) float64 {
	best := g.freq[0]
	for _, v := range g.freq[1:] {
		if math.Abs(v-f) < math.Abs(best-f) {
			best = v
		}
	}
	return best
}

// Design runs the Remez exchange and returns the converged filter.
func Design(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g, err := newGrid(&p)
	if err != nil {
		return nil, err
	}

	n := p.Order
	seed, err := spectrum.EvenlySpacedSamples(n+2, spectrum.BandEdges(p.Edges))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	extremal := make([]float64, len(seed))
	for i, f := range seed {
		extremal[i] = g.nearest(f)
	}

	errs := make([]float64, len(g.freq))
	for iter := range p.MaxIterations {
		ip := newInterpolant(extremal, p.Desired, p.Weight)

		for i, f := range g.freq {
			errs[i] = g.weight[i] * (g.desired[i] - ip.eval(f))
		}

		peaks := alternate(findPeaks(errs, g.band), errs)
		if len(peaks) == n+3 {
			peaks = dropEndpoint(peaks, errs, g.freq, extremal)
		}
		if len(peaks) != n+2 {
			return nil, fmt.Errorf("%w: found %d, want %d at iteration %d", ErrInvalidPeakCount, len(peaks), n+2, iter)
		}

		next := make([]float64, len(peaks))
		for i, k := range peaks {
			next[i] = g.freq[k]
		}

		if floats.Equal(next, extremal) {
			return &Result{
				Taps:       ip.taps(n),
				Ripple:     ip.rho,
				Iterations: iter + 1,
				Extremal:   next,
			}, nil
		}
		extremal = next
	}

	return nil, fmt.Errorf("%w after %d iterations", ErrNoConvergence, p.MaxIterations)
}

// interpolant is the degree-N polynomial in x = cos(2πf) that takes values
// c_k on the first N+1 extremal points, in barycentric form.
type interpolant struct {
	x   []float64 // cos(2πf) of the first N+1 extremal points
	b   []float64 // barycentric weights over x
	c   []float64 // interpolated amplitudes
	rho float64
}

func newInterpolant(extremal []float64, desired, weight func(float64) float64) *interpolant {
	m := len(extremal)
	x := make([]float64, m)
	for k, f := range extremal {
		x[k] = math.Cos(2 * math.Pi * f)
	}

	a := baryWeights(x)
	var num, den float64
	sign := 1.0
	for k, f := range extremal {
		num += a[k] * desired(f)
		den += sign * a[k] / weight(f)
		sign = -sign
	}
	rho := num / den

	c := make([]float64, m-1)
	sign = 1.0
	for k := range c {
		f := extremal[k]
		c[k] = desired(f) - sign*rho/weight(f)
		sign = -sign
	}

	return &interpolant{
		x:   x[:m-1],
		b:   baryWeights(x[:m-1]),
		c:   c,
		rho: rho,
	}
}

// baryWeights returns w_k = 1 / Π_{i≠k} 2(x_k − x_i).
func baryWeights(x []float64) []float64 {
	w := make([]float64, len(x))
	for k, xk := range x {
		d := 1.0
		for i, xi := range x {
			if i != k {
				d *= 2 * (xk - xi)
			}
		}
		w[k] = 1 / d
	}
	return w
}

// eval returns the interpolated amplitude at frequency f.
func (ip *interpolant) eval(f float64) float64 {
	xf := math.Cos(2 * math.Pi * f)
	var num, den float64
	for k, xk := range ip.x {
		if xf == xk {
			return ip.c[k]
		}
		t := ip.b[k] / (xf - xk)
		num += t * ip.c[k]
		den += t
	}
	return num / den
}

// taps samples the amplitude at M = 2N+1 uniform frequencies and inverts the
// cosine series:
//
//	h[n] = (A₀ + 2 Σ_{m=1..N} A_m cos(2πm(n−N)/M)) / M
func (ip *interpolant) taps(n int) []float64 {
	length := 2*n + 1
	amp := make([]float64, n+1)
	for m := range amp {
		amp[m] = ip.eval(float64(m) / float64(length))
	}

	basis := make([]float64, n)
	h := make([]float64, length)
	for k := range h {
		for m := range basis {
			basis[m] = math.Cos(2 * math.Pi * float64((m+1)*(k-n)) / float64(length))
		}
		h[k] = amp[0] + 2*f64.DotProductUnsafe(amp[1:], basis)
	}
	f64.Scale(h, h, 1/float64(length))
	return h
}

// findPeaks returns the grid indices where the error has a local extremum of
// its own sign. Neighbours in another band are ignored, so band edges can
// be peaks.
func findPeaks(errs []float64, band []int) []int {
	var peaks []int
	for i, e := range errs {
		s := 1.0
		if e < 0 {
			s = -1
		}
		v := s * e
		if i > 0 && band[i-1] == band[i] && !(v > s*errs[i-1]) {
			continue
		}
		if i < len(errs)-1 && band[i+1] == band[i] && !(v >= s*errs[i+1]) {
			continue
		}
		peaks = append(peaks, i)
	}
	return peaks
}

// alternate merges runs of same-signed peaks, keeping the largest of each
// run, so the remaining peaks alternate in sign.
func alternate(peaks []int, errs []float64) []int {
	out := make([]int, 0, len(peaks))
	for _, k := range peaks {
		if len(out) > 0 {
			last := out[len(out)-1]
			if (errs[last] >= 0) == (errs[k] >= 0) {
				if math.Abs(errs[k]) > math.Abs(errs[last]) {
					out[len(out)-1] = k
				}
				continue
			}
		}
		out = append(out, k)
	}
	return out
}

// dropEndpoint reduces N+3 alternating peaks to N+2. When dropping one end
// reproduces the current extremal set that end goes, which keeps a
// converged set from oscillating; otherwise the smaller endpoint goes.
func dropEndpoint(peaks []int, errs, freq, extremal []float64) []int {
	matches := func(idx []int) bool {
		for i, k := range idx {
			if freq[k] != extremal[i] {
				return false
			}
		}
		return true
	}

	switch {
	case matches(peaks[1:]):
		return peaks[1:]
	case matches(peaks[:len(peaks)-1]):
		return peaks[:len(peaks)-1]
	case math.Abs(errs[peaks[0]]) > math.Abs(errs[peaks[len(peaks)-1]]):
		return peaks[:len(peaks)-1]
	default:
		return peaks[1:]
	}
}
