package filter

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/tphakala/go-fir-designer/internal/mathutil"
)

// ErrInvalidSpec is returned by Synthesize for parameters it cannot design.
var ErrInvalidSpec = errors.New("invalid filter spec")

const nyquist = 0.5

// Spec holds the inputs of one synthesis.
type Spec struct {
	Type Type
	Kind Kind

	// Cutoff is the band edge of a lowpass or highpass, or the lower edge
	// of a bandpass or bandstop. Normalized to the sample rate.
	Cutoff float64

	// CutoffHigh is the upper edge of a bandpass or bandstop.
	CutoffHigh float64

	// NumTaps is the filter length.
	NumTaps int

	// Beta is the Kaiser window parameter.
	Beta float64

	// BesselMaxIterations and BesselTolerance bound the I₀ series.
	BesselMaxIterations int
	BesselTolerance     float64
}

// Validate reports whether s describes a realizable design.
func (s *Spec) Validate() error {
	if s.NumTaps < 1 {
		return fmt.Errorf("%w: %d taps (minimum 1)", ErrInvalidSpec, s.NumTaps)
	}
	if s.Kind != Real && s.Kind != Complex {
		return fmt.Errorf("%w: unknown tap kind %d", ErrInvalidSpec, int(s.Kind))
	}
	if s.BesselMaxIterations < 1 {
		return fmt.Errorf("%w: bessel iterations %d (minimum 1)", ErrInvalidSpec, s.BesselMaxIterations)
	}
	if !(s.BesselTolerance > 0 && s.BesselTolerance < 1) {
		return fmt.Errorf("%w: bessel tolerance %g outside (0, 1)", ErrInvalidSpec, s.BesselTolerance)
	}
	if s.Cutoff < 0 || s.Cutoff > nyquist {
		return fmt.Errorf("%w: cutoff %g outside [0, 0.5]", ErrInvalidSpec, s.Cutoff)
	}

	switch s.Type {
	case Lowpass, Highpass:
	case Bandpass, Bandstop:
		if s.CutoffHigh < 0 || s.CutoffHigh > nyquist {
			return fmt.Errorf("%w: upper cutoff %g outside [0, 0.5]", ErrInvalidSpec, s.CutoffHigh)
		}
		if s.Cutoff >= s.CutoffHigh {
			return fmt.Errorf("%w: band [%g, %g] is empty", ErrInvalidSpec, s.Cutoff, s.CutoffHigh)
		}
	default:
		return fmt.Errorf("%w: unknown filter type %d", ErrInvalidSpec, int(s.Type))
	}
	return nil
}

// Synthesize designs the taps described by spec. The Kaiser window is
// computed once and shared by every lowpass prototype of the design.
//
// Lowpass, highpass and bandstop shapes are real by construction; when a
// complex kind is requested they are returned as complex taps with zero
// imaginary parts.
func Synthesize(ctx *mathutil.Context, spec Spec) (Taps, error) {
	if err := spec.Validate(); err != nil {
		return Taps{}, err
	}

	window, err := KaiserWindow(ctx, spec.Beta, spec.NumTaps, spec.BesselMaxIterations, ctx.Float(spec.BesselTolerance))
	if err != nil {
		return Taps{}, err
	}

	half := ctx.Float(nyquist)
	var taps []*big.Float

	switch spec.Type {
	case Lowpass:
		taps = DesignLowpass(ctx, ctx.Float(spec.Cutoff), window)

	case Highpass:
		c := ctx.New().Sub(half, ctx.Float(spec.Cutoff))
		taps = SpectralInvert(DesignLowpass(ctx, c, window))

	case Bandpass:
		lo, hi := ctx.Float(spec.Cutoff), ctx.Float(spec.CutoffHigh)
		width := ctx.New().Sub(hi, lo)
		width.Quo(width, ctx.Int(2))
		shift := ctx.New().Add(lo, width)
		return Heterodyne(ctx, DesignLowpass(ctx, width, window), shift, spec.Kind), nil

	case Bandstop:
		low := DesignLowpass(ctx, ctx.Float(spec.Cutoff), window)
		c := ctx.New().Sub(half, ctx.Float(spec.CutoffHigh))
		high := SpectralInvert(DesignLowpass(ctx, c, window))
		for i := range low {
			low[i].Add(low[i], high[i])
		}
		taps = low
	}

	if spec.Kind == Complex {
		return ComplexTaps(asComplex(taps, ctx.Prec())), nil
	}
	return RealTaps(taps), nil
}

// SpectralInvert negates the odd-indexed taps, which shifts the response by
// half the sample rate. The input is left untouched.
func SpectralInvert(taps []*big.Float) []*big.Float {
	out := make([]*big.Float, len(taps))
	for n, h := range taps {
		v := new(big.Float).Copy(h)
		if n%2 == 1 {
			v.Neg(v)
		}
		out[n] = v
	}
	return out
}

// Heterodyne shifts the response of taps up by shift (normalized) by
// multiplying tap n with exp(j·2π·shift·n). A complex kind returns the
// shifted sequence; a real kind returns twice its real part, the sum of the
// positive and negative frequency images.
func Heterodyne(ctx *mathutil.Context, taps []*big.Float, shift *big.Float, kind Kind) Taps {
	step := ctx.New().Mul(ctx.Pi(), ctx.Int(2))
	step.Mul(step, shift)

	reals := make([]*big.Float, len(taps))
	var cplx []BigComplex
	if kind == Complex {
		cplx = make([]BigComplex, len(taps))
	}

	for n, h := range taps {
		angle := ctx.Int(int64(n))
		angle.Mul(angle, step)

		re := ctx.Cos(angle)
		re.Mul(re, h)
		if kind == Complex {
			im := ctx.Sin(angle)
			im.Mul(im, h)
			cplx[n] = BigComplex{Re: re, Im: im}
			continue
		}
		reals[n] = re.Mul(re, ctx.Int(2))
	}

	if kind == Complex {
		return ComplexTaps(cplx)
	}
	return RealTaps(reals)
}
