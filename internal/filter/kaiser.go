// Package filter synthesizes Kaiser-windowed-sinc FIR taps in arbitrary
// precision.
package filter

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/tphakala/go-fir-designer/internal/mathutil"
)

// ErrInvalidWindow is returned for a window length below one or a negative β.
var ErrInvalidWindow = errors.New("invalid window parameters")

// KaiserWindow generates a Kaiser window of the given length and β.
//
//	w[n] = I₀(β·sqrt(1 − t²)) / I₀(β),  t = (2n − (N−1)) / (N−1)
//
// t is formed exactly from integers, so w[n] and w[N−1−n] are computed from
// identical arguments and the window is symmetric bit-for-bit. For odd
// lengths the centre sample is exactly 1. A window of length 1 is [1].
//
// kmax and tol bound the I₀ series; see [mathutil.Context.I0].
func KaiserWindow(ctx *mathutil.Context, beta float64, length, kmax int, tol *big.Float) ([]*big.Float, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: length %d (minimum 1)", ErrInvalidWindow, length)
	}
	if beta < 0 || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return nil, fmt.Errorf("%w: beta %g (must be finite and non-negative)", ErrInvalidWindow, beta)
	}

	window := make([]*big.Float, length)
	if length == 1 {
		window[0] = ctx.Int(1)
		return window, nil
	}

	b := ctx.Float(beta)
	i0Beta := ctx.I0(b, kmax, tol)
	if i0Beta.Sign() == 0 {
		return nil, fmt.Errorf("%w: I0(beta) vanished, bessel tolerance %s too coarse", ErrInvalidWindow, tol.Text('g', 6))
	}
	one := ctx.Int(1)
	den := ctx.Int(int64(length - 1))

	for n := range length {
		t := ctx.Int(int64(2*n - (length - 1)))
		t.Quo(t, den)

		arg := ctx.New().Mul(t, t)
		arg.Sub(one, arg)
		arg.Sqrt(arg)
		arg.Mul(arg, b)

		w := ctx.I0(arg, kmax, tol)
		window[n] = w.Quo(w, i0Beta)
	}

	return window, nil
}

// DesignLowpass builds a windowed-sinc lowpass with a band edge at cutoff
// (normalized, cycles per sample):
//
//	h[n] = sinc(cutoff·(2n − (N−1))) · w[n]
//
// normalized so the taps sum to exactly one at the context precision.
func DesignLowpass(ctx *mathutil.Context, cutoff *big.Float, window []*big.Float) []*big.Float {
	length := len(window)
	taps := make([]*big.Float, length)
	sum := ctx.New()

	for n := range length {
		x := ctx.Int(int64(2*n - (length - 1)))
		x.Mul(x, cutoff)

		h := ctx.Sinc(x)
		h.Mul(h, window[n])
		taps[n] = h
		sum.Add(sum, h)
	}

	if sum.Sign() != 0 {
		for _, h := range taps {
			h.Quo(h, sum)
		}
	}
	return taps
}
