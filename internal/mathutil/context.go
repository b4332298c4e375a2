// Package mathutil provides the arbitrary-precision primitives used for
// filter design: π, sine, cosine, the normalized sinc function and the
// modified Bessel function I₀, plus the float64 Kaiser design formulas.
//
// All high-precision values of one design request are produced by a single
// [Context], so π, products and trigonometric evaluations share one
// precision regime. Mixing precisions changes the designed taps.
package mathutil

import (
	"math/big"
)

// Context is an immutable arbitrary-precision arithmetic context.
// It is safe for concurrent use; every method returns freshly allocated values.
type Context struct {
	prec uint

	// pi is held with guard bits for argument reduction.
	pi *big.Float
}

// NewContext creates a context with the given mantissa precision in bits.
// A zero precision selects DefaultPrecision.
func NewContext(prec uint) *Context {
	if prec == 0 {
		prec = DefaultPrecision
	}
	if prec < minPrecision {
		prec = minPrecision
	}
	return &Context{
		prec: prec,
		pi:   machinPi(prec + guardBits),
	}
}

// Prec returns the context precision in bits.
func (c *Context) Prec() uint {
	return c.prec
}

// New returns a zero value at the context precision.
func (c *Context) New() *big.Float {
	return new(big.Float).SetPrec(c.prec)
}

// Float converts a float64 exactly into the context precision.
func (c *Context) Float(x float64) *big.Float {
	return c.New().SetFloat64(x)
}

// Int converts an integer into the context precision.
func (c *Context) Int(n int64) *big.Float {
	return c.New().SetInt64(n)
}

// Pi returns π rounded to the context precision.
func (c *Context) Pi() *big.Float {
	return c.New().Set(c.pi)
}

// Sin returns sin(x) at the context precision.
func (c *Context) Sin(x *big.Float) *big.Float {
	if x.Sign() == 0 {
		return c.New()
	}
	wp := c.prec + guardBits
	r := c.reduce(x, wp)
	return c.New().Set(sinSeries(r, wp))
}

// Cos returns cos(x) at the context precision.
func (c *Context) Cos(x *big.Float) *big.Float {
	if x.Sign() == 0 {
		return c.Int(1)
	}
	wp := c.prec + guardBits
	r := c.reduce(x, wp)
	return c.New().Set(cosSeries(r, wp))
}

// Sinc returns the normalized sinc function sin(πx)/(πx).
// Zero maps to exactly 1.
func (c *Context) Sinc(x *big.Float) *big.Float {
	if x.Sign() == 0 {
		return c.Int(1)
	}
	pix := c.New().Mul(c.Pi(), x)
	return c.New().Quo(c.Sin(pix), pix)
}

// reduce maps x into [-π, π] by subtracting the nearest multiple of 2π.
func (c *Context) reduce(x *big.Float, wp uint) *big.Float {
	twoPi := new(big.Float).SetPrec(wp).Mul(c.pi, big.NewFloat(2))
	q := new(big.Float).SetPrec(wp).Quo(x, twoPi)

	half := big.NewFloat(0.5)
	if q.Sign() < 0 {
		q.Sub(q, half)
	} else {
		q.Add(q, half)
	}
	k, _ := q.Int(nil)
	if k.Sign() == 0 {
		return new(big.Float).SetPrec(wp).Set(x)
	}

	shift := new(big.Float).SetPrec(wp).SetInt(k)
	shift.Mul(shift, twoPi)
	return new(big.Float).SetPrec(wp).Sub(x, shift)
}

// epsilon returns 2^-wp.
func epsilon(wp uint) *big.Float {
	return new(big.Float).SetPrec(wp).SetMantExp(big.NewFloat(1), -int(wp))
}

// sinSeries evaluates the Taylor series of sin for |r| <= π.
func sinSeries(r *big.Float, wp uint) *big.Float {
	eps := epsilon(wp)
	r2 := new(big.Float).SetPrec(wp).Mul(r, r)
	term := new(big.Float).SetPrec(wp).Set(r)
	sum := new(big.Float).SetPrec(wp).Set(r)
	abs := new(big.Float).SetPrec(wp)

	for n := int64(1); ; n++ {
		term.Mul(term, r2)
		term.Quo(term, new(big.Float).SetPrec(wp).SetInt64((2*n)*(2*n+1)))
		term.Neg(term)
		sum.Add(sum, term)
		if abs.Abs(term).Cmp(eps) < 0 {
			return sum
		}
	}
}

// cosSeries evaluates the Taylor series of cos for |r| <= π.
func cosSeries(r *big.Float, wp uint) *big.Float {
	eps := epsilon(wp)
	r2 := new(big.Float).SetPrec(wp).Mul(r, r)
	term := new(big.Float).SetPrec(wp).SetInt64(1)
	sum := new(big.Float).SetPrec(wp).SetInt64(1)
	abs := new(big.Float).SetPrec(wp)

	for n := int64(1); ; n++ {
		term.Mul(term, r2)
		term.Quo(term, new(big.Float).SetPrec(wp).SetInt64((2*n-1)*(2*n)))
		term.Neg(term)
		sum.Add(sum, term)
		if abs.Abs(term).Cmp(eps) < 0 {
			return sum
		}
	}
}

// machinPi computes π to wp bits.
func machinPi(wp uint) *big.Float {
	a := atanInverse(machinFirstInverse, wp)
	a.Mul(a, new(big.Float).SetPrec(wp).SetInt64(machinFirstFactor))

	b := atanInverse(machinSecondInverse, wp)
	b.Mul(b, new(big.Float).SetPrec(wp).SetInt64(machinSecondFactor))

	return a.Sub(a, b)
}

// atanInverse returns atan(1/m) from its alternating power series.
func atanInverse(m int64, wp uint) *big.Float {
	eps := epsilon(wp)
	x := new(big.Float).SetPrec(wp).Quo(big.NewFloat(1), new(big.Float).SetPrec(wp).SetInt64(m))
	x2 := new(big.Float).SetPrec(wp).Mul(x, x)

	power := new(big.Float).SetPrec(wp).Set(x)
	sum := new(big.Float).SetPrec(wp).Set(x)
	term := new(big.Float).SetPrec(wp)

	for k := int64(1); ; k++ {
		power.Mul(power, x2)
		term.Quo(power, new(big.Float).SetPrec(wp).SetInt64(2*k+1))
		if k%2 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
		if term.Cmp(eps) < 0 {
			return sum
		}
	}
}
