package mathutil

import (
	"math"
	"math/big"
)

// I0 computes the modified Bessel function of the first kind, order zero,
// from its power series:
//
//	I₀(z) = Σ_{k=0}^{kmax-1} (z²/4)^k / (k!)²
//
// Terms are built incrementally at the context precision. The sum stops the
// first time a term falls below tol; that term is not added. When no term
// drops below tol the full kmax terms are summed, which is less precise but
// still well defined.
func (c *Context) I0(z *big.Float, kmax int, tol *big.Float) *big.Float {
	acc := c.New()

	q := c.New().Mul(z, z)
	q.Quo(q, c.Int(4))

	term := c.Int(1)
	for k := range kmax {
		if k > 0 {
			term.Mul(term, q)
			term.Quo(term, c.Int(int64(k)*int64(k)))
		}
		if term.Cmp(tol) < 0 {
			break
		}
		acc.Add(acc, term)
	}

	return acc
}

// KaiserBeta computes the Kaiser window β parameter from the desired
// stopband attenuation in decibels.
//
// Formula from Kaiser & Schafer:
//   - For att > 50 dB: β = 0.1102 * (att - 8.7)
//   - For 21 dB ≤ att ≤ 50 dB: β = 0.5842 * (att - 21)^0.4 + 0.07886 * (att - 21)
//   - For att < 21 dB: β = 0
func KaiserBeta(attenuation float64) float64 {
	if attenuation > kaiserAttHigh {
		return kaiserBetaHighCoeff1 * (attenuation - kaiserBetaHighOffset)
	} else if attenuation >= kaiserAttMedium {
		delta := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(delta, kaiserBetaMediumPower) + kaiserBetaMediumCoeff2*delta
	}
	return 0.0
}

// EstimateKaiserTapCount estimates the FIR length needed for the given
// attenuation and normalized transition bandwidth:
//
//	N = ceil(|(att - 8) / (2.285 * 2π * Δf)|) + 1
//
// rounded up to the next odd integer so the filter has a centre tap.
// The estimate never decreases as attenuation grows or Δf shrinks.
func EstimateKaiserTapCount(attenuation, transitionBW float64) int {
	numTaps := (attenuation - kaiserFilterLengthOffset) /
		(kaiserFilterLengthMultiplier * kaiserFilterLengthPiFactor * math.Pi * transitionBW)

	taps := int(math.Ceil(math.Abs(numTaps))) + 1
	if taps%2 == 0 {
		taps++
	}
	return taps
}

// DesignAttenuation returns the attenuation used to size a Kaiser design:
// the requested stopband attenuation, or the attenuation implied by the
// passband ripple when that is stricter.
// A non-positive ripple carries no constraint.
func DesignAttenuation(minStopbandAttenuation, maxPassbandRipple float64) float64 {
	if maxPassbandRipple <= 0 {
		return minStopbandAttenuation
	}
	rippleAtt := math.Abs(dbMultiplier * math.Log10(math.Pow(10, maxPassbandRipple/dbDivisor)-1))
	return math.Max(minStopbandAttenuation, rippleAtt)
}

// LinearMap maps x from [inMin, inMax] onto [outMin, outMax] without clamping.
func LinearMap(x, inMin, inMax, outMin, outMax float64) float64 {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
