package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// DefaultPaddingScalar sets the FFT length to at least this many bins per
	// tap. 256 keeps interpolated band readings within 0.005 dB of a dense
	// DTFT for the filter lengths this package measures.
	DefaultPaddingScalar = 256

	// floorRelative marks bins whose magnitude is within FFT rounding of
	// zero, relative to the sum of tap magnitudes. They read as -Inf dB.
	floorRelative = 1e-14

	dbMultiplier = 20.0
)

// FFTLength returns the transform length used for numTaps taps:
// 2^ceil(log2(numTaps·scalar)).
func FFTLength(numTaps, scalar int) int {
	if scalar < 1 {
		scalar = DefaultPaddingScalar
	}
	target := numTaps * scalar
	n := 1
	for n < target {
		n *= 2
	}
	return n
}

// FrequencyResponseDB returns the magnitude response of taps in decibels on
// a centred axis: bin i holds frequency i/L − 0.5 for transform length L.
//
// The taps are zero-padded symmetrically to FFTLength(len(taps), scalar) and
// transformed with a complex FFT. A scalar below one selects
// DefaultPaddingScalar.
func FrequencyResponseDB(taps []complex128, scalar int) []float64 {
	if len(taps) == 0 {
		return nil
	}

	n := FFTLength(len(taps), scalar)
	padded := make([]complex128, n)
	copy(padded[(n-len(taps))/2:], taps)

	fft := fourier.NewCmplxFFT(n)
	coeffs := FFTShift(fft.Coefficients(nil, padded))

	mags := make([]float64, len(taps))
	for i, h := range taps {
		mags[i] = cmplx.Abs(h)
	}
	floor := floorRelative * f64.Sum(mags)

	db := make([]float64, n)
	for i, c := range coeffs {
		mag := cmplx.Abs(c)
		if mag <= floor {
			db[i] = math.Inf(-1)
			continue
		}
		db[i] = dbMultiplier * math.Log10(mag)
	}
	return db
}

// FFTShift moves the zero-frequency bin to the centre: out[i] = x[(i+L/2) mod L].
func FFTShift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	for i := range x {
		out[i] = x[(i+n/2)%n]
	}
	return out
}

// Interpolate reads responseDB at normalized frequency f, which maps to
// fractional bin f·L + L/2. Positions outside the axis clamp to the first
// or last bin. Between bins the decibel values are interpolated linearly;
// when either neighbour is -Inf the nearer bin is returned instead.
func Interpolate(f float64, responseDB []float64) float64 {
	n := len(responseDB)
	idx := f*float64(n) + float64(n/2)

	if idx <= 0 {
		return responseDB[0]
	}
	if idx >= float64(n-1) {
		return responseDB[n-1]
	}

	lo := math.Floor(idx)
	hi := math.Ceil(idx)
	if lo == hi {
		return responseDB[int(lo)]
	}

	a, b := responseDB[int(lo)], responseDB[int(hi)]
	frac := idx - lo
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		if frac < 0.5 {
			return a
		}
		return b
	}
	return a + (b-a)*frac
}
