package mathutil

// Working precision
const (
	// DefaultPrecision is the mantissa size in bits used when a caller does
	// not choose one. 192 bits is roughly 57 significant decimal digits.
	DefaultPrecision uint = 192

	// guardBits are carried by the series evaluations (π, sin, cos) on top of
	// the context precision and dropped when the result is rounded.
	guardBits uint = 32

	// minPrecision keeps a context from degenerating below float64.
	minPrecision uint = 53
)

// Bessel series defaults
const (
	// DefaultBesselMaxIterations bounds the I₀ power series.
	DefaultBesselMaxIterations = 1000

	// DefaultBesselTolerance stops the I₀ series at the first smaller term.
	DefaultBesselTolerance = 1.0e-14
)

// Machin formula: π = 16·atan(1/5) − 4·atan(1/239)
const (
	machinFirstInverse  = 5
	machinSecondInverse = 239
	machinFirstFactor   = 16
	machinSecondFactor  = 4
)

// Kaiser window formula constants
// From Kaiser & Schafer's empirical formulas
const (
	// Attenuation thresholds for β calculation
	kaiserAttHigh   = 50.0 // High attenuation threshold (dB)
	kaiserAttMedium = 21.0 // Medium attenuation threshold (dB)

	// Kaiser β formula coefficients
	kaiserBetaHighCoeff1 = 0.1102 // Coefficient for high attenuation
	kaiserBetaHighOffset = 8.7    // Offset for high attenuation

	kaiserBetaMediumCoeff1 = 0.5842  // Primary coefficient for medium attenuation
	kaiserBetaMediumPower  = 0.4     // Power for medium attenuation formula
	kaiserBetaMediumCoeff2 = 0.07886 // Secondary coefficient for medium attenuation
)

// Filter length estimation constants
const (
	// Kaiser's filter length formula: N ≈ (att - 8) / (2.285 * 2π * Δf)
	kaiserFilterLengthOffset     = 8.0   // Attenuation offset in Kaiser formula
	kaiserFilterLengthMultiplier = 2.285 // Multiplier in Kaiser formula
	kaiserFilterLengthPiFactor   = 2.0   // Factor for 2π in formula
)

// Decibel conversion
const (
	dbMultiplier = 20.0 // 20*log10 for magnitude
	dbDivisor    = 20.0 // 10^(dB/20) for magnitude
)
