package firdesign

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-fir-designer/internal/spectrum"
	"github.com/tphakala/go-fir-designer/internal/testutil"
)

// truncatedBessel is low enough that the first Kaiser estimate of the
// reference lowpass misses its stopband by a fraction of a dB.
const truncatedBessel = 10

// lowpassRequest is a 60 dB, 0.1 dB lowpass at a quarter of the sample
// rate: 39 taps by the Kaiser estimate.
func lowpassRequest() DesignRequest {
	return DesignRequest{
		FilterType:             Lowpass,
		TapKind:                TapsReal,
		OutputWidth:            WidthDouble,
		Cutoff:                 SingleCutoff(0.25),
		TransitionBandwidth:    0.1,
		MinStopbandAttenuation: 60,
		MaxPassbandRipple:      0.1,
		BesselMaxIterations:    truncatedBessel,
	}
}

func TestDesignRaw_FirstEstimateMissesStopband(t *testing.T) {
	req := lowpassRequest()
	taps, err := DesignRaw(req)
	require.NoError(t, err)
	require.Equal(t, 39, taps.Len())
	testutil.AssertBigSymmetric(t, taps.Real)

	pass, stop := BandLayout(req.FilterType, req.TapKind, req.Cutoff, req.TransitionBandwidth)
	check, err := spectrum.TestAgainstSpec(taps.Complex128(), pass, stop, []float64{0.1}, []float64{-60})
	require.NoError(t, err)

	assert.False(t, check.SpecMet)
	assert.Equal(t, FailureStopband, check.FailureReason)
	assert.InDelta(t, 0, check.Passband[0].MinDB, 0.1)
	assert.InDelta(t, 0, check.Passband[0].MaxDB, 0.1)
	assert.Greater(t, check.Stopband[0].MaxDB, -60.0)
	assert.Less(t, check.Stopband[0].MaxDB, -59.0)
}

func TestDesignAndValidate_RefinesUntilMet(t *testing.T) {
	res, err := DesignAndValidate(lowpassRequest())
	require.NoError(t, err)

	assert.True(t, res.SpecMet)
	assert.Equal(t, FailureNone, res.FailureReason)
	assert.Greater(t, res.Iterations, 1)

	// Every stopband retry adds 0.5 dB; the ripple was never touched.
	assert.InDelta(t, 60+attenuationStep*float64(res.Iterations-1), res.Parameters.MinStopbandAttenuation, 1e-12)
	assert.InDelta(t, 0.1, res.Parameters.MaxPassbandRipple, 0)

	require.Len(t, res.Stopband, 1)
	assert.LessOrEqual(t, res.Stopband[0].MaxDB, -60.0)
	assert.LessOrEqual(t, math.Abs(res.Passband[0].MinDB), 0.1)
	assert.LessOrEqual(t, math.Abs(res.Passband[0].MaxDB), 0.1)

	assert.Equal(t, WidthDouble, res.Taps.Width)
	testutil.AssertOddLength(t, res.Taps.Real)
	testutil.AssertSymmetric(t, res.Taps.Real, 0)
	testutil.AssertDCGain(t, res.Taps.Real, 1, 1e-12)
}

func TestDesignAndValidate_ExhaustionIsNotAnError(t *testing.T) {
	req := lowpassRequest()
	req.MaxIterations = 1

	res, err := DesignAndValidate(req)
	require.NoError(t, err)

	assert.False(t, res.SpecMet)
	assert.Equal(t, FailureStopband, res.FailureReason)
	assert.Equal(t, 1, res.Iterations)
	assert.Len(t, res.Taps.Real, 39)
	require.Len(t, res.Stopband, 1)
	assert.Greater(t, res.Stopband[0].MaxDB, -60.0)
	assert.Equal(t, lowpassRequest().Parameters(), res.Parameters)
}

func TestDesignAndValidate_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		ft     FilterType
		cutoff Cutoff
	}{
		{"lowpass", Lowpass, SingleCutoff(0.2)},
		{"highpass", Highpass, SingleCutoff(0.3)},
		{"bandpass", Bandpass, BandCutoff(0.15, 0.35)},
		{"bandstop", Bandstop, BandCutoff(0.15, 0.35)},
	}

	for _, tt := range tests {
		for _, kind := range []TapKind{TapsReal, TapsComplex} {
			t.Run(tt.name+"_"+kind.String(), func(t *testing.T) {
				res, err := DesignAndValidate(DesignRequest{
					FilterType:             tt.ft,
					TapKind:                kind,
					OutputWidth:            WidthSingle,
					Cutoff:                 tt.cutoff,
					TransitionBandwidth:    0.05,
					MinStopbandAttenuation: 50,
					MaxPassbandRipple:      0.1,
				})
				require.NoError(t, err)
				assert.True(t, res.SpecMet, "failure %s after %d attempts", res.FailureReason, res.Iterations)
				assert.Equal(t, kind, res.Taps.Kind)
				assert.Equal(t, WidthSingle, res.Taps.Width)
				testutil.AssertOddLength(t, res.Taps.Complex128())

				for _, r := range res.Stopband {
					assert.LessOrEqual(t, r.MaxDB, -50.0)
				}

				// Width rounding already happened: casting again is a no-op.
				assert.Equal(t, res.Taps, res.Taps.Cast(WidthSingle))
			})
		}
	}
}

func TestDesignAndValidate_PassbandFailureShrinksRipple(t *testing.T) {
	// Half-precision rounding alone moves the passband by far more than
	// 0.0001 dB, so every attempt fails in the passband.
	req := DesignRequest{
		FilterType:             Lowpass,
		TapKind:                TapsReal,
		OutputWidth:            WidthHalf,
		Cutoff:                 SingleCutoff(0.25),
		TransitionBandwidth:    0.1,
		MinStopbandAttenuation: 20,
		MaxPassbandRipple:      0.0001,
		MaxIterations:          3,
	}
	res, err := DesignAndValidate(req)
	require.NoError(t, err)

	assert.False(t, res.SpecMet)
	assert.Equal(t, FailurePassband, res.FailureReason)
	assert.Equal(t, 3, res.Iterations)
	assert.InDelta(t, 0.0001*rippleShrink*rippleShrink, res.Parameters.MaxPassbandRipple, 1e-15)
	assert.InDelta(t, 20, res.Parameters.MinStopbandAttenuation, 0)
}

func TestDesignAndValidate_InvalidLayout(t *testing.T) {
	req := lowpassRequest()
	req.Cutoff = SingleCutoff(0.02)

	_, err := DesignAndValidate(req)
	require.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, err, spectrum.ErrUnorderedBandEdges)
}

func TestDesignRaw_ExplicitTapCount(t *testing.T) {
	req := lowpassRequest()
	req.ExplicitTapCount = 20

	taps, err := DesignRaw(req)
	require.NoError(t, err)
	assert.Equal(t, 21, taps.Len())
}

func TestDesignRaw_ComplexBandpass(t *testing.T) {
	req := lowpassRequest()
	req.FilterType = Bandpass
	req.TapKind = TapsComplex
	req.Cutoff = BandCutoff(0.1, 0.35)

	taps, err := DesignRaw(req)
	require.NoError(t, err)
	assert.Equal(t, TapsComplex, taps.Kind)
	assert.Nil(t, taps.Real)
	testutil.AssertOddLength(t, taps.Complex)
}

func TestBandLayout(t *testing.T) {
	const bw = 0.1
	tests := []struct {
		name       string
		ft         FilterType
		kind       TapKind
		cutoff     Cutoff
		pass, stop []float64
	}{
		{"lowpass_real", Lowpass, TapsReal, SingleCutoff(0.25), []float64{0, 0.2}, []float64{0.3, 0.5}},
		{"highpass_real", Highpass, TapsReal, SingleCutoff(0.25), []float64{0.3, 0.5}, []float64{0, 0.2}},
		{"bandpass_real", Bandpass, TapsReal, BandCutoff(0.15, 0.35), []float64{0.2, 0.3}, []float64{0, 0.1, 0.4, 0.5}},
		{"bandstop_real", Bandstop, TapsReal, BandCutoff(0.15, 0.35), []float64{0, 0.1, 0.4, 0.5}, []float64{0.2, 0.3}},
		{"lowpass_complex", Lowpass, TapsComplex, SingleCutoff(0.25), []float64{-0.2, 0.2}, []float64{-0.5, -0.3, 0.3, 0.5}},
		{"highpass_complex", Highpass, TapsComplex, SingleCutoff(0.25), []float64{-0.5, -0.3, 0.3, 0.5}, []float64{-0.2, 0.2}},
		{"bandpass_complex", Bandpass, TapsComplex, BandCutoff(0.15, 0.35), []float64{0.2, 0.3}, []float64{-0.5, 0.1, 0.4, 0.5}},
		{
			"bandstop_complex", Bandstop, TapsComplex, BandCutoff(0.15, 0.35),
			[]float64{-0.5, -0.4, -0.1, 0.1, 0.4, 0.5}, []float64{-0.3, -0.2, 0.2, 0.3},
		},
		{"clamped", Lowpass, TapsReal, SingleCutoff(0.48), []float64{0, 0.43}, []float64{0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pass, stop := BandLayout(tt.ft, tt.kind, tt.cutoff, bw)
			testutil.AssertSlicesClose(t, tt.pass, pass, 1e-15)
			testutil.AssertSlicesClose(t, tt.stop, stop, 1e-15)
		})
	}
}

func TestDesignParameters_Immutable(t *testing.T) {
	p := lowpassRequest().Parameters()
	q := p.WithMaxPassbandRipple(0.05).WithMinStopbandAttenuation(70)

	assert.InDelta(t, 0.1, p.MaxPassbandRipple, 0)
	assert.InDelta(t, 60, p.MinStopbandAttenuation, 0)
	assert.InDelta(t, 0.05, q.MaxPassbandRipple, 0)
	assert.InDelta(t, 70, q.MinStopbandAttenuation, 0)

	assert.Equal(t, 39, p.NumTaps())
	assert.Greater(t, q.NumTaps(), p.NumTaps())
	assert.Greater(t, q.Beta(), p.Beta())
}

func TestDesignRequest_Defaults(t *testing.T) {
	req := DesignRequest{}.withDefaults()
	assert.Equal(t, DefaultMaxIterations, req.MaxIterations)
	assert.Equal(t, DefaultPrecision, req.Precision)
	assert.Equal(t, DefaultBesselMaxIterations, req.BesselMaxIterations)
	assert.InDelta(t, DefaultBesselTolerance, req.BesselTolerance, 0)
}

func BenchmarkDesignAndValidate(b *testing.B) {
	req := lowpassRequest()
	for b.Loop() {
		_, _ = DesignAndValidate(req)
	}
}
