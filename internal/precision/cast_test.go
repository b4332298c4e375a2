package precision

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-fir-designer/internal/filter"
	"github.com/tphakala/go-fir-designer/internal/mathutil"
	"github.com/x448/float16"
)

func bigTaps(values ...float64) []*big.Float {
	ctx := mathutil.NewContext(0)
	out := make([]*big.Float, len(values))
	for i, v := range values {
		out[i] = ctx.Float(v)
	}
	return out
}

// highPrecisionThird returns 1/3 at 192 bits, which is not representable
// at any output width.
func highPrecisionThird() *big.Float {
	ctx := mathutil.NewContext(0)
	return ctx.New().Quo(ctx.Int(1), ctx.Int(3))
}

func TestWidth_Round(t *testing.T) {
	x := 0.1

	assert.InDelta(t, x, WidthDouble.Round(x), 0)
	assert.InDelta(t, float64(float32(x)), WidthSingle.Round(x), 0)
	assert.InDelta(t, 0.0999755859375, WidthHalf.Round(x), 0)

	// Each narrower width loses accuracy.
	assert.Greater(t, math.Abs(WidthHalf.Round(x)-x), math.Abs(WidthSingle.Round(x)-x))
	assert.Greater(t, math.Abs(WidthSingle.Round(x)-x), 0.0)
}

func TestWidth_RoundBig(t *testing.T) {
	third := highPrecisionThird()

	assert.InDelta(t, 1.0/3, WidthDouble.RoundBig(third), 0)
	assert.InDelta(t, float64(float32(1.0/3)), WidthSingle.RoundBig(third), 0)
	assert.InDelta(t, float64(float16.Fromfloat32(float32(1.0/3)).Float32()), WidthHalf.RoundBig(third), 0)
}

func TestCast_Real(t *testing.T) {
	taps := filter.RealTaps([]*big.Float{highPrecisionThird(), highPrecisionThird()})

	for _, w := range []Width{WidthDouble, WidthSingle, WidthHalf} {
		t.Run(w.String(), func(t *testing.T) {
			got := Cast(taps, w)
			assert.Equal(t, w, got.Width)
			assert.Equal(t, filter.Real, got.Kind)
			assert.Nil(t, got.Complex)
			require.Len(t, got.Real, 2)
			assert.InDelta(t, w.Round(1.0/3), got.Real[0], 0)
		})
	}
}

func TestCast_Complex(t *testing.T) {
	ctx := mathutil.NewContext(0)
	taps := filter.ComplexTaps([]filter.BigComplex{
		{Re: highPrecisionThird(), Im: ctx.Float(-0.1)},
		{Re: ctx.Float(1), Im: ctx.New()},
	})

	got := Cast(taps, WidthHalf)
	assert.Equal(t, filter.Complex, got.Kind)
	assert.Nil(t, got.Real)
	require.Len(t, got.Complex, 2)
	assert.InDelta(t, WidthHalf.Round(1.0/3), real(got.Complex[0]), 0)
	assert.InDelta(t, WidthHalf.Round(-0.1), imag(got.Complex[0]), 0)
	assert.Equal(t, complex(1, 0), got.Complex[1])
}

// TestCast_Idempotent verifies that re-casting to the same width changes nothing.
func TestCast_Idempotent(t *testing.T) {
	ctx := mathutil.NewContext(0)
	values := []float64{0.1, -0.37, 1e-5, 0.999, -3.3e-8, 0.5}

	for _, w := range []Width{WidthDouble, WidthSingle, WidthHalf} {
		t.Run(w.String(), func(t *testing.T) {
			once := Cast(filter.RealTaps(bigTaps(values...)), w)
			twice := once.Cast(w)
			assert.Equal(t, once, twice)

			cplx := make([]filter.BigComplex, len(values))
			for i, v := range values {
				cplx[i] = filter.BigComplex{Re: ctx.Float(v), Im: ctx.Float(-v / 3)}
			}
			onceC := Cast(filter.ComplexTaps(cplx), w)
			assert.Equal(t, onceC, onceC.Cast(w))
		})
	}
}

func TestCast_DoesNotModifyInput(t *testing.T) {
	in := Taps{Width: WidthDouble, Kind: filter.Real, Real: []float64{0.1, 0.2}}
	_ = in.Cast(WidthHalf)
	assert.Equal(t, []float64{0.1, 0.2}, in.Real)
}

func TestTaps_Complex128(t *testing.T) {
	r := Taps{Kind: filter.Real, Real: []float64{1, -2}}
	assert.Equal(t, []complex128{1, -2}, r.Complex128())
	assert.Equal(t, 2, r.Len())

	cplx := Taps{Kind: filter.Complex, Complex: []complex128{complex(1, 2)}}
	out := cplx.Complex128()
	out[0] = 0
	assert.Equal(t, complex(1, 2), cplx.Complex[0], "Complex128 returns a copy")
	assert.Equal(t, 1, cplx.Len())
}

func TestWidth_Text(t *testing.T) {
	for _, w := range []Width{WidthDouble, WidthSingle, WidthHalf} {
		b, err := json.Marshal(w)
		require.NoError(t, err)

		var got Width
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, w, got)
	}

	assert.Equal(t, 16, WidthHalf.Bits())
	assert.Equal(t, 32, WidthSingle.Bits())
	assert.Equal(t, 64, WidthDouble.Bits())
	assert.False(t, Width(5).Valid())
	assert.Error(t, json.Unmarshal([]byte(`"float128"`), new(Width)))
	_, err := Width(-1).MarshalText()
	assert.Error(t, err)
}

func TestTaps_JSON(t *testing.T) {
	t.Run("real", func(t *testing.T) {
		in := Cast(filter.RealTaps(bigTaps(0.1, -0.37, 0.5)), WidthSingle)
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var got Taps
		require.NoError(t, json.Unmarshal(data, &got))
		got.Width = WidthSingle
		assert.Equal(t, in, got)
	})

	t.Run("complex", func(t *testing.T) {
		in := Taps{Width: WidthDouble, Kind: filter.Complex, Complex: []complex128{complex(0.25, -1), complex(0, 1e-9)}}
		data, err := json.Marshal(in)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"kind":"Complex","re":0.25,"im":-1},{"kind":"Complex","re":0,"im":1e-9}]`, string(data))

		var got Taps
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, in, got)
	})

	t.Run("empty", func(t *testing.T) {
		data, err := json.Marshal(Taps{})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("mixed", func(t *testing.T) {
		var got Taps
		err := json.Unmarshal([]byte(`[{"kind":"Complex","re":1,"im":0}, 2]`), &got)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
		err = json.Unmarshal([]byte(`[1, {"kind":"Complex","re":1,"im":0}]`), &got)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})
}
