// Package precision rounds high-precision taps to the plain floating-point
// width a caller will filter with.
package precision

import (
	"fmt"
	"math/big"

	"github.com/tphakala/go-fir-designer/internal/filter"
	"github.com/x448/float16"
)

// Width is an output floating-point width.
type Width int

// Output widths.
const (
	WidthDouble Width = iota // IEEE 754 binary64
	WidthSingle              // IEEE 754 binary32
	WidthHalf                // IEEE 754 binary16
)

var widthNames = [...]string{"float64", "float32", "float16"}

func (w Width) String() string {
	if w < 0 || int(w) >= len(widthNames) {
		return fmt.Sprintf("Width(%d)", int(w))
	}
	return widthNames[w]
}

// Bits returns the storage size of one value.
func (w Width) Bits() int {
	switch w {
	case WidthSingle:
		return 32
	case WidthHalf:
		return 16
	default:
		return 64
	}
}

// Valid reports whether w is a known width.
func (w Width) Valid() bool {
	return w >= WidthDouble && w <= WidthHalf
}

// MarshalText implements encoding.TextMarshaler.
func (w Width) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("unknown width %d", int(w))
	}
	return []byte(widthNames[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Width) UnmarshalText(text []byte) error {
	for i, name := range widthNames {
		if string(text) == name {
			*w = Width(i)
			return nil
		}
	}
	return fmt.Errorf("unknown width %q", text)
}

// Round rounds x to the nearest value representable at width w and returns
// it as a float64. Half precision rounds through binary32.
func (w Width) Round(x float64) float64 {
	switch w {
	case WidthSingle:
		return float64(float32(x))
	case WidthHalf:
		return float64(float16.Fromfloat32(float32(x)).Float32())
	default:
		return x
	}
}

// RoundBig rounds a high-precision value to width w. Double and single
// widths round once, directly from the high-precision value.
func (w Width) RoundBig(x *big.Float) float64 {
	switch w {
	case WidthSingle:
		f, _ := x.Float32()
		return float64(f)
	case WidthHalf:
		f, _ := x.Float32()
		return float64(float16.Fromfloat32(f).Float32())
	default:
		f, _ := x.Float64()
		return f
	}
}

// Taps is a tap sequence at a plain floating-point width. Values are held in
// float64 storage but are exactly representable at Width.
type Taps struct {
	Width   Width
	Kind    filter.Kind
	Real    []float64
	Complex []complex128
}

// Cast rounds every real tap, or both parts of every complex tap, to width w.
func Cast(taps filter.Taps, w Width) Taps {
	out := Taps{Width: w, Kind: taps.Kind}
	if taps.Kind == filter.Complex {
		out.Complex = make([]complex128, len(taps.Complex))
		for i, c := range taps.Complex {
			out.Complex[i] = complex(w.RoundBig(c.Re), w.RoundBig(c.Im))
		}
		return out
	}

	out.Real = make([]float64, len(taps.Real))
	for i, v := range taps.Real {
		out.Real[i] = w.RoundBig(v)
	}
	return out
}

// Cast returns a copy of t rounded to width w. Casting to the width t
// already has returns identical values.
func (t Taps) Cast(w Width) Taps {
	out := Taps{Width: w, Kind: t.Kind}
	if t.Kind == filter.Complex {
		out.Complex = make([]complex128, len(t.Complex))
		for i, c := range t.Complex {
			out.Complex[i] = complex(w.Round(real(c)), w.Round(imag(c)))
		}
		return out
	}

	out.Real = make([]float64, len(t.Real))
	for i, v := range t.Real {
		out.Real[i] = w.Round(v)
	}
	return out
}

// Len returns the number of taps.
func (t Taps) Len() int {
	if t.Kind == filter.Complex {
		return len(t.Complex)
	}
	return len(t.Real)
}

// Complex128 returns the taps as complex values; real taps get a zero
// imaginary part.
func (t Taps) Complex128() []complex128 {
	if t.Kind == filter.Complex {
		out := make([]complex128, len(t.Complex))
		copy(out, t.Complex)
		return out
	}
	out := make([]complex128, len(t.Real))
	for i, v := range t.Real {
		out[i] = complex(v, 0)
	}
	return out
}
