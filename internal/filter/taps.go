package filter

import (
	"fmt"
	"math/big"
)

// Type selects the filter shape.
type Type int

// Filter shapes.
const (
	Lowpass Type = iota
	Highpass
	Bandpass
	Bandstop
)

var typeNames = [...]string{"lowpass", "highpass", "bandpass", "bandstop"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// IsBand reports whether the shape is specified by a [low, high] cutoff pair.
func (t Type) IsBand() bool {
	return t == Bandpass || t == Bandstop
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(typeNames) {
		return nil, fmt.Errorf("unknown filter type %d", int(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	for i, name := range typeNames {
		if string(text) == name {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unknown filter type %q", text)
}

// Kind selects real or complex taps.
type Kind int

// Tap kinds.
const (
	Real Kind = iota
	Complex
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Complex:
		return "complex"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != Real && k != Complex {
		return nil, fmt.Errorf("unknown tap kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "real":
		*k = Real
	case "complex":
		*k = Complex
	default:
		return fmt.Errorf("unknown tap kind %q", text)
	}
	return nil
}

// BigComplex is a complex number with arbitrary-precision parts.
type BigComplex struct {
	Re, Im *big.Float
}

// Complex128 rounds both parts to the nearest float64.
func (c BigComplex) Complex128() complex128 {
	re, _ := c.Re.Float64()
	im, _ := c.Im.Float64()
	return complex(re, im)
}

// Taps is a high-precision tap sequence. Exactly one of Real and Complex is
// populated, as selected by Kind.
type Taps struct {
	Kind    Kind
	Real    []*big.Float
	Complex []BigComplex
}

// RealTaps wraps a real sequence.
func RealTaps(taps []*big.Float) Taps {
	return Taps{Kind: Real, Real: taps}
}

// ComplexTaps wraps a complex sequence.
func ComplexTaps(taps []BigComplex) Taps {
	return Taps{Kind: Complex, Complex: taps}
}

// Len returns the number of taps.
func (t Taps) Len() int {
	if t.Kind == Complex {
		return len(t.Complex)
	}
	return len(t.Real)
}

// Complex128 rounds the sequence to float64 complex values; real taps get a
// zero imaginary part.
func (t Taps) Complex128() []complex128 {
	out := make([]complex128, t.Len())
	if t.Kind == Complex {
		for i, c := range t.Complex {
			out[i] = c.Complex128()
		}
		return out
	}
	for i, v := range t.Real {
		f, _ := v.Float64()
		out[i] = complex(f, 0)
	}
	return out
}

// asComplex lifts real taps into complex ones with exactly zero imaginary
// parts, sharing the real values.
func asComplex(taps []*big.Float, prec uint) []BigComplex {
	out := make([]BigComplex, len(taps))
	for i, v := range taps {
		out[i] = BigComplex{Re: v, Im: new(big.Float).SetPrec(prec)}
	}
	return out
}
