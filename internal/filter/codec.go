package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/tphakala/go-fir-designer/internal/mathutil"
)

// JSON element tags used by the browser front end for high-precision values.
const (
	KindBigNumber = "BigNumber"
	KindComplex   = "Complex"
)

// ErrInvalidEncoding is returned when a tagged number cannot be decoded.
var ErrInvalidEncoding = errors.New("invalid tagged number")

// bigNumberJSON is {"kind":"BigNumber","value":"…"}. Precision is an
// extension: decoders without it fall back to mathutil.DefaultPrecision.
type bigNumberJSON struct {
	Kind      string `json:"kind"`
	Value     string `json:"value,omitempty"`
	Re        string `json:"re,omitempty"`
	Im        string `json:"im,omitempty"`
	Precision uint   `json:"precision,omitempty"`
}

// formatBig returns the shortest decimal that parses back to x at x's
// precision.
func formatBig(x *big.Float) string {
	return x.Text('g', -1)
}

func parseBig(s string, prec uint) (*big.Float, error) {
	if prec == 0 {
		prec = mathutil.DefaultPrecision
	}
	x, ok := new(big.Float).SetPrec(prec).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidEncoding, s)
	}
	return x, nil
}

// MarshalJSON encodes the sequence as an array of tagged numbers:
// BigNumber elements for real taps, Complex elements for complex taps.
func (t Taps) MarshalJSON() ([]byte, error) {
	out := make([]bigNumberJSON, 0, t.Len())
	if t.Kind == Complex {
		for _, c := range t.Complex {
			out = append(out, bigNumberJSON{
				Kind:      KindComplex,
				Re:        formatBig(c.Re),
				Im:        formatBig(c.Im),
				Precision: max(c.Re.Prec(), c.Im.Prec()),
			})
		}
		return json.Marshal(out)
	}
	for _, v := range t.Real {
		out = append(out, bigNumberJSON{Kind: KindBigNumber, Value: formatBig(v), Precision: v.Prec()})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an array of tagged numbers. The kind of the
// sequence follows the tag of its elements; mixed tags are rejected and an
// empty array decodes as real.
func (t *Taps) UnmarshalJSON(data []byte) error {
	var elems []bigNumberJSON
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}

	out := Taps{Kind: Real}
	if len(elems) > 0 && elems[0].Kind == KindComplex {
		out.Kind = Complex
	}

	for i, e := range elems {
		switch {
		case e.Kind == KindBigNumber && out.Kind == Real:
			v, err := parseBig(e.Value, e.Precision)
			if err != nil {
				return fmt.Errorf("tap %d: %w", i, err)
			}
			out.Real = append(out.Real, v)
		case e.Kind == KindComplex && out.Kind == Complex:
			re, err := parseBig(e.Re, e.Precision)
			if err != nil {
				return fmt.Errorf("tap %d: %w", i, err)
			}
			im, err := parseBig(e.Im, e.Precision)
			if err != nil {
				return fmt.Errorf("tap %d: %w", i, err)
			}
			out.Complex = append(out.Complex, BigComplex{Re: re, Im: im})
		default:
			return fmt.Errorf("%w: tap %d has kind %q in a %s sequence", ErrInvalidEncoding, i, e.Kind, out.Kind)
		}
	}

	*t = out
	return nil
}
