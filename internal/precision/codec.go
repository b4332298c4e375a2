package precision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tphakala/go-fir-designer/internal/filter"
)

// ErrInvalidEncoding is returned for tap arrays that mix element forms.
var ErrInvalidEncoding = errors.New("invalid cast taps")

type complexJSON struct {
	Kind string  `json:"kind"`
	Re   float64 `json:"re"`
	Im   float64 `json:"im"`
}

// MarshalJSON encodes real taps as a plain number array and complex taps as
// an array of {"kind":"Complex","re":…,"im":…} objects. Width is not part of
// the encoding; containers carry it alongside.
func (t Taps) MarshalJSON() ([]byte, error) {
	if t.Kind == filter.Complex {
		out := make([]complexJSON, len(t.Complex))
		for i, c := range t.Complex {
			out[i] = complexJSON{Kind: filter.KindComplex, Re: real(c), Im: imag(c)}
		}
		return json.Marshal(out)
	}
	if t.Real == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Real)
}

// UnmarshalJSON decodes either array form. The decoded taps have
// WidthDouble; callers that know the width set it afterwards.
func (t *Taps) UnmarshalJSON(data []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}

	out := Taps{Width: WidthDouble, Kind: filter.Real, Real: []float64{}}
	if len(elems) > 0 && bytes.HasPrefix(bytes.TrimSpace(elems[0]), []byte("{")) {
		out = Taps{Width: WidthDouble, Kind: filter.Complex, Complex: make([]complex128, 0, len(elems))}
	}

	for i, e := range elems {
		if out.Kind == filter.Complex {
			var c complexJSON
			if err := json.Unmarshal(e, &c); err != nil || c.Kind != filter.KindComplex {
				return fmt.Errorf("%w: tap %d is not a complex value", ErrInvalidEncoding, i)
			}
			out.Complex = append(out.Complex, complex(c.Re, c.Im))
			continue
		}
		var v float64
		if err := json.Unmarshal(e, &v); err != nil {
			return fmt.Errorf("%w: tap %d is not a number", ErrInvalidEncoding, i)
		}
		out.Real = append(out.Real, v)
	}

	*t = out
	return nil
}
