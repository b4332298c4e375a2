package firdesign

import (
	"encoding/json"
	"fmt"
)

// validatedFilterJSON is the wire form of a ValidatedFilterResult, the
// payload of a "filter object" message.
type validatedFilterJSON struct {
	Taps             OutputTaps       `json:"taps"`
	TapNumericType   TapKind          `json:"tapNumericType"`
	OutputDatatype   Width            `json:"outputDatatype"`
	SpecificationMet bool             `json:"specificationMet"`
	FailureReason    FailureReason    `json:"failureReason,omitempty"`
	Passband         []BandResponse   `json:"passbandResponse"`
	Stopband         []BandResponse   `json:"stopbandResponse"`
	PassbandEdges    []float64        `json:"passbandEdges"`
	StopbandEdges    []float64        `json:"stopbandEdges"`
	Iterations       int              `json:"iterations"`
	Parameters       DesignParameters `json:"parameters"`
}

// MarshalJSON implements json.Marshaler.
func (r ValidatedFilterResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(validatedFilterJSON{
		Taps:             r.Taps,
		TapNumericType:   r.Taps.Kind,
		OutputDatatype:   r.Taps.Width,
		SpecificationMet: r.SpecMet,
		FailureReason:    r.FailureReason,
		Passband:         r.Passband,
		Stopband:         r.Stopband,
		PassbandEdges:    r.PassbandEdges,
		StopbandEdges:    r.StopbandEdges,
		Iterations:       r.Iterations,
		Parameters:       r.Parameters,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ValidatedFilterResult) UnmarshalJSON(data []byte) error {
	var v validatedFilterJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Taps.Len() > 0 && v.Taps.Kind != v.TapNumericType {
		return fmt.Errorf("taps are %s but tapNumericType is %s", v.Taps.Kind, v.TapNumericType)
	}

	if v.Taps.Len() == 0 && v.TapNumericType == TapsComplex {
		v.Taps = OutputTaps{Complex: []complex128{}}
	}
	v.Taps.Kind = v.TapNumericType
	v.Taps.Width = v.OutputDatatype
	*r = ValidatedFilterResult{
		Taps:          v.Taps,
		SpecMet:       v.SpecificationMet,
		FailureReason: v.FailureReason,
		Passband:      v.Passband,
		Stopband:      v.Stopband,
		PassbandEdges: v.PassbandEdges,
		StopbandEdges: v.StopbandEdges,
		Iterations:    v.Iterations,
		Parameters:    v.Parameters,
	}
	return nil
}
