package firdesign

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Message types of the design protocol.
const (
	MessageDesignRequest = "filter design request"
	MessageFilterObject  = "filter object"
	MessageError         = "error"
)

// Design methods of a design request message.
const (
	MethodWindow         = "window"
	MethodParksMcClellan = "parksMcClellan"
)

// Limits on the work a single protocol message may ask for. Messages usually
// arrive from the network, so they get tighter bounds than library calls.
const (
	MaxMessageTaps             = 4095
	MaxMessageIterations       = 200
	MaxMessageBesselIterations = 10000
	MaxMessageEquirippleTaps   = 1023
	MaxMessageGridDensity      = 64
)

var (
	// ErrMessageLimit indicates a message asking for more work than the
	// Max* limits allow.
	ErrMessageLimit = errors.New("message exceeds design limits")

	// ErrUnknownMessage indicates a message type other than a design request.
	ErrUnknownMessage = errors.New("unknown message type")

	// ErrUnknownDesignMethod indicates a design method that is not supported.
	ErrUnknownDesignMethod = errors.New("unknown design method")
)

// Message is the envelope of every protocol message.
type Message struct {
	MessageType string          `json:"messageType"`
	Payload     json.RawMessage `json:"payload"`
}

// DesignMessage is the payload of a design request message.
type DesignMessage struct {
	DesignMethod   string          `json:"designMethod"`
	FilterType     FilterType      `json:"filterType"`
	TapNumericType TapKind         `json:"tapNumericType"`
	OutputDatatype Width           `json:"outputDatatype"`
	Parameters     json.RawMessage `json:"parameters"`
}

// WindowParameters are the parameters of a "window" design.
type WindowParameters struct {
	CutoffFreq             Cutoff  `json:"cutoffFreq"`
	TransitionBandwidth    float64 `json:"transitionBandwidth"`
	MinStopbandAttenuation float64 `json:"minStopbandAttenuation"`
	MaxPassbandRipple      float64 `json:"maxPassbandRipple"`
	BesselMaxIterations    int     `json:"besselMaxIterations"`
	ExplicitTapCount       int     `json:"explicitTapCount,omitempty"`
	MaxIterations          int     `json:"maxIterations,omitempty"`
}

// ParksMcClellanParameters are the parameters of a "parksMcClellan" design.
type ParksMcClellanParameters struct {
	BandEdges     []float64 `json:"bandEdges"`
	Desired       []float64 `json:"desired"`
	Weights       []float64 `json:"weights,omitempty"`
	NumTaps       int       `json:"numTaps"`
	GridDensity   int       `json:"gridDensity,omitempty"`
	MaxIterations int       `json:"maxIterations,omitempty"`
}

// ParseMessage decodes a design request message.
func ParseMessage(data []byte) (*DesignMessage, error) {
	var env Message
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding message: %w", err)
	}
	if env.MessageType != MessageDesignRequest {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.MessageType)
	}

	var m DesignMessage
	if err := json.Unmarshal(env.Payload, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if m.DesignMethod != MethodWindow && m.DesignMethod != MethodParksMcClellan {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDesignMethod, m.DesignMethod)
	}
	return &m, nil
}

// DesignRequest builds the request of a "window" design.
func (m *DesignMessage) DesignRequest() (DesignRequest, error) {
	if m.DesignMethod != MethodWindow {
		return DesignRequest{}, fmt.Errorf("%w: %q is not a window design", ErrUnknownDesignMethod, m.DesignMethod)
	}

	var params struct {
		WindowParameters *WindowParameters `json:"windowParameters"`
	}
	if err := json.Unmarshal(m.Parameters, &params); err != nil {
		return DesignRequest{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	w := params.WindowParameters
	if w == nil {
		return DesignRequest{}, fmt.Errorf("%w: windowParameters missing", ErrInvalidRequest)
	}

	req := DesignRequest{
		FilterType:             m.FilterType,
		TapKind:                m.TapNumericType,
		OutputWidth:            m.OutputDatatype,
		Cutoff:                 w.CutoffFreq,
		TransitionBandwidth:    w.TransitionBandwidth,
		MinStopbandAttenuation: w.MinStopbandAttenuation,
		MaxPassbandRipple:      w.MaxPassbandRipple,
		BesselMaxIterations:    w.BesselMaxIterations,
		ExplicitTapCount:       w.ExplicitTapCount,
		MaxIterations:          w.MaxIterations,
	}
	if err := req.Validate(); err != nil {
		return DesignRequest{}, err
	}
	if err := checkWindowLimits(req); err != nil {
		return DesignRequest{}, err
	}
	return req, nil
}

// checkWindowLimits bounds the longest filter the refinement loop could
// reach: every attempt shrinking the ripple and raising the attenuation.
func checkWindowLimits(req DesignRequest) error {
	req = req.withDefaults()
	if req.MaxIterations > MaxMessageIterations {
		return fmt.Errorf("%w: %w: %d iterations (maximum %d)", ErrInvalidRequest, ErrMessageLimit, req.MaxIterations, MaxMessageIterations)
	}
	if req.BesselMaxIterations > MaxMessageBesselIterations {
		return fmt.Errorf("%w: %w: %d bessel iterations (maximum %d)", ErrInvalidRequest, ErrMessageLimit, req.BesselMaxIterations, MaxMessageBesselIterations)
	}

	retries := float64(req.MaxIterations - 1)
	p := req.Parameters()
	worst := p.WithMaxPassbandRipple(p.MaxPassbandRipple * math.Pow(rippleShrink, retries)).
		WithMinStopbandAttenuation(p.MinStopbandAttenuation + retries*attenuationStep)
	if n := worst.NumTaps(); n > MaxMessageTaps || n < 0 {
		return fmt.Errorf("%w: %w: up to %d taps (maximum %d)", ErrInvalidRequest, ErrMessageLimit, n, MaxMessageTaps)
	}
	return nil
}

// EquirippleRequest builds the request of a "parksMcClellan" design.
// Equiripple designs are always real.
func (m *DesignMessage) EquirippleRequest() (EquirippleRequest, error) {
	if m.DesignMethod != MethodParksMcClellan {
		return EquirippleRequest{}, fmt.Errorf("%w: %q is not an equiripple design", ErrUnknownDesignMethod, m.DesignMethod)
	}
	if m.TapNumericType != TapsReal {
		return EquirippleRequest{}, fmt.Errorf("%w: equiripple designs have real taps", ErrInvalidRequest)
	}

	var p ParksMcClellanParameters
	if err := json.Unmarshal(m.Parameters, &p); err != nil {
		return EquirippleRequest{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	switch {
	case p.NumTaps > MaxMessageEquirippleTaps:
		return EquirippleRequest{}, fmt.Errorf("%w: %w: %d taps (maximum %d)", ErrInvalidRequest, ErrMessageLimit, p.NumTaps, MaxMessageEquirippleTaps)
	case p.GridDensity > MaxMessageGridDensity:
		return EquirippleRequest{}, fmt.Errorf("%w: %w: grid density %d (maximum %d)", ErrInvalidRequest, ErrMessageLimit, p.GridDensity, MaxMessageGridDensity)
	case p.MaxIterations > MaxMessageIterations:
		return EquirippleRequest{}, fmt.Errorf("%w: %w: %d iterations (maximum %d)", ErrInvalidRequest, ErrMessageLimit, p.MaxIterations, MaxMessageIterations)
	}
	return EquirippleRequest{
		Edges:         p.BandEdges,
		Desired:       p.Desired,
		Weights:       p.Weights,
		NumTaps:       p.NumTaps,
		GridDensity:   p.GridDensity,
		MaxIterations: p.MaxIterations,
		OutputWidth:   m.OutputDatatype,
	}, nil
}

// Design runs the design the message asks for. The result is a
// *ValidatedFilterResult for window designs and an *EquirippleResult for
// Parks–McClellan designs.
func (m *DesignMessage) Design() (any, error) {
	switch m.DesignMethod {
	case MethodWindow:
		req, err := m.DesignRequest()
		if err != nil {
			return nil, err
		}
		return DesignAndValidate(req)
	case MethodParksMcClellan:
		req, err := m.EquirippleRequest()
		if err != nil {
			return nil, err
		}
		return DesignEquiripple(req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDesignMethod, m.DesignMethod)
	}
}

// HandleMessage answers one design request message with one "filter
// object" message.
func HandleMessage(data []byte) ([]byte, error) {
	m, err := ParseMessage(data)
	if err != nil {
		return nil, err
	}
	result, err := m.Design()
	if err != nil {
		return nil, err
	}
	return encodeMessage(MessageFilterObject, result)
}

// ErrorMessage encodes err as an "error" message.
func ErrorMessage(err error) []byte {
	out, encErr := encodeMessage(MessageError, struct {
		Error string `json:"error"`
	}{err.Error()})
	if encErr != nil {
		return []byte(`{"messageType":"error","payload":{"error":"internal error"}}`)
	}
	return out
}

func encodeMessage(messageType string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", messageType, err)
	}
	return json.Marshal(Message{MessageType: messageType, Payload: body})
}
