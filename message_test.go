package firdesign

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const windowMessage = `{
	"messageType": "filter design request",
	"payload": {
		"designMethod": "window",
		"filterType": "lowpass",
		"tapNumericType": "real",
		"outputDatatype": "float32",
		"parameters": {
			"windowParameters": {
				"cutoffFreq": 0.25,
				"transitionBandwidth": 0.1,
				"minStopbandAttenuation": 60,
				"maxPassbandRipple": 0.1,
				"besselMaxIterations": 10
			}
		}
	}
}`

const equirippleMessage = `{
	"messageType": "filter design request",
	"payload": {
		"designMethod": "parksMcClellan",
		"filterType": "lowpass",
		"tapNumericType": "real",
		"outputDatatype": "float64",
		"parameters": {
			"bandEdges": [0, 0.2, 0.3, 0.5],
			"desired": [1, 0],
			"numTaps": 31,
			"stopbandAttenution": 60
		}
	}
}`

func decodeReply(t *testing.T, data []byte) (string, json.RawMessage) {
	t.Helper()
	var env Message
	require.NoError(t, json.Unmarshal(data, &env))
	return env.MessageType, env.Payload
}

func TestHandleMessage_Window(t *testing.T) {
	reply, err := HandleMessage([]byte(windowMessage))
	require.NoError(t, err)

	kind, payload := decodeReply(t, reply)
	assert.Equal(t, MessageFilterObject, kind)

	var res ValidatedFilterResult
	require.NoError(t, json.Unmarshal(payload, &res))
	assert.True(t, res.SpecMet)
	assert.Equal(t, WidthSingle, res.Taps.Width)
	assert.Equal(t, TapsReal, res.Taps.Kind)
	assert.NotEmpty(t, res.Taps.Real)
	assert.Equal(t, SingleCutoff(0.25), res.Parameters.Cutoff)

	// The reply carries the same design a direct call produces.
	req := lowpassRequest()
	req.OutputWidth = WidthSingle
	direct, err := DesignAndValidate(req)
	require.NoError(t, err)
	assert.Equal(t, direct.Taps, res.Taps)
	assert.Equal(t, direct.Iterations, res.Iterations)
}

func TestHandleMessage_ParksMcClellan(t *testing.T) {
	reply, err := HandleMessage([]byte(equirippleMessage))
	require.NoError(t, err)

	kind, payload := decodeReply(t, reply)
	assert.Equal(t, MessageFilterObject, kind)

	var res EquirippleResult
	require.NoError(t, json.Unmarshal(payload, &res))
	assert.Len(t, res.Taps.Real, 31)
	assert.Len(t, res.Extremal, 17)
	assert.Positive(t, res.Iterations)
}

func TestHandleMessage_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown_type", `{"messageType":"cancel","payload":{}}`, ErrUnknownMessage},
		{"unknown_method", `{"messageType":"filter design request","payload":{"designMethod":"leastSquares"}}`, ErrUnknownDesignMethod},
		{"bad_filter_type", `{"messageType":"filter design request","payload":{"designMethod":"window","filterType":"notch"}}`, ErrInvalidRequest},
		{"missing_window_parameters", `{"messageType":"filter design request","payload":{"designMethod":"window","parameters":{}}}`, ErrInvalidRequest},
		{
			"complex_equiripple",
			`{"messageType":"filter design request","payload":{"designMethod":"parksMcClellan","tapNumericType":"complex","parameters":{}}}`,
			ErrInvalidRequest,
		},
		{
			"invalid_window_request",
			`{"messageType":"filter design request","payload":{"designMethod":"window","parameters":{"windowParameters":{"cutoffFreq":0.25}}}}`,
			ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HandleMessage([]byte(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("malformed", func(t *testing.T) {
		_, err := HandleMessage([]byte(`{"messageType":`))
		require.Error(t, err)
	})
}

func TestHandleMessage_Limits(t *testing.T) {
	window := func(params string) string {
		return `{"messageType":"filter design request","payload":{"designMethod":"window","filterType":"lowpass",` +
			`"parameters":{"windowParameters":{"cutoffFreq":0.25,"transitionBandwidth":0.1,` +
			`"minStopbandAttenuation":60,"maxPassbandRipple":0.1,"besselMaxIterations":10` + params + `}}}}`
	}
	equiripple := func(params string) string {
		return `{"messageType":"filter design request","payload":{"designMethod":"parksMcClellan",` +
			`"parameters":{"bandEdges":[0,0.2,0.3,0.5],"desired":[1,0]` + params + `}}}`
	}

	tests := []struct {
		name string
		data string
	}{
		{"explicit_taps", window(`,"explicitTapCount":1000001`)},
		{"narrow_transition", strings.Replace(window(""), `"transitionBandwidth":0.1`, `"transitionBandwidth":1e-9`, 1)},
		{"iterations", window(`,"maxIterations":100000`)},
		{"bessel_iterations", strings.Replace(window(""), `"besselMaxIterations":10`, `"besselMaxIterations":100000000`, 1)},
		{"equiripple_taps", equiripple(`,"numTaps":100001`)},
		{"grid_density", equiripple(`,"numTaps":31,"gridDensity":100000`)},
		{"equiripple_iterations", equiripple(`,"numTaps":31,"maxIterations":100000`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HandleMessage([]byte(tt.data))
			require.ErrorIs(t, err, ErrMessageLimit)
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	t.Run("within_limits", func(t *testing.T) {
		m, err := ParseMessage([]byte(window(`,"explicitTapCount":101,"maxIterations":10`)))
		require.NoError(t, err)
		req, err := m.DesignRequest()
		require.NoError(t, err)
		assert.Equal(t, 101, req.ExplicitTapCount)
	})
}

func TestDesignMessage_WrongMethod(t *testing.T) {
	m, err := ParseMessage([]byte(equirippleMessage))
	require.NoError(t, err)
	_, err = m.DesignRequest()
	assert.ErrorIs(t, err, ErrUnknownDesignMethod)

	m, err = ParseMessage([]byte(windowMessage))
	require.NoError(t, err)
	_, err = m.EquirippleRequest()
	assert.ErrorIs(t, err, ErrUnknownDesignMethod)
}

func TestErrorMessage(t *testing.T) {
	kind, payload := decodeReply(t, ErrorMessage(ErrUnknownMessage))
	assert.Equal(t, MessageError, kind)
	assert.JSONEq(t, `{"error":"unknown message type"}`, string(payload))
}
