package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	firdesign "github.com/tphakala/go-fir-designer"
)

func realTaps(values ...float64) firdesign.OutputTaps {
	return firdesign.OutputTaps{Width: firdesign.WidthDouble, Kind: firdesign.TapsReal, Real: values}
}

func TestImpulseSamples_Real(t *testing.T) {
	samples, channels := impulseSamples(realTaps(0.25, -0.5, 0.25))
	assert.Equal(t, 1, channels)
	assert.Equal(t, []int{4194304, -8388607, 4194304}, samples)
}

func TestImpulseSamples_ComplexInterleaved(t *testing.T) {
	taps := firdesign.OutputTaps{
		Kind:    firdesign.TapsComplex,
		Complex: []complex128{complex(1, 0), complex(0, -0.5)},
	}
	samples, channels := impulseSamples(taps)
	assert.Equal(t, 2, channels)
	assert.Equal(t, []int{8388607, 0, 0, -4194304}, samples)
}

func TestImpulseSamples_Silent(t *testing.T) {
	samples, _ := impulseSamples(realTaps(0, 0, 0))
	assert.Equal(t, []int{0, 0, 0}, samples)
}

func TestWriteImpulseWAV(t *testing.T) {
	tests := []struct {
		name     string
		taps     firdesign.OutputTaps
		channels int
	}{
		{"mono", realTaps(0.1, 0.8, 0.1), 1},
		{"iq", firdesign.OutputTaps{Kind: firdesign.TapsComplex, Complex: []complex128{complex(0.1, 0.2), complex(0.8, 0), complex(0.1, -0.2)}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "impulse.wav")
			require.NoError(t, writeImpulseWAV(path, tt.taps, 44100))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()

			dec := wav.NewDecoder(f)
			require.True(t, dec.IsValidFile())
			buf, err := dec.FullPCMBuffer()
			require.NoError(t, err)

			assert.Equal(t, uint32(44100), dec.SampleRate)
			assert.Equal(t, uint16(tt.channels), dec.NumChans)
			assert.Equal(t, uint16(24), dec.BitDepth)
			assert.Len(t, buf.Data, 3*tt.channels)
			assert.Contains(t, buf.Data, 8388607)
		})
	}
}

func TestWriteImpulseWAV_Errors(t *testing.T) {
	assert.Error(t, writeImpulseWAV(filepath.Join(t.TempDir(), "empty.wav"), realTaps(), 48000))
	assert.Error(t, writeImpulseWAV(filepath.Join(t.TempDir(), "missing", "x.wav"), realTaps(1), 48000))
}

func TestApplyEnv(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cutoff := fs.Float64("cutoff-high", 0, "")
	kind := fs.String("kind", "real", "")

	t.Setenv("FIRDESIGN_CUTOFF_HIGH", "0.3")
	require.NoError(t, applyEnv(fs))
	assert.InDelta(t, 0.3, *cutoff, 0)
	assert.Equal(t, "real", *kind)

	// Command-line flags still override the environment.
	require.NoError(t, fs.Parse([]string{"-cutoff-high", "0.4"}))
	assert.InDelta(t, 0.4, *cutoff, 0)

	t.Setenv("FIRDESIGN_CUTOFF_HIGH", "high")
	assert.ErrorContains(t, applyEnv(fs), "FIRDESIGN_CUTOFF_HIGH")
}

func TestOptions_DesignRequest(t *testing.T) {
	o := options{filterType: "bandstop", kind: "complex", width: "float16", cutoff: 0.1, cutoffHigh: 0.3, bw: 0.05}
	req, err := o.designRequest()
	require.NoError(t, err)
	assert.Equal(t, firdesign.Bandstop, req.FilterType)
	assert.Equal(t, firdesign.TapsComplex, req.TapKind)
	assert.Equal(t, firdesign.WidthHalf, req.OutputWidth)
	assert.Equal(t, firdesign.BandCutoff(0.1, 0.3), req.Cutoff)

	o.filterType = "comb"
	_, err = o.designRequest()
	assert.Error(t, err)
}

func TestPlotResponse(t *testing.T) {
	res, err := firdesign.DesignAndValidate(firdesign.DesignRequest{
		FilterType:             firdesign.Lowpass,
		Cutoff:                 firdesign.SingleCutoff(0.25),
		TransitionBandwidth:    0.1,
		MinStopbandAttenuation: 40,
		MaxPassbandRipple:      0.5,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	plotResponse(&buf, res.Taps)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, plotHeight+2)

	// Every column has exactly one point.
	for col := range plotWidth {
		points := 0
		for _, line := range lines[:plotHeight] {
			bar := strings.Index(line, "|")
			if line[bar+1+col] == '*' {
				points++
			}
		}
		assert.Equal(t, 1, points, "column %d", col)
	}

	// DC sits on the 0 dB neighbourhood, near the top of the plot.
	assert.Contains(t, strings.Join(lines[:2], "\n"), "*")

	buf.Reset()
	printResult(&buf, res)
	assert.Contains(t, buf.String(), "passband [0, 0.2]")
	assert.Contains(t, buf.String(), "spec met")
}
