package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	firdesign "github.com/tphakala/go-fir-designer"
	"github.com/tphakala/go-fir-designer/internal/mathutil"
	"github.com/tphakala/go-fir-designer/internal/spectrum"
	"github.com/tphakala/simd/f64"
)

const (
	// WAV export
	wavBitDepth   = 24
	wavPCMFormat  = 1
	maxInt24      = 8388607.0
	monoChannels  = 1
	iqChannels    = 2
	envFlagPrefix = "FIRDESIGN_"

	// ASCII plot
	plotWidth   = 72
	plotHeight  = 16
	plotFloorDB = -120.0
	plotCeilDB  = 10.0
)

// applyEnv sets every flag of fs that has a FIRDESIGN_<NAME> variable in the
// environment. Dashes in flag names become underscores. Command-line flags
// parsed afterwards still win.
func applyEnv(fs *flag.FlagSet) error {
	var firstErr error
	fs.VisitAll(func(f *flag.Flag) {
		key := envFlagPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		v, ok := os.LookupEnv(key)
		if !ok || firstErr != nil {
			return
		}
		if err := fs.Set(f.Name, v); err != nil {
			firstErr = fmt.Errorf("%s: %w", key, err)
		}
	})
	return firstErr
}

// impulseSamples converts taps to 24-bit PCM, scaled so the largest
// component reaches full scale. Complex taps are interleaved as I/Q pairs.
func impulseSamples(taps firdesign.OutputTaps) (samples []int, channels int) {
	values := taps.Real
	channels = monoChannels
	if taps.Kind == firdesign.TapsComplex {
		channels = iqChannels
		values = make([]float64, 0, iqChannels*len(taps.Complex))
		for _, c := range taps.Complex {
			values = append(values, real(c), imag(c))
		}
	}

	var peak float64
	for _, v := range values {
		peak = max(peak, math.Abs(v))
	}

	scaled := make([]float64, len(values))
	if peak > 0 {
		f64.Scale(scaled, values, maxInt24/peak)
	}

	samples = make([]int, len(scaled))
	for i, v := range scaled {
		samples[i] = int(math.Round(v))
	}
	return samples, channels
}

// writeImpulseWAV writes taps as a normalized 24-bit PCM impulse response.
func writeImpulseWAV(path string, taps firdesign.OutputTaps, sampleRate int) error {
	if taps.Len() == 0 {
		return fmt.Errorf("no taps to write")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	samples, channels := impulseSamples(taps)
	enc := wav.NewEncoder(f, sampleRate, wavBitDepth, channels, wavPCMFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: wavBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return f.Close()
}

// plotResponse draws the magnitude response as ASCII art. Real taps are
// drawn over [0, 0.5], complex taps over [-0.5, 0.5].
func plotResponse(w io.Writer, taps firdesign.OutputTaps) {
	responseDB := spectrum.FrequencyResponseDB(taps.Complex128(), spectrum.DefaultPaddingScalar)

	lo := -0.5
	if taps.Kind == firdesign.TapsReal {
		lo = 0
	}

	rows := make([][]byte, plotHeight)
	for r := range rows {
		rows[r] = []byte(strings.Repeat(" ", plotWidth))
	}
	for col := range plotWidth {
		f := mathutil.LinearMap(float64(col), 0, plotWidth-1, lo, 0.5)
		db := min(max(spectrum.Interpolate(f, responseDB), plotFloorDB), plotCeilDB)
		row := int(math.Round(mathutil.LinearMap(db, plotCeilDB, plotFloorDB, 0, plotHeight-1)))
		rows[row][col] = '*'
	}

	for r, line := range rows {
		label := mathutil.LinearMap(float64(r), 0, plotHeight-1, plotCeilDB, plotFloorDB)
		fmt.Fprintf(w, "%7.1f dB |%s\n", label, line)
	}
	fmt.Fprintf(w, "%11s+%s\n", "", strings.Repeat("-", plotWidth))
	fmt.Fprintf(w, "%12s%-*g%g\n", "", plotWidth-3, lo, 0.5)
}

// printResult writes the taps and the measured band responses.
func printResult(w io.Writer, res *firdesign.ValidatedFilterResult) {
	status := "met"
	if !res.SpecMet {
		status = "NOT met (" + res.FailureReason.String() + ")"
	}
	fmt.Fprintf(w, "# %s %s filter, %d taps at %s, spec %s after %d attempt(s)\n",
		res.Parameters.TapKind, res.Parameters.FilterType, res.Taps.Len(), res.Taps.Width, status, res.Iterations)
	fmt.Fprintf(w, "# design attenuation %.2f dB, ripple %.4g dB, beta %.4f\n",
		res.Parameters.Attenuation(), res.Parameters.MaxPassbandRipple, res.Parameters.Beta())

	printBands(w, "passband", res.PassbandEdges, res.Passband)
	printBands(w, "stopband", res.StopbandEdges, res.Stopband)
	printTaps(w, res.Taps)
}

func printBands(w io.Writer, name string, edges []float64, bands []firdesign.BandResponse) {
	for i, b := range bands {
		start, end := spectrum.BandEdges(edges).Band(i)
		fmt.Fprintf(w, "# %s [%g, %g]: min %.4f dB, max %.4f dB\n", name, start, end, b.MinDB, b.MaxDB)
	}
}

func printTaps(w io.Writer, taps firdesign.OutputTaps) {
	if taps.Kind == firdesign.TapsComplex {
		for _, c := range taps.Complex {
			fmt.Fprintf(w, "%.17g %.17g\n", real(c), imag(c))
		}
		return
	}
	for _, v := range taps.Real {
		fmt.Fprintf(w, "%.17g\n", v)
	}
}
