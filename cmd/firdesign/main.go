// Command firdesign designs a Kaiser-window FIR filter, verifies its
// measured response and prints the taps.
//
// Usage:
//
//	firdesign -type lowpass -cutoff 0.25 -bw 0.1 -atten 60 -ripple 0.1
//	firdesign -type bandpass -cutoff 0.1 -cutoff-high 0.3 -kind complex -width float32
//	firdesign -json -request design.json          # run a protocol message
//	firdesign -wav impulse.wav -rate 48000 ...    # export the impulse response
//
// Flag defaults can be overridden with FIRDESIGN_<FLAG> environment
// variables, read from the environment or a .env file.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	firdesign "github.com/tphakala/go-fir-designer"
)

const defaultSampleRate = 48000

type options struct {
	filterType string
	kind       string
	width      string
	cutoff     float64
	cutoffHigh float64
	bw         float64
	atten      float64
	ripple     float64
	bessel     int
	taps       int
	iterations int
	precision  uint
	request    string
	wavPath    string
	rate       int
	json       bool
	plot       bool
	verbose    bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	var o options
	fs := flag.CommandLine
	fs.StringVar(&o.filterType, "type", "lowpass", "Filter shape: lowpass, highpass, bandpass, bandstop")
	fs.StringVar(&o.kind, "kind", "real", "Tap kind: real, complex")
	fs.StringVar(&o.width, "width", "float64", "Output width: float64, float32, float16")
	fs.Float64Var(&o.cutoff, "cutoff", 0.25, "Cutoff, or lower band edge, normalized to the sample rate")
	fs.Float64Var(&o.cutoffHigh, "cutoff-high", 0, "Upper band edge for bandpass and bandstop")
	fs.Float64Var(&o.bw, "bw", 0.1, "Transition bandwidth, normalized")
	fs.Float64Var(&o.atten, "atten", 60, "Minimum stopband attenuation in dB")
	fs.Float64Var(&o.ripple, "ripple", 0.1, "Maximum passband ripple in dB")
	fs.IntVar(&o.bessel, "bessel", firdesign.DefaultBesselMaxIterations, "Bessel series iteration limit")
	fs.IntVar(&o.taps, "taps", 0, "Fixed tap count (0 estimates it)")
	fs.IntVar(&o.iterations, "iterations", firdesign.DefaultMaxIterations, "Refinement budget")
	fs.UintVar(&o.precision, "precision", firdesign.DefaultPrecision, "Synthesis precision in bits")
	fs.StringVar(&o.request, "request", "", "Read a JSON design request message from this file instead of flags")
	fs.StringVar(&o.wavPath, "wav", "", "Write the impulse response to this WAV file")
	fs.IntVar(&o.rate, "rate", defaultSampleRate, "Sample rate of the WAV file")
	fs.BoolVar(&o.json, "json", false, "Print the result as a JSON message")
	fs.BoolVar(&o.plot, "plot", false, "Draw the magnitude response")
	fs.BoolVar(&o.verbose, "v", false, "Verbose output")

	if err := applyEnv(fs); err != nil {
		return err
	}
	flag.Parse()

	if o.request != "" {
		return runMessage(o)
	}

	req, err := o.designRequest()
	if err != nil {
		return err
	}
	if o.verbose {
		p := req.Parameters()
		log.Printf("Design: %s %s, cutoff %s, bw %g", req.TapKind, req.FilterType, req.Cutoff, req.TransitionBandwidth)
		log.Printf("Initial estimate: %d taps, beta %.4f, attenuation %.2f dB", p.NumTaps(), p.Beta(), p.Attenuation())
	}

	start := time.Now()
	res, err := firdesign.DesignAndValidate(req)
	if err != nil {
		return err
	}
	if o.verbose {
		log.Printf("Finished in %v after %d attempt(s)", time.Since(start), res.Iterations)
	}
	return output(o, res)
}

// designRequest builds a request from the shape flags.
func (o options) designRequest() (firdesign.DesignRequest, error) {
	req := firdesign.DesignRequest{
		TransitionBandwidth:    o.bw,
		MinStopbandAttenuation: o.atten,
		MaxPassbandRipple:      o.ripple,
		BesselMaxIterations:    o.bessel,
		ExplicitTapCount:       o.taps,
		MaxIterations:          o.iterations,
		Precision:              o.precision,
	}
	if err := req.FilterType.UnmarshalText([]byte(o.filterType)); err != nil {
		return req, err
	}
	if err := req.TapKind.UnmarshalText([]byte(o.kind)); err != nil {
		return req, err
	}
	if err := req.OutputWidth.UnmarshalText([]byte(o.width)); err != nil {
		return req, err
	}

	req.Cutoff = firdesign.SingleCutoff(o.cutoff)
	if req.FilterType.IsBand() {
		req.Cutoff = firdesign.BandCutoff(o.cutoff, o.cutoffHigh)
	}
	return req, nil
}

// runMessage handles a protocol message read from a file.
func runMessage(o options) error {
	data, err := os.ReadFile(o.request)
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	m, err := firdesign.ParseMessage(data)
	if err != nil {
		return err
	}
	if o.verbose {
		log.Printf("Request: %s design of a %s %s filter", m.DesignMethod, m.TapNumericType, m.FilterType)
	}

	result, err := m.Design()
	if err != nil {
		return err
	}

	switch res := result.(type) {
	case *firdesign.ValidatedFilterResult:
		return output(o, res)
	case *firdesign.EquirippleResult:
		if o.json {
			return printJSON(res)
		}
		fmt.Printf("# equiripple filter, %d taps at %s, ripple %.6g after %d iteration(s)\n",
			res.Taps.Len(), res.Taps.Width, res.Ripple, res.Iterations)
		printTaps(os.Stdout, res.Taps)
		return exportTaps(o, res.Taps)
	default:
		return errors.New("unexpected design result")
	}
}

func output(o options, res *firdesign.ValidatedFilterResult) error {
	if o.json {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printResult(os.Stdout, res)
	}
	if o.plot {
		plotResponse(os.Stdout, res.Taps)
	}
	return exportTaps(o, res.Taps)
}

func exportTaps(o options, taps firdesign.OutputTaps) error {
	if o.wavPath == "" {
		return nil
	}
	if err := writeImpulseWAV(o.wavPath, taps, o.rate); err != nil {
		return err
	}
	if o.verbose {
		log.Printf("Wrote %d taps to %s", taps.Len(), o.wavPath)
	}
	return nil
}

func printJSON(payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(firdesign.Message{MessageType: firdesign.MessageFilterObject, Payload: body}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
