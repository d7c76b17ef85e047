// Package freqresp measures the frequency response of a linear processor
// by capturing its impulse response and transforming it to a magnitude
// spectrum. It is the measurement-side complement of the analytic
// transfer-function evaluation in dsp/filter/biquad.
package freqresp

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-fx/dsp/effect"
)

const defaultFFTSize = 8192

// Config holds measurement parameters.
type Config struct {
	// SampleRate maps FFT bins to frequencies. Required.
	SampleRate float64

	// FFTSize is the capture length; it is rounded up to a power of two.
	// Zero selects a default of 8192.
	FFTSize int
}

func (c Config) normalized() (Config, error) {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return c, fmt.Errorf("freqresp: sample rate must be > 0: %f", c.SampleRate)
	}

	if c.FFTSize <= 0 {
		c.FFTSize = defaultFFTSize
	}

	c.FFTSize = nextPowerOf2(c.FFTSize)

	return c, nil
}

// Result holds a one-sided magnitude spectrum, bins 0 through Nyquist.
type Result struct {
	SampleRate  float64
	FFTSize     int
	MagnitudeDB []float64
}

// Processor is the slice-in-place block transform being measured.
type Processor func(block []float64)

// Measure captures the impulse response of proc and returns its
// magnitude spectrum. proc must be linear and time-invariant for the
// result to mean anything; it is called exactly once with a block of
// FFTSize samples.
func Measure(proc Processor, cfg Config) (Result, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return Result{}, err
	}

	block := make([]float64, cfg.FFTSize)
	block[0] = 1

	proc(block)

	return fromImpulse(block, cfg)
}

// MeasureEffect captures the response of a prepared effect. The effect
// is reset before and after the capture so the probe impulse does not
// leak into subsequent audio.
func MeasureEffect(fx effect.Effect, cfg Config) (Result, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return Result{}, err
	}

	fx.Reset()
	defer fx.Reset()

	block := make([]float64, cfg.FFTSize)
	block[0] = 1

	fx.Process(block)

	return fromImpulse(block, cfg)
}

func fromImpulse(impulse []float64, cfg Config) (Result, error) {
	in := make([]complex128, cfg.FFTSize)
	for i, v := range impulse {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return Result{}, fmt.Errorf("freqresp: fft plan: %w", err)
	}

	out := make([]complex128, cfg.FFTSize)

	err = plan.Forward(out, in)
	if err != nil {
		return Result{}, fmt.Errorf("freqresp: forward fft: %w", err)
	}

	bins := cfg.FFTSize/2 + 1
	mags := make([]float64, bins)

	for i := 0; i < bins; i++ {
		re := real(out[i])
		im := imag(out[i])
		mags[i] = 10 * math.Log10(re*re+im*im)
	}

	return Result{
		SampleRate:  cfg.SampleRate,
		FFTSize:     cfg.FFTSize,
		MagnitudeDB: mags,
	}, nil
}

// BinFrequency returns the center frequency of bin i.
func (r Result) BinFrequency(i int) float64 {
	return float64(i) * r.SampleRate / float64(r.FFTSize)
}

// At returns the magnitude in dB at the given frequency, linearly
// interpolated between neighboring bins. Frequencies outside
// [0, Nyquist] return negative infinity.
func (r Result) At(freq float64) float64 {
	if len(r.MagnitudeDB) == 0 || freq < 0 || freq > r.SampleRate/2 {
		return math.Inf(-1)
	}

	pos := freq * float64(r.FFTSize) / r.SampleRate

	lo := int(pos)
	if lo >= len(r.MagnitudeDB)-1 {
		return r.MagnitudeDB[len(r.MagnitudeDB)-1]
	}

	frac := pos - float64(lo)

	return r.MagnitudeDB[lo] + frac*(r.MagnitudeDB[lo+1]-r.MagnitudeDB[lo])
}

// CutoffAbove walks upward from the peak bin and returns the first
// frequency where the magnitude has fallen dropDB below the peak,
// interpolating between bins. It returns NaN when the response never
// drops that far.
func (r Result) CutoffAbove(dropDB float64) float64 {
	if len(r.MagnitudeDB) == 0 {
		return math.NaN()
	}

	peak := 0
	for i, m := range r.MagnitudeDB {
		if m > r.MagnitudeDB[peak] {
			peak = i
		}
	}

	threshold := r.MagnitudeDB[peak] - dropDB

	for i := peak + 1; i < len(r.MagnitudeDB); i++ {
		if r.MagnitudeDB[i] <= threshold {
			prev := r.MagnitudeDB[i-1]
			cur := r.MagnitudeDB[i]

			frac := 0.0
			if prev != cur {
				frac = (prev - threshold) / (prev - cur)
			}

			return r.BinFrequency(i-1) + frac*(r.BinFrequency(i)-r.BinFrequency(i-1))
		}
	}

	return math.NaN()
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size *= 2
	}

	return size
}
