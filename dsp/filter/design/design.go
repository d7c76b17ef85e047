// Package design computes biquad coefficients for the standard RBJ
// ("Audio EQ Cookbook") response shapes via the bilinear transform.
//
// Degenerate inputs are clamped, never rejected: frequency is kept inside
// (0, Nyquist), Q is kept positive, and non-finite inputs fall back to
// passthrough coefficients. Swept filters reconfigure every block or every
// sample, so design functions allocate nothing and always return usable
// coefficients.
package design

import (
	"math"

	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
)

// DefaultQ is the Butterworth quality factor, flattest passband response.
const DefaultQ = 1 / math.Sqrt2

const (
	// minFreqHz is the lowest cutoff accepted before clamping.
	minFreqHz = 0.01
	// maxFreqRatio keeps the cutoff safely below Nyquist, where the
	// bilinear transform degenerates.
	maxFreqRatio = 0.499
	// minQ is the smallest accepted quality factor.
	minQ = 1e-3
)

// Type identifies a filter response shape.
type Type int

const (
	// TypeLowpass passes frequencies below the cutoff.
	TypeLowpass Type = iota
	// TypeHighpass passes frequencies above the cutoff.
	TypeHighpass
	// TypeBandpass passes a band around the center frequency
	// (constant skirt gain).
	TypeBandpass
	// TypeNotch rejects a band around the center frequency.
	TypeNotch
	// TypeAllpass passes all frequencies, shifting phase around the
	// center frequency.
	TypeAllpass
	// TypePeak boosts or cuts a band around the center frequency.
	TypePeak
	// TypeLowShelf boosts or cuts everything below the corner frequency.
	TypeLowShelf
	// TypeHighShelf boosts or cuts everything above the corner frequency.
	TypeHighShelf
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeLowpass:
		return "lowpass"
	case TypeHighpass:
		return "highpass"
	case TypeBandpass:
		return "bandpass"
	case TypeNotch:
		return "notch"
	case TypeAllpass:
		return "allpass"
	case TypePeak:
		return "peak"
	case TypeLowShelf:
		return "lowshelf"
	case TypeHighShelf:
		return "highshelf"
	default:
		return "unknown"
	}
}

// Design computes coefficients for the given response shape. gainDB only
// affects the peak and shelf types.
func Design(t Type, freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	switch t {
	case TypeLowpass:
		return Lowpass(freq, q, sampleRate)
	case TypeHighpass:
		return Highpass(freq, q, sampleRate)
	case TypeBandpass:
		return Bandpass(freq, q, sampleRate)
	case TypeNotch:
		return Notch(freq, q, sampleRate)
	case TypeAllpass:
		return Allpass(freq, q, sampleRate)
	case TypePeak:
		return Peak(freq, gainDB, q, sampleRate)
	case TypeLowShelf:
		return LowShelf(freq, gainDB, q, sampleRate)
	case TypeHighShelf:
		return HighShelf(freq, gainDB, q, sampleRate)
	default:
		return biquad.Identity()
	}
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := angularFreq(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * safeQ(q))

	b1 := 1 - cw
	b0 := b1 / 2

	return normalize(b0, b1, b0, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := angularFreq(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * safeQ(q))

	b1 := -(1 + cw)
	b0 := -b1 / 2

	return normalize(b0, b1, b0, 1+alpha, -2*cw, 1-alpha)
}

// Bandpass designs a constant-skirt-gain bandpass biquad.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := angularFreq(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * safeQ(q))

	return normalize(sw/2, 0, -sw/2, 1+alpha, -2*cw, 1-alpha)
}

// Notch designs a notch biquad centered at freq (Hz).
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := angularFreq(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * safeQ(q))

	return normalize(1, -2*cw, 1, 1+alpha, -2*cw, 1-alpha)
}

// Allpass designs an allpass biquad centered at freq (Hz). Unity magnitude
// everywhere; phasers sweep cascades of these.
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := angularFreq(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * safeQ(q))

	return normalize(1-alpha, -2*cw, 1+alpha, 1+alpha, -2*cw, 1-alpha)
}

// Peak designs a peaking-EQ biquad with gain in dB.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := angularFreq(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * safeQ(q))
	a := gainAmp(gainDB)

	return normalize(1+alpha*a, -2*cw, 1-alpha*a, 1+alpha/a, -2*cw, 1-alpha/a)
}

// LowShelf designs a low-shelf biquad with gain in dB.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := angularFreq(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * safeQ(q))
	a := gainAmp(gainDB)
	beta := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) - (a-1)*cw + beta)
	b1 := 2 * a * ((a - 1) - (a+1)*cw)
	b2 := a * ((a + 1) - (a-1)*cw - beta)
	a0 := (a + 1) + (a-1)*cw + beta
	a1 := -2 * ((a - 1) + (a+1)*cw)
	a2 := (a + 1) + (a-1)*cw - beta

	return normalize(b0, b1, b2, a0, a1, a2)
}

// HighShelf designs a high-shelf biquad with gain in dB.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := angularFreq(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * safeQ(q))
	a := gainAmp(gainDB)
	beta := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) + (a-1)*cw + beta)
	b1 := -2 * a * ((a - 1) + (a+1)*cw)
	b2 := a * ((a + 1) + (a-1)*cw - beta)
	a0 := (a + 1) - (a-1)*cw + beta
	a1 := 2 * ((a - 1) - (a+1)*cw)
	a2 := (a + 1) - (a-1)*cw - beta

	return normalize(b0, b1, b2, a0, a1, a2)
}

// angularFreq clamps freq into (0, Nyquist) and returns the angular
// frequency w0. Only a non-finite or non-positive sample rate reports
// failure; frequency itself is always recoverable by clamping.
func angularFreq(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if math.IsNaN(freq) {
		return 0, false
	}

	if freq < minFreqHz {
		freq = minFreqHz
	}

	if limit := maxFreqRatio * sampleRate; freq > limit {
		freq = limit
	}

	return 2 * math.Pi * freq / sampleRate, true
}

// safeQ clamps q to a positive minimum.
func safeQ(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return DefaultQ
	}

	if q < minQ {
		return minQ
	}

	return q
}

// gainAmp converts dB to the RBJ amplitude term sqrt(10^(dB/20)).
func gainAmp(gainDB float64) float64 {
	if math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		gainDB = 0
	}

	return math.Pow(10, gainDB/40)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Identity()
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
