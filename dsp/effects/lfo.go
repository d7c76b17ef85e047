package effects

import "math"

// lfoShape selects the waveform of a low-frequency oscillator.
type lfoShape int

const (
	lfoSine lfoShape = iota
	lfoTriangle
	lfoSquare
)

// lfo is a phase-accumulating low-frequency oscillator. Output is unipolar
// in [0, 1], which is what modulation depths multiply against.
type lfo struct {
	sampleRate float64
	rateHz     float64
	shape      lfoShape
	phase      float64
}

func (l *lfo) configure(rateHz, sampleRate float64) {
	l.rateHz = rateHz
	l.sampleRate = sampleRate
}

// next returns the current value and advances the phase one sample.
func (l *lfo) next() float64 {
	v := l.value()

	if l.sampleRate > 0 {
		l.phase += l.rateHz / l.sampleRate
		if l.phase >= 1 {
			l.phase -= 1
		}
	}

	return v
}

func (l *lfo) value() float64 {
	switch l.shape {
	case lfoTriangle:
		if l.phase < 0.5 {
			return 2 * l.phase
		}

		return 2 - 2*l.phase
	case lfoSquare:
		if l.phase < 0.5 {
			return 1
		}

		return 0
	default:
		return 0.5 + 0.5*math.Sin(2*math.Pi*l.phase)
	}
}

// advance steps the phase by n samples without producing output.
func (l *lfo) advance(n int) {
	if l.sampleRate <= 0 || n <= 0 {
		return
	}

	l.phase += float64(n) * l.rateHz / l.sampleRate
	l.phase -= math.Floor(l.phase)
}

// setPhase positions the oscillator, used for stereo channel offsets.
func (l *lfo) setPhase(phase float64) {
	l.phase = phase - math.Floor(phase)
}

func (l *lfo) reset() {
	l.phase = 0
}
