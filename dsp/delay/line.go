// Package delay implements a circular delay line with fractional-offset
// reads and musical-time conversions.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
)

// Line is a fixed-capacity circular delay buffer. The write cursor always
// points at the next slot to be overwritten; reads are expressed as an
// offset behind the cursor.
//
// Offsets beyond the capacity wrap modulo the buffer length. That keeps a
// mis-sized read bounded instead of panicking, but correctness still
// requires callers to size the line for their maximum delay.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line holding size samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: size must be > 0: %d", size)
	}

	return &Line{buffer: make([]float64, size)}, nil
}

// NewForDuration returns a delay line sized for maxMs milliseconds at the
// given sample rate, with headroom for cubic interpolation neighbors.
func NewForDuration(maxMs, sampleRate float64) (*Line, error) {
	if maxMs <= 0 || math.IsNaN(maxMs) || math.IsInf(maxMs, 0) {
		return nil, fmt.Errorf("delay: max duration must be > 0: %f", maxMs)
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("delay: sample rate must be > 0: %f", sampleRate)
	}

	// +3 covers the extra neighbors ReadCubic touches at the maximum offset.
	size := int(math.Ceil(MsToSamples(maxMs, sampleRate))) + 3

	return New(size)
}

// Len returns the buffer capacity in samples.
func (l *Line) Len() int {
	return len(l.buffer)
}

// Write stores one sample at the cursor and advances it.
func (l *Line) Write(sample float64) {
	l.buffer[l.writePos] = sample

	l.writePos++
	if l.writePos >= len(l.buffer) {
		l.writePos = 0
	}
}

// Read returns the sample written delaySamples steps ago. Read(0) returns
// the most recently written sample. Negative or oversized offsets wrap.
func (l *Line) Read(delaySamples int) float64 {
	size := len(l.buffer)

	pos := (l.writePos - 1 - delaySamples) % size
	if pos < 0 {
		pos += size
	}

	return l.buffer[pos]
}

// ReadLinear returns the value at a fractional offset behind the cursor
// using linear interpolation between the two bracketing samples.
func (l *Line) ReadLinear(delaySamples float64) float64 {
	if delaySamples < 0 {
		delaySamples = 0
	}

	whole := int(math.Floor(delaySamples))
	frac := delaySamples - float64(whole)

	x0 := l.Read(whole)
	x1 := l.Read(whole + 1)

	return x0 + frac*(x1-x0)
}

// ReadCubic returns the value at a fractional offset using 4-point cubic
// (Catmull-Rom) interpolation. Preferred over ReadLinear when the delay
// time is modulated continuously, as it aliases less.
func (l *Line) ReadCubic(delaySamples float64) float64 {
	if delaySamples < 0 {
		delaySamples = 0
	}

	whole := int(math.Floor(delaySamples))
	frac := delaySamples - float64(whole)

	xm1 := l.Read(whole - 1)
	x0 := l.Read(whole)
	x1 := l.Read(whole + 1)
	x2 := l.Read(whole + 2)

	return hermite4(frac, xm1, x0, x1, x2)
}

// Clear zeroes the buffer and rewinds the cursor without reallocating.
func (l *Line) Clear() {
	core.Zero(l.buffer)
	l.writePos = 0
}

// hermite4 interpolates from x0 to x1 at position t in [0, 1] using the
// neighbor points xm1 and x2.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}

// MsToSamples converts a duration in milliseconds to samples.
func MsToSamples(ms, sampleRate float64) float64 {
	return ms * sampleRate / 1000
}

// BPMToSamples converts a musical duration to samples. division selects the
// note value relative to a whole note (4 = quarter, 8 = eighth, ...);
// dotted lengthens by half, triplet shortens to two thirds.
func BPMToSamples(bpm float64, division int, dotted, triplet bool, sampleRate float64) float64 {
	if bpm <= 0 || division <= 0 || sampleRate <= 0 {
		return 0
	}

	quarter := 60 / bpm * sampleRate
	samples := quarter * 4 / float64(division)

	if dotted {
		samples *= 1.5
	}

	if triplet {
		samples *= 2.0 / 3.0
	}

	return samples
}
