package biquad

import (
	"math"
	"math/cmplx"
)

// Cascade chains several sections in series. Used by multiband EQs and
// higher-order filters built from second-order pieces.
type Cascade struct {
	sections []*Section
}

// NewCascade builds a cascade from the given per-section coefficients.
func NewCascade(coeffs ...Coefficients) *Cascade {
	sections := make([]*Section, len(coeffs))
	for i, c := range coeffs {
		sections[i] = NewSection(c)
	}

	return &Cascade{sections: sections}
}

// Len returns the number of sections.
func (c *Cascade) Len() int {
	return len(c.sections)
}

// Section returns the i-th section for reconfiguration.
func (c *Cascade) Section(i int) *Section {
	return c.sections[i]
}

// ProcessSample runs one sample through every section in series.
func (c *Cascade) ProcessSample(x float64) float64 {
	for _, s := range c.sections {
		x = s.ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in-place through every section in series.
func (c *Cascade) ProcessBlock(buf []float64) {
	for _, s := range c.sections {
		s.ProcessBlock(buf)
	}
}

// Reset clears the state of every section.
func (c *Cascade) Reset() {
	for _, s := range c.sections {
		s.Reset()
	}
}

// Response returns the cascaded complex frequency response, the product of
// the per-section responses.
func (c *Cascade) Response(freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for _, s := range c.sections {
		h *= s.Coefficients().Response(freqHz, sampleRate)
	}

	return h
}

// MagnitudeDB returns the cascaded magnitude response in dB.
func (c *Cascade) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}
