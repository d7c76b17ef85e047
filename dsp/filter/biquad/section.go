package biquad

import (
	"sync"

	"github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients holds the transfer function coefficients of one second-order
// section. a0 is normalized to 1 and not stored.
//
// Direct Form II Transposed evaluation:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Identity returns passthrough coefficients (unity gain, no filtering).
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// Section is a single biquad filter: coefficients plus two state values.
type Section struct {
	coeffs Coefficients
	d0, d1 float64
}

var (
	processBlockImpl     registry.ProcessBlockFn
	processBlockInitOnce sync.Once
)

// NewSection returns a Section with the given coefficients and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{coeffs: c}
}

// Coefficients returns the current transfer coefficients.
func (s *Section) Coefficients() Coefficients {
	return s.coeffs
}

// SetCoefficients swaps the transfer coefficients without touching state.
// Swept filters (phasers, envelope filters) call this every block or every
// sample; keeping the state preserves continuity of the output, at the cost
// of a one-sample transient on large coefficient jumps.
func (s *Section) SetCoefficients(c Coefficients) {
	s.coeffs = c
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.coeffs.B0*x + s.d0
	s.d0 = s.coeffs.B1*x - s.coeffs.A1*y + s.d1
	s.d1 = s.coeffs.B2*x - s.coeffs.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	processBlockInitOnce.Do(initProcessBlockKernel)

	coeffs := registry.Coefficients{
		B0: s.coeffs.B0,
		B1: s.coeffs.B1,
		B2: s.coeffs.B2,
		A1: s.coeffs.A1,
		A2: s.coeffs.A2,
	}

	s.d0, s.d1 = processBlockImpl(coeffs, s.d0, s.d1, buf)
}

// ProcessBlockTo filters src into dst. Both slices must have the same
// length. Zero-alloc.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	_ = dst[len(src)-1] // bounds check hint
	for i, x := range src {
		y := s.coeffs.B0*x + s.d0
		s.d0 = s.coeffs.B1*x - s.coeffs.A1*y + s.d1
		s.d1 = s.coeffs.B2*x - s.coeffs.A2*y
		dst[i] = y
	}
}

// Reset clears the filter state to zero. Coefficients are kept.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current state values [d0, d1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores a previously saved state.
func (s *Section) SetState(state [2]float64) {
	s.d0 = state[0]
	s.d1 = state[1]
}

func initProcessBlockKernel() {
	entry := registry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil || entry.ProcessBlock == nil {
		panic("biquad: no ProcessBlock kernel registered (missing generic fallback?)")
	}

	processBlockImpl = entry.ProcessBlock
}
