package biquad

import (
	"math"
	"testing"
)

func BenchmarkProcessSample(b *testing.B) {
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})

	var acc float64
	for i := 0; i < b.N; i++ {
		acc += s.ProcessSample(0.5)
	}

	_ = acc
}

func BenchmarkProcessBlock(b *testing.B) {
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})

	buf := make([]float64, 1024)
	for i := range buf {
		buf[i] = math.Sin(float64(i) * 0.01)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s.ProcessBlock(buf)
	}
}
