package delay

import (
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("zero size accepted")
	}

	if _, err := New(-4); err == nil {
		t.Error("negative size accepted")
	}

	l, err := New(16)
	if err != nil {
		t.Fatalf("New(16): %v", err)
	}

	if l.Len() != 16 {
		t.Errorf("Len = %d, want 16", l.Len())
	}
}

func TestNewForDuration(t *testing.T) {
	l, err := NewForDuration(1000, 48000)
	if err != nil {
		t.Fatalf("NewForDuration: %v", err)
	}

	if l.Len() < 48000 {
		t.Errorf("capacity %d below one second at 48 kHz", l.Len())
	}

	if _, err := NewForDuration(0, 48000); err == nil {
		t.Error("zero duration accepted")
	}

	if _, err := NewForDuration(100, math.NaN()); err == nil {
		t.Error("NaN sample rate accepted")
	}
}

func TestZeroDelayIdentity(t *testing.T) {
	l, _ := New(8)

	for _, v := range []float64{1, -0.5, 0.25, 3} {
		l.Write(v)

		if got := l.Read(0); got != v {
			t.Errorf("Read(0) after Write(%v) = %v", v, got)
		}
	}
}

func TestIntegerRecall(t *testing.T) {
	const size = 32

	l, _ := New(size)

	// Fill with a recognizable ramp, then verify exact recall for every
	// reachable integer offset.
	for i := 0; i < size; i++ {
		l.Write(float64(i))
	}

	for d := 0; d < size; d++ {
		want := float64(size - 1 - d)
		if got := l.Read(d); got != want {
			t.Errorf("Read(%d) = %v, want %v", d, got, want)
		}
	}
}

func TestOversizedReadWraps(t *testing.T) {
	const size = 8

	l, _ := New(size)
	for i := 0; i < size; i++ {
		l.Write(float64(i))
	}

	for d := 0; d < size; d++ {
		if got, want := l.Read(d+size), l.Read(d); got != want {
			t.Errorf("Read(%d) = %v, want wrap to %v", d+size, got, want)
		}
	}
}

func TestReadLinearAtIntegerOffsets(t *testing.T) {
	l, _ := New(16)
	for i := 0; i < 16; i++ {
		l.Write(float64(i * i))
	}

	for d := 0; d < 12; d++ {
		if got, want := l.ReadLinear(float64(d)), l.Read(d); got != want {
			t.Errorf("ReadLinear(%d) = %v, want %v", d, got, want)
		}
	}
}

func TestReadLinearMidpoint(t *testing.T) {
	l, _ := New(8)
	l.Write(2)
	l.Write(4)

	// Halfway between the last two writes.
	if got := l.ReadLinear(0.5); got != 3 {
		t.Errorf("ReadLinear(0.5) = %v, want 3", got)
	}
}

func TestReadCubicAtIntegerOffsets(t *testing.T) {
	l, _ := New(16)
	for i := 0; i < 16; i++ {
		l.Write(math.Sin(float64(i) * 0.7))
	}

	// Cubic interpolation is exact at integer offsets.
	for d := 2; d < 12; d++ {
		got := l.ReadCubic(float64(d))

		want := l.Read(d)
		if math.Abs(got-want) > 1e-15 {
			t.Errorf("ReadCubic(%d) = %v, want %v", d, got, want)
		}
	}
}

func TestReadCubicReconstructsLinearRamp(t *testing.T) {
	// Catmull-Rom reproduces low-degree polynomials exactly, so a linear
	// ramp must come back without interpolation error.
	l, _ := New(32)
	for i := 0; i < 32; i++ {
		l.Write(float64(i))
	}

	for _, d := range []float64{2.25, 3.5, 7.75, 10.125} {
		got := l.ReadCubic(d)

		want := 31 - d
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("ReadCubic(%v) = %v, want %v", d, got, want)
		}
	}
}

func TestNegativeOffsetClampsToZero(t *testing.T) {
	l, _ := New(8)
	l.Write(1)
	l.Write(2)

	if got := l.ReadLinear(-3); got != 2 {
		t.Errorf("ReadLinear(-3) = %v, want newest sample", got)
	}

	if got := l.ReadCubic(-3); math.Abs(got-2) > 1e-15 {
		t.Errorf("ReadCubic(-3) = %v, want newest sample", got)
	}
}

func TestClear(t *testing.T) {
	l, _ := New(8)
	for i := 0; i < 20; i++ {
		l.Write(1)
	}

	l.Clear()

	for d := 0; d < 8; d++ {
		if got := l.Read(d); got != 0 {
			t.Errorf("Read(%d) after Clear = %v", d, got)
		}
	}

	// Cursor rewinds, so recall behaves like a fresh line.
	l.Write(5)

	if got := l.Read(0); got != 5 {
		t.Errorf("Read(0) after Clear+Write = %v", got)
	}
}

func TestMsToSamples(t *testing.T) {
	if got := MsToSamples(1000, 48000); got != 48000 {
		t.Errorf("MsToSamples(1000, 48000) = %v", got)
	}

	if got := MsToSamples(10, 44100); got != 441 {
		t.Errorf("MsToSamples(10, 44100) = %v", got)
	}
}

func TestBPMToSamples(t *testing.T) {
	const sr = 48000.0

	tests := []struct {
		name     string
		bpm      float64
		division int
		dotted   bool
		triplet  bool
		want     float64
	}{
		{"quarter at 120", 120, 4, false, false, sr / 2},
		{"eighth at 120", 120, 8, false, false, sr / 4},
		{"whole at 60", 60, 1, false, false, 4 * sr},
		{"dotted quarter at 120", 120, 4, true, false, sr / 2 * 1.5},
		{"triplet quarter at 120", 120, 4, false, true, sr / 2 * 2 / 3},
		{"invalid bpm", 0, 4, false, false, 0},
		{"invalid division", 120, 0, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BPMToSamples(tt.bpm, tt.division, tt.dotted, tt.triplet, sr)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BPMToSamples = %v, want %v", got, tt.want)
			}
		})
	}
}
