package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		value, lo, hi float64
		want          float64
	}{
		{"inside", 0.5, 0, 1, 0.5},
		{"below", -3, 0, 1, 0},
		{"above", 7, 0, 1, 1},
		{"at lower bound", 0, 0, 1, 0},
		{"at upper bound", 1, 0, 1, 1},
		{"swapped bounds", 0.25, 1, 0, 0.25},
		{"negative range", -5, -10, -1, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.lo, tt.hi)
			if got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) || !IsFinite(0) {
		t.Error("finite values reported non-finite")
	}

	if IsFinite(math.NaN()) || IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("non-finite values reported finite")
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-35); got != 0 {
		t.Errorf("tiny value not flushed: %v", got)
	}

	if got := FlushDenormals(-1e-35); got != 0 {
		t.Errorf("tiny negative value not flushed: %v", got)
	}

	if got := FlushDenormals(1e-20); got != 1e-20 {
		t.Errorf("normal value modified: %v", got)
	}
}

func TestDBConversionsRoundTrip(t *testing.T) {
	for _, db := range []float64{-60, -12, -6, 0, 6, 12} {
		lin := DBToLinear(db)

		back := LinearToDB(lin)
		if !NearlyEqual(back, db, 1e-9) {
			t.Errorf("round trip %v dB -> %v -> %v", db, lin, back)
		}
	}

	if got := DBToLinear(0); got != 1 {
		t.Errorf("0 dB should be unity gain, got %v", got)
	}

	if got := LinearToDB(0); !math.IsInf(got, -1) {
		t.Errorf("LinearToDB(0) = %v, want -Inf", got)
	}

	if got := LinearToDB(-1); !math.IsNaN(got) {
		t.Errorf("LinearToDB(-1) = %v, want NaN", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1, 1+1e-13, 1e-12) {
		t.Error("values within eps reported unequal")
	}

	if NearlyEqual(1, 1.1, 1e-12) {
		t.Error("distant values reported equal")
	}

	// Relative comparison for large magnitudes.
	if !NearlyEqual(1e12, 1e12+0.1, 1e-9) {
		t.Error("relatively close large values reported unequal")
	}
}
