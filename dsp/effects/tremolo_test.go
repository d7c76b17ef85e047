package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/effect"
)

func TestTremoloZeroDepthPassthrough(t *testing.T) {
	tr, err := NewTremolo()
	if err != nil {
		t.Fatal(err)
	}

	tr.Params().Lookup("depth").SetTarget(0)

	if err := tr.Prepare(effect.Context{SampleRate: 48000}, 256); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	block := renderSine(256, 440, 48000)
	want := append([]float64(nil), block...)

	tr.Process(block)

	for i := range block {
		if math.Abs(block[i]-want[i]) > 1e-12 {
			t.Fatalf("zero depth altered sample %d: %g vs %g", i, block[i], want[i])
		}
	}
}

// Full-depth square tremolo gates the signal hard on and off. At a
// quarter of the sample rate the pattern is two samples on, two off.
func TestTremoloSquareGating(t *testing.T) {
	tr, err := NewTremolo()
	if err != nil {
		t.Fatal(err)
	}

	tr.Params().Lookup("depth").SetTarget(1)
	tr.Params().Lookup("rate").SetTarget(4)
	tr.Params().Lookup("shape").SetTarget(2) // square

	if err := tr.Prepare(effect.Context{SampleRate: 16}, 8); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	block := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	tr.Process(block)

	want := []float64{1, 1, 0, 0, 1, 1, 0, 0}

	for i := range block {
		if block[i] != want[i] {
			t.Fatalf("sample %d = %g, want %g (got %v)", i, block[i], want[i], block)
		}
	}
}

func TestTremoloStereoSharesGainCurve(t *testing.T) {
	tr, err := NewTremolo()
	if err != nil {
		t.Fatal(err)
	}

	tr.Params().Lookup("depth").SetTarget(1)
	tr.Params().Lookup("rate").SetTarget(5)

	if err := tr.Prepare(effect.Context{SampleRate: 48000}, 256); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	left := make([]float64, 256)
	right := make([]float64, 256)

	for i := range left {
		left[i] = 1
		right[i] = -1
	}

	tr.ProcessStereo(left, right)

	for i := range left {
		if math.Abs(left[i]+right[i]) > 1e-12 {
			t.Fatalf("channels used different gains at %d: %g vs %g", i, left[i], right[i])
		}
	}
}

func TestTremoloDepthBoundsGain(t *testing.T) {
	tr, err := NewTremolo()
	if err != nil {
		t.Fatal(err)
	}

	tr.Params().Lookup("depth").SetTarget(0.5)
	tr.Params().Lookup("rate").SetTarget(10)

	if err := tr.Prepare(effect.Context{SampleRate: 48000}, 512); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	for b := 0; b < 20; b++ {
		block := make([]float64, 512)
		for i := range block {
			block[i] = 1
		}

		tr.Process(block)

		for i, v := range block {
			if v < 0.5-1e-12 || v > 1+1e-12 {
				t.Fatalf("block %d sample %d gain %g outside [0.5, 1]", b, i, v)
			}
		}
	}
}
