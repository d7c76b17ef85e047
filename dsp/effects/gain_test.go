package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/effect"
)

func TestGainUnityByDefault(t *testing.T) {
	g, err := NewGain()
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Prepare(effect.Context{SampleRate: 48000}, 256); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	block := renderSine(256, 1000, 48000)
	want := append([]float64(nil), block...)

	g.Process(block)

	for i := range block {
		if math.Abs(block[i]-want[i]) > 1e-12 {
			t.Fatalf("unity gain altered sample %d: %g vs %g", i, block[i], want[i])
		}
	}
}

func TestGainConvergesToTarget(t *testing.T) {
	g, err := NewGain()
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Prepare(effect.Context{SampleRate: 48000}, 512); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	const targetDB = -6.0
	g.GainDB().SetTarget(targetDB)

	wantLinear := math.Pow(10, targetDB/20)

	// 100 blocks of 512 samples is several seconds of 20 ms smoothing.
	var last float64

	for b := 0; b < 100; b++ {
		block := make([]float64, 512)
		for i := range block {
			block[i] = 1
		}

		g.Process(block)
		last = block[len(block)-1]
	}

	if math.Abs(last-wantLinear) > 1e-3 {
		t.Fatalf("converged gain = %g, want %g", last, wantLinear)
	}
}

func TestGainRampIsMonotone(t *testing.T) {
	g, err := NewGain()
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Prepare(effect.Context{SampleRate: 48000}, 512); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	g.GainDB().SetTarget(-12)

	prev := math.Inf(1)

	for b := 0; b < 20; b++ {
		block := make([]float64, 512)
		for i := range block {
			block[i] = 1
		}

		g.Process(block)

		for i, v := range block {
			if v > prev+1e-12 {
				t.Fatalf("block %d sample %d: gain rose during downward ramp (%g > %g)", b, i, v, prev)
			}

			prev = v
		}
	}
}

func TestGainStereoMatchesChannels(t *testing.T) {
	g, err := NewGain()
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Prepare(effect.Context{SampleRate: 48000}, 128); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	g.GainDB().SetTarget(-3)

	left := renderSine(128, 500, 48000)
	right := append([]float64(nil), left...)

	g.ProcessStereo(left, right)

	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("stereo channels diverged at %d: %g vs %g", i, left[i], right[i])
		}
	}
}
