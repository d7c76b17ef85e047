package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/effect"
)

func TestEqualizerFlatIsPassthrough(t *testing.T) {
	e, err := NewEqualizer()
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Prepare(effect.Context{SampleRate: 48000}, 256); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	block := renderSine(256, 440, 48000)
	want := append([]float64(nil), block...)

	e.Process(block)

	for i := range block {
		if math.Abs(block[i]-want[i]) > 1e-9 {
			t.Fatalf("flat EQ altered sample %d: %g vs %g", i, block[i], want[i])
		}
	}
}

// A low shelf boost must lift DC by the full shelf gain once the
// filter settles.
func TestEqualizerLowShelfBoostAtDC(t *testing.T) {
	e, err := NewEqualizer()
	if err != nil {
		t.Fatal(err)
	}

	e.Params().Lookup("low_gain").SetTarget(12)

	if err := e.Prepare(effect.Context{SampleRate: 48000}, 512); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	want := math.Pow(10, 12.0/20)

	var last float64

	for b := 0; b < 16; b++ {
		block := make([]float64, 512)
		for i := range block {
			block[i] = 1
		}

		e.Process(block)
		last = block[len(block)-1]
	}

	if math.Abs(last-want) > 0.02*want {
		t.Fatalf("DC gain = %g, want %g", last, want)
	}
}

func TestEqualizerHighShelfCutAtHighFrequency(t *testing.T) {
	e, err := NewEqualizer()
	if err != nil {
		t.Fatal(err)
	}

	e.Params().Lookup("high_gain").SetTarget(-12)
	e.Params().Lookup("high_freq").SetTarget(4000)

	const sampleRate = 48000.0

	if err := e.Prepare(effect.Context{SampleRate: sampleRate}, 480); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	// 16 kHz sits two octaves above the shelf corner, deep in the cut.
	var outRMS float64

	for b := 0; b < 50; b++ {
		block := make([]float64, 480)
		for i := range block {
			n := b*480 + i
			block[i] = math.Sin(2 * math.Pi * 16000 * float64(n) / sampleRate)
		}

		e.Process(block)

		var sum float64
		for _, v := range block {
			sum += v * v
		}

		outRMS = math.Sqrt(sum / float64(len(block)))
	}

	inRMS := 1 / math.Sqrt2
	gotDB := 20 * math.Log10(outRMS/inRMS)

	if math.Abs(gotDB-(-12)) > 1 {
		t.Fatalf("high shelf cut = %.2f dB, want about -12", gotDB)
	}
}

func TestEqualizerMidBandBoost(t *testing.T) {
	e, err := NewEqualizer()
	if err != nil {
		t.Fatal(err)
	}

	e.Params().Lookup("mid_gain").SetTarget(6)
	e.Params().Lookup("mid_freq").SetTarget(1000)

	const sampleRate = 48000.0

	if err := e.Prepare(effect.Context{SampleRate: sampleRate}, 480); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	var outRMS float64

	for b := 0; b < 50; b++ {
		block := make([]float64, 480)
		for i := range block {
			n := b*480 + i
			block[i] = math.Sin(2 * math.Pi * 1000 * float64(n) / sampleRate)
		}

		e.Process(block)

		var sum float64
		for _, v := range block {
			sum += v * v
		}

		outRMS = math.Sqrt(sum / float64(len(block)))
	}

	inRMS := 1 / math.Sqrt2
	gotDB := 20 * math.Log10(outRMS/inRMS)

	if math.Abs(gotDB-6) > 0.5 {
		t.Fatalf("mid boost = %.2f dB, want about 6", gotDB)
	}
}

// Sweeping a band gain while audio runs must stay continuous; the
// filter state carries across the per-block redesigns.
func TestEqualizerGainSweepIsClickFree(t *testing.T) {
	e, err := NewEqualizer()
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Prepare(effect.Context{SampleRate: 48000}, 64); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	var prev float64

	for b := 0; b < 200; b++ {
		e.Params().Lookup("low_gain").SetTarget(float64(b%48) - 24)

		block := make([]float64, 64)
		for i := range block {
			n := b*64 + i
			block[i] = math.Sin(2 * math.Pi * 100 * float64(n) / 48000)
		}

		e.Process(block)

		for i, v := range block {
			if math.IsNaN(v) || math.Abs(v) > 20 {
				t.Fatalf("block %d sample %d unstable: %g", b, i, v)
			}

			if math.Abs(v-prev) > 1 {
				t.Fatalf("block %d sample %d jumped by %g", b, i, v-prev)
			}

			prev = v
		}
	}
}
