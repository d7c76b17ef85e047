package effects

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/effect"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	minGainDB     = -60.0
	maxGainDB     = 12.0
	defaultGainDB = 0.0
)

// Gain applies a smoothed wide-range gain. The simplest effect in the
// library, and the reference implementation of the lifecycle contract.
type Gain struct {
	gainDB *param.Parameter
	params *param.Set

	linear   float64
	prepared bool
	released bool
}

// NewGain creates an unprepared gain effect at unity.
func NewGain() (*Gain, error) {
	gainDB, err := param.New("gain", minGainDB, maxGainDB, defaultGainDB,
		param.WithUnit("dB"), param.WithHelp("Output gain"))
	if err != nil {
		return nil, err
	}

	return &Gain{
		gainDB: gainDB,
		params: param.NewSet(gainDB),
		linear: 1,
	}, nil
}

// Params returns the parameter set for control surfaces.
func (g *Gain) Params() *param.Set { return g.params }

// GainDB returns the gain parameter.
func (g *Gain) GainDB() *param.Parameter { return g.gainDB }

// Prepare binds the sample rate. Gain has no buffers to size.
func (g *Gain) Prepare(ctx effect.Context, maxBlockSize int) error {
	err := effect.ValidatePrepare(ctx, maxBlockSize)
	if err != nil {
		return err
	}

	err = g.params.SetSampleRate(ctx.SampleRate)
	if err != nil {
		return err
	}

	g.params.SnapAll()
	g.linear = core.DBToLinear(g.gainDB.Current())
	g.prepared = true

	return nil
}

// Process applies the gain in place, ramping linearly across the block
// toward the block-rate smoothed target so level changes stay click-free.
func (g *Gain) Process(block []float64) {
	if len(block) == 0 {
		return
	}

	next := core.DBToLinear(g.gainDB.NextBlock(len(block)))

	step := (next - g.linear) / float64(len(block))
	gain := g.linear

	for i := range block {
		gain += step
		block[i] *= gain
	}

	g.linear = next
}

// ProcessStereo applies the same gain trajectory to both channels.
func (g *Gain) ProcessStereo(left, right []float64) {
	if len(left) == 0 {
		return
	}

	next := core.DBToLinear(g.gainDB.NextBlock(len(left)))

	step := (next - g.linear) / float64(len(left))
	gain := g.linear

	for i := range left {
		gain += step
		left[i] *= gain
		right[i] *= gain
	}

	g.linear = next
}

// Reset snaps the ramp to the current target. There is no audio state.
func (g *Gain) Reset() {
	g.params.SnapAll()
	g.linear = core.DBToLinear(g.gainDB.Current())
}

// Release marks the effect terminal. Gain holds no external resources.
func (g *Gain) Release() {
	g.released = true
}

// Latency is zero; gain is purely feed-forward.
func (g *Gain) Latency() int { return 0 }
