package effects

import (
	"github.com/cwbudde/algo-fx/dsp/effect"
	"github.com/cwbudde/algo-fx/dsp/param"
)

var tremoloShapes = [...]lfoShape{lfoSine, lfoTriangle, lfoSquare}

// Tremolo modulates the signal amplitude with a low-frequency
// oscillator. Depth 0 passes the input unchanged; depth 1 swings the
// gain over the full [0, 1] range. Both stereo channels share one
// oscillator so the image does not wander.
type Tremolo struct {
	rate  *param.Parameter
	depth *param.Parameter
	shape *param.Parameter

	params *param.Set

	osc      lfo
	prepared bool
}

// NewTremolo creates a tremolo with default rate 4 Hz and half depth.
func NewTremolo() (*Tremolo, error) {
	rate, err := param.New("rate", 0.1, 20.0, 4.0, param.WithUnit("Hz"))
	if err != nil {
		return nil, err
	}
	depth, err := param.New("depth", 0.0, 1.0, 0.5)
	if err != nil {
		return nil, err
	}
	shape, err := param.NewChoice("shape", len(tremoloShapes), 0)
	if err != nil {
		return nil, err
	}
	t := &Tremolo{
		rate:   rate,
		depth:  depth,
		shape:  shape,
		params: param.NewSet(rate, depth, shape),
	}
	return t, nil
}

// Params exposes the automatable parameters.
func (t *Tremolo) Params() *param.Set { return t.params }

// Prepare configures the oscillator for the given sample rate.
func (t *Tremolo) Prepare(ctx effect.Context, maxBlockSize int) error {
	if err := effect.ValidatePrepare(ctx, maxBlockSize); err != nil {
		return err
	}
	ctx = ctx.Normalized()
	if err := t.params.SetSampleRate(ctx.SampleRate); err != nil {
		return err
	}
	t.osc.configure(t.rate.Target(), ctx.SampleRate)
	t.osc.reset()
	t.params.SnapAll()
	t.prepared = true
	return nil
}

// Process applies the tremolo to a mono block.
func (t *Tremolo) Process(block []float64) {
	if !t.prepared || len(block) == 0 {
		return
	}
	depth := t.beginBlock(len(block))
	for i := range block {
		block[i] *= 1.0 - depth*(1.0-t.osc.next())
	}
}

// ProcessStereo applies the same gain curve to both channels.
func (t *Tremolo) ProcessStereo(left, right []float64) {
	if !t.prepared {
		return
	}
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	if n == 0 {
		return
	}
	depth := t.beginBlock(n)
	for i := 0; i < n; i++ {
		gain := 1.0 - depth*(1.0-t.osc.next())
		left[i] *= gain
		right[i] *= gain
	}
}

// beginBlock advances the block-rate parameters and retargets the
// oscillator, returning the depth for the coming block.
func (t *Tremolo) beginBlock(n int) float64 {
	t.osc.rateHz = t.rate.NextBlock(n)
	t.osc.shape = t.shapeFromTarget()
	return t.depth.NextBlock(n)
}

func (t *Tremolo) shapeFromTarget() lfoShape {
	idx := t.shape.Choice()
	if idx < 0 || idx >= len(tremoloShapes) {
		idx = 0
	}
	return tremoloShapes[idx]
}

// Reset restarts the oscillator.
func (t *Tremolo) Reset() {
	t.osc.reset()
	t.params.SnapAll()
}

// Release marks the tremolo unprepared.
func (t *Tremolo) Release() { t.prepared = false }

// Latency reports zero.
func (t *Tremolo) Latency() int { return 0 }
