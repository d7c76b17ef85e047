package effects

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/effect"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	chorusBaseDelayMs = 7.0
	chorusMaxDepthMs  = 10.0
	chorusMaxDelayMs  = chorusBaseDelayMs + chorusMaxDepthMs
)

// Chorus thickens the input by mixing in a copy read from a delay line
// whose read position is swept by a low-frequency oscillator. The two
// stereo channels use LFOs a quarter cycle apart so the modulation does
// not collapse to the centre.
type Chorus struct {
	rate  *param.Parameter
	depth *param.Parameter
	mix   *param.Parameter

	params *param.Set

	lines [2]*delay.Line
	lfos  [2]lfo

	sampleRate float64
	prepared   bool
}

// NewChorus creates a chorus with default rate 0.5 Hz, depth 3 ms and
// an equal wet/dry mix.
func NewChorus() (*Chorus, error) {
	rate, err := param.New("rate", 0.05, 5.0, 0.5, param.WithUnit("Hz"))
	if err != nil {
		return nil, err
	}
	depth, err := param.New("depth", 0.0, chorusMaxDepthMs, 3.0, param.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	mix, err := param.New("mix", 0.0, 1.0, 0.5)
	if err != nil {
		return nil, err
	}
	c := &Chorus{
		rate:   rate,
		depth:  depth,
		mix:    mix,
		params: param.NewSet(rate, depth, mix),
	}
	return c, nil
}

// Params exposes the automatable parameters.
func (c *Chorus) Params() *param.Set { return c.params }

// Prepare allocates the modulation delay lines for the given sample rate.
func (c *Chorus) Prepare(ctx effect.Context, maxBlockSize int) error {
	if err := effect.ValidatePrepare(ctx, maxBlockSize); err != nil {
		return err
	}
	ctx = ctx.Normalized()
	c.sampleRate = ctx.SampleRate
	if err := c.params.SetSampleRate(ctx.SampleRate); err != nil {
		return err
	}
	for i := range c.lines {
		line, err := delay.NewForDuration(chorusMaxDelayMs, ctx.SampleRate)
		if err != nil {
			return err
		}
		c.lines[i] = line
		c.lfos[i].configure(c.rate.Target(), ctx.SampleRate)
		c.lfos[i].reset()
	}
	// Quadrature offset between channels.
	c.lfos[1].setPhase(0.25)
	c.params.SnapAll()
	c.prepared = true
	return nil
}

// Process runs the left channel only.
func (c *Chorus) Process(block []float64) {
	if !c.prepared || len(block) == 0 {
		return
	}
	c.processChannel(block, 0)
}

// ProcessStereo runs both channels with quadrature modulation.
func (c *Chorus) ProcessStereo(left, right []float64) {
	if !c.prepared {
		return
	}
	if len(left) > 0 {
		c.processChannel(left, 0)
	}
	if len(right) > 0 {
		c.processChannel(right, 1)
	}
}

func (c *Chorus) processChannel(block []float64, ch int) {
	n := len(block)
	rate := c.rate.NextBlock(n)
	depthMs := c.depth.NextBlock(n)
	mix := c.mix.NextBlock(n)
	dry := 1.0 - mix

	line := c.lines[ch]
	osc := &c.lfos[ch]
	osc.rateHz = rate

	depthSamples := delay.MsToSamples(depthMs, c.sampleRate)
	baseSamples := delay.MsToSamples(chorusBaseDelayMs, c.sampleRate)
	maxOffset := float64(line.Len() - 4)

	for i := 0; i < n; i++ {
		offset := baseSamples + depthSamples*osc.next()
		offset = core.Clamp(offset, 1, maxOffset)

		in := block[i]
		line.Write(in)
		wet := line.ReadCubic(offset)
		block[i] = in*dry + wet*mix
	}
}

// Reset clears the delay lines and restarts the oscillators.
func (c *Chorus) Reset() {
	for i := range c.lines {
		if c.lines[i] != nil {
			c.lines[i].Clear()
		}
		c.lfos[i].reset()
	}
	c.lfos[1].setPhase(0.25)
	c.params.SnapAll()
}

// Release drops the delay buffers.
func (c *Chorus) Release() {
	for i := range c.lines {
		c.lines[i] = nil
	}
	c.prepared = false
}

// Latency reports zero; the modulated delay is an effect, not latency.
func (c *Chorus) Latency() int { return 0 }
