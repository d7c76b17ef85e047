package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/effect"
	"github.com/cwbudde/algo-fx/dsp/param"
)

// dbPerLog2 converts a base-2 logarithm of an amplitude into decibels.
const dbPerLog2 = 6.020599913279624

const compressorMaxLookaheadMs = 20.0

// CompressorOption configures a Compressor at construction time.
type CompressorOption func(*Compressor) error

// WithLookahead delays the audio path by the given number of
// milliseconds so the gain computer reacts before transients arrive.
// The delay is reported through Latency and is fixed for the life of
// the effect, so hosts can compensate once.
func WithLookahead(ms float64) CompressorOption {
	return func(c *Compressor) error {
		if ms < 0 || ms > compressorMaxLookaheadMs || math.IsNaN(ms) {
			return fmt.Errorf("compressor: lookahead %g ms out of range [0, %g]", ms, compressorMaxLookaheadMs)
		}
		c.lookaheadMs = ms
		return nil
	}
}

// Compressor is a feed-forward dynamics compressor with a soft knee
// and a linked stereo detector. The gain computer works on base-2
// logarithms of the envelope so the fastmath build can swap in
// approximate kernels.
type Compressor struct {
	threshold *param.Parameter
	ratio     *param.Parameter
	attack    *param.Parameter
	release   *param.Parameter
	knee      *param.Parameter
	makeup    *param.Parameter

	params *param.Set

	envelope     float64
	attackCoeff  float64
	releaseCoeff float64

	lookaheadMs      float64
	lookaheadSamples int
	lookaheadLines   [2]*delay.Line

	sampleRate float64
	prepared   bool
}

// NewCompressor creates a compressor with a gentle 4:1 default curve.
func NewCompressor(opts ...CompressorOption) (*Compressor, error) {
	threshold, err := param.New("threshold", -60.0, 0.0, -18.0, param.WithUnit("dB"))
	if err != nil {
		return nil, err
	}
	ratio, err := param.New("ratio", 1.0, 20.0, 4.0)
	if err != nil {
		return nil, err
	}
	attack, err := param.New("attack", 0.1, 200.0, 10.0, param.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	release, err := param.New("release", 5.0, 2000.0, 100.0, param.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	knee, err := param.New("knee", 0.0, 24.0, 6.0, param.WithUnit("dB"))
	if err != nil {
		return nil, err
	}
	makeup, err := param.New("makeup", 0.0, 24.0, 0.0, param.WithUnit("dB"))
	if err != nil {
		return nil, err
	}
	c := &Compressor{
		threshold: threshold,
		ratio:     ratio,
		attack:    attack,
		release:   release,
		knee:      knee,
		makeup:    makeup,
		params:    param.NewSet(threshold, ratio, attack, release, knee, makeup),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Params exposes the automatable parameters.
func (c *Compressor) Params() *param.Set { return c.params }

// Prepare sizes the lookahead buffers and derives the ballistics for
// the given sample rate.
func (c *Compressor) Prepare(ctx effect.Context, maxBlockSize int) error {
	if err := effect.ValidatePrepare(ctx, maxBlockSize); err != nil {
		return err
	}
	ctx = ctx.Normalized()
	c.sampleRate = ctx.SampleRate
	if err := c.params.SetSampleRate(ctx.SampleRate); err != nil {
		return err
	}
	c.lookaheadSamples = int(math.Round(delay.MsToSamples(c.lookaheadMs, ctx.SampleRate)))
	if c.lookaheadSamples > 0 {
		for i := range c.lookaheadLines {
			line, err := delay.New(c.lookaheadSamples + 1)
			if err != nil {
				return err
			}
			c.lookaheadLines[i] = line
		}
	} else {
		for i := range c.lookaheadLines {
			c.lookaheadLines[i] = nil
		}
	}
	c.params.SnapAll()
	c.updateBallistics()
	c.envelope = 0
	c.prepared = true
	return nil
}

func (c *Compressor) updateBallistics() {
	c.attackCoeff = onePoleCoeff(c.attack.Current(), c.sampleRate)
	c.releaseCoeff = onePoleCoeff(c.release.Current(), c.sampleRate)
}

func onePoleCoeff(ms, sampleRate float64) float64 {
	if ms <= 0 || sampleRate <= 0 {
		return 0
	}
	return math.Exp(-1.0 / (ms * sampleRate / 1000.0))
}

// Process runs the compressor over a mono block.
func (c *Compressor) Process(block []float64) {
	if !c.prepared || len(block) == 0 {
		return
	}
	c.run(block, nil)
}

// ProcessStereo runs both channels against a linked detector so the
// stereo image does not shift under gain reduction.
func (c *Compressor) ProcessStereo(left, right []float64) {
	if !c.prepared {
		return
	}
	if len(right) == 0 {
		c.Process(left)
		return
	}
	c.run(left, right)
}

func (c *Compressor) run(left, right []float64) {
	n := len(left)
	if right != nil && len(right) < n {
		n = len(right)
	}

	threshold := c.threshold.NextBlock(n)
	ratio := c.ratio.NextBlock(n)
	knee := c.knee.NextBlock(n)
	makeupLin := core.DBToLinear(c.makeup.NextBlock(n))
	c.attack.NextBlock(n)
	c.release.NextBlock(n)
	c.updateBallistics()

	slope := 1.0 - 1.0/ratio

	for i := 0; i < n; i++ {
		detect := math.Abs(left[i])
		if right != nil {
			if r := math.Abs(right[i]); r > detect {
				detect = r
			}
		}

		coeff := c.releaseCoeff
		if detect > c.envelope {
			coeff = c.attackCoeff
		}
		c.envelope = core.FlushDenormals(detect + coeff*(c.envelope-detect))

		gain := makeupLin * c.gainFor(c.envelope, threshold, knee, slope)

		if c.lookaheadSamples > 0 {
			c.lookaheadLines[0].Write(left[i])
			left[i] = c.lookaheadLines[0].Read(c.lookaheadSamples) * gain
			if right != nil {
				c.lookaheadLines[1].Write(right[i])
				right[i] = c.lookaheadLines[1].Read(c.lookaheadSamples) * gain
			}
		} else {
			left[i] *= gain
			if right != nil {
				right[i] *= gain
			}
		}
	}
}

// gainFor computes the linear gain for an envelope level using a soft
// knee around the threshold.
func (c *Compressor) gainFor(envelope, threshold, knee, slope float64) float64 {
	if envelope <= 0 || slope <= 0 {
		return 1.0
	}
	levelDB := dbPerLog2 * mathLog2(envelope)
	over := levelDB - threshold

	var reductionDB float64
	switch {
	case knee > 0 && over > -knee/2 && over < knee/2:
		t := over + knee/2
		reductionDB = slope * t * t / (2 * knee)
	case over >= knee/2 || (knee <= 0 && over > 0):
		reductionDB = slope * over
	default:
		return 1.0
	}
	return mathPower2(-reductionDB / dbPerLog2)
}

// Reset clears the envelope and the lookahead buffers. The lookahead
// amount itself is construction state and survives.
func (c *Compressor) Reset() {
	c.envelope = 0
	for i := range c.lookaheadLines {
		if c.lookaheadLines[i] != nil {
			c.lookaheadLines[i].Clear()
		}
	}
	c.params.SnapAll()
	c.updateBallistics()
}

// Release drops the lookahead buffers.
func (c *Compressor) Release() {
	for i := range c.lookaheadLines {
		c.lookaheadLines[i] = nil
	}
	c.prepared = false
}

// Latency reports the lookahead delay in samples.
func (c *Compressor) Latency() int { return c.lookaheadSamples }
