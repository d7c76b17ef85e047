package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/effect"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/design"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	phaserMinFreqHz = 200.0
	phaserMaxFreqHz = 4200.0
	phaserMaxStages = 12
)

var phaserStageCounts = [...]int{2, 4, 6, 8, 12}

// Phaser sweeps a cascade of allpass sections between 200 Hz and
// 4.2 kHz and mixes the result with the dry input, producing moving
// notches. The sweep position advances at block rate; the cascade is
// redesigned once per block, which is inaudible at usual block sizes.
type Phaser struct {
	rate     *param.Parameter
	depth    *param.Parameter
	feedback *param.Parameter
	mix      *param.Parameter
	stages   *param.Parameter

	params *param.Set

	sections [2][phaserMaxStages]biquad.Section
	lfos     [2]lfo
	fbState  [2]float64

	sampleRate float64
	prepared   bool
}

// NewPhaser creates a four-stage phaser with default rate 0.3 Hz.
func NewPhaser() (*Phaser, error) {
	rate, err := param.New("rate", 0.02, 5.0, 0.3, param.WithUnit("Hz"))
	if err != nil {
		return nil, err
	}
	depth, err := param.New("depth", 0.0, 1.0, 1.0)
	if err != nil {
		return nil, err
	}
	feedback, err := param.New("feedback", 0.0, 0.95, 0.2)
	if err != nil {
		return nil, err
	}
	mix, err := param.New("mix", 0.0, 1.0, 0.5)
	if err != nil {
		return nil, err
	}
	stages, err := param.NewChoice("stages", len(phaserStageCounts), 1)
	if err != nil {
		return nil, err
	}
	p := &Phaser{
		rate:     rate,
		depth:    depth,
		feedback: feedback,
		mix:      mix,
		stages:   stages,
		params:   param.NewSet(rate, depth, feedback, mix, stages),
	}
	return p, nil
}

// Params exposes the automatable parameters.
func (p *Phaser) Params() *param.Set { return p.params }

// Prepare configures the sweep oscillators for the given sample rate.
func (p *Phaser) Prepare(ctx effect.Context, maxBlockSize int) error {
	if err := effect.ValidatePrepare(ctx, maxBlockSize); err != nil {
		return err
	}
	ctx = ctx.Normalized()
	if ctx.SampleRate <= 2*phaserMaxFreqHz {
		return fmt.Errorf("phaser: sample rate %g too low for %g Hz sweep ceiling", ctx.SampleRate, phaserMaxFreqHz)
	}
	p.sampleRate = ctx.SampleRate
	if err := p.params.SetSampleRate(ctx.SampleRate); err != nil {
		return err
	}
	for ch := range p.lfos {
		p.lfos[ch].configure(p.rate.Target(), ctx.SampleRate)
		p.lfos[ch].reset()
		for s := range p.sections[ch] {
			p.sections[ch][s].Reset()
		}
		p.fbState[ch] = 0
	}
	p.lfos[1].setPhase(0.25)
	p.params.SnapAll()
	p.prepared = true
	return nil
}

// Process runs the left channel only.
func (p *Phaser) Process(block []float64) {
	if !p.prepared || len(block) == 0 {
		return
	}
	p.processChannel(block, 0)
}

// ProcessStereo runs both channels with quadrature sweep offsets.
func (p *Phaser) ProcessStereo(left, right []float64) {
	if !p.prepared {
		return
	}
	if len(left) > 0 {
		p.processChannel(left, 0)
	}
	if len(right) > 0 {
		p.processChannel(right, 1)
	}
}

func (p *Phaser) processChannel(block []float64, ch int) {
	n := len(block)
	rate := p.rate.NextBlock(n)
	depth := p.depth.NextBlock(n)
	fb := p.feedback.NextBlock(n)
	mix := p.mix.NextBlock(n)
	dry := 1.0 - mix

	stageIdx := p.stages.Choice()
	if stageIdx < 0 {
		stageIdx = 0
	}
	if stageIdx >= len(phaserStageCounts) {
		stageIdx = len(phaserStageCounts) - 1
	}
	stages := phaserStageCounts[stageIdx]

	osc := &p.lfos[ch]
	osc.rateHz = rate

	// Exponential sweep keeps equal movement per octave. The LFO value
	// is sampled once per block; the section state carries across the
	// coefficient update so the sweep stays click free.
	sweep := osc.value() * depth
	osc.advance(n)
	freq := phaserMinFreqHz * math.Pow(phaserMaxFreqHz/phaserMinFreqHz, sweep)

	coeffs := design.Allpass(freq, design.DefaultQ, p.sampleRate)
	for s := 0; s < stages; s++ {
		p.sections[ch][s].SetCoefficients(coeffs)
	}

	for i := 0; i < n; i++ {
		in := block[i]
		x := in + core.FlushDenormals(p.fbState[ch]*fb)
		for s := 0; s < stages; s++ {
			x = p.sections[ch][s].ProcessSample(x)
		}
		p.fbState[ch] = x
		block[i] = in*dry + x*mix
	}
}

// Reset clears the allpass state and restarts the sweep.
func (p *Phaser) Reset() {
	for ch := range p.sections {
		for s := range p.sections[ch] {
			p.sections[ch][s].Reset()
		}
		p.lfos[ch].reset()
		p.fbState[ch] = 0
	}
	p.lfos[1].setPhase(0.25)
	p.params.SnapAll()
}

// Release marks the phaser unprepared.
func (p *Phaser) Release() { p.prepared = false }

// Latency reports zero.
func (p *Phaser) Latency() int { return 0 }
