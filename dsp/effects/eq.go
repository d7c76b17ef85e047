package effects

import (
	"github.com/cwbudde/algo-fx/dsp/effect"
	"github.com/cwbudde/algo-fx/dsp/filter/biquad"
	"github.com/cwbudde/algo-fx/dsp/filter/design"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const eqBands = 3

// Equalizer is a three-band tone control built from a low shelf, a
// peaking mid band and a high shelf in series. Coefficients are
// redesigned at block rate; the filter state carries across updates so
// gain sweeps stay continuous.
type Equalizer struct {
	lowGain  *param.Parameter
	lowFreq  *param.Parameter
	midGain  *param.Parameter
	midFreq  *param.Parameter
	midQ     *param.Parameter
	highGain *param.Parameter
	highFreq *param.Parameter

	params *param.Set

	sections [2][eqBands]biquad.Section

	sampleRate float64
	prepared   bool
}

// NewEqualizer creates a flat three-band equalizer.
func NewEqualizer() (*Equalizer, error) {
	lowGain, err := param.New("low_gain", -24.0, 24.0, 0.0, param.WithUnit("dB"))
	if err != nil {
		return nil, err
	}
	lowFreq, err := param.New("low_freq", 20.0, 500.0, 100.0, param.WithUnit("Hz"))
	if err != nil {
		return nil, err
	}
	midGain, err := param.New("mid_gain", -24.0, 24.0, 0.0, param.WithUnit("dB"))
	if err != nil {
		return nil, err
	}
	midFreq, err := param.New("mid_freq", 200.0, 5000.0, 1000.0, param.WithUnit("Hz"))
	if err != nil {
		return nil, err
	}
	midQ, err := param.New("mid_q", 0.1, 10.0, design.DefaultQ)
	if err != nil {
		return nil, err
	}
	highGain, err := param.New("high_gain", -24.0, 24.0, 0.0, param.WithUnit("dB"))
	if err != nil {
		return nil, err
	}
	highFreq, err := param.New("high_freq", 2000.0, 16000.0, 8000.0, param.WithUnit("Hz"))
	if err != nil {
		return nil, err
	}
	e := &Equalizer{
		lowGain:  lowGain,
		lowFreq:  lowFreq,
		midGain:  midGain,
		midFreq:  midFreq,
		midQ:     midQ,
		highGain: highGain,
		highFreq: highFreq,
		params:   param.NewSet(lowGain, lowFreq, midGain, midFreq, midQ, highGain, highFreq),
	}
	return e, nil
}

// Params exposes the automatable parameters.
func (e *Equalizer) Params() *param.Set { return e.params }

// Prepare designs the initial band filters for the given sample rate.
func (e *Equalizer) Prepare(ctx effect.Context, maxBlockSize int) error {
	if err := effect.ValidatePrepare(ctx, maxBlockSize); err != nil {
		return err
	}
	ctx = ctx.Normalized()
	e.sampleRate = ctx.SampleRate
	if err := e.params.SetSampleRate(ctx.SampleRate); err != nil {
		return err
	}
	e.params.SnapAll()
	for ch := range e.sections {
		for b := range e.sections[ch] {
			e.sections[ch][b].Reset()
		}
	}
	e.redesign()
	e.prepared = true
	return nil
}

// redesign computes fresh coefficients from the current parameter
// values and installs them without disturbing the filter state.
func (e *Equalizer) redesign() {
	low := design.LowShelf(e.lowFreq.Current(), e.lowGain.Current(), design.DefaultQ, e.sampleRate)
	mid := design.Peak(e.midFreq.Current(), e.midGain.Current(), e.midQ.Current(), e.sampleRate)
	high := design.HighShelf(e.highFreq.Current(), e.highGain.Current(), design.DefaultQ, e.sampleRate)
	for ch := range e.sections {
		e.sections[ch][0].SetCoefficients(low)
		e.sections[ch][1].SetCoefficients(mid)
		e.sections[ch][2].SetCoefficients(high)
	}
}

func (e *Equalizer) advanceParams(n int) {
	for _, p := range e.params.All() {
		p.NextBlock(n)
	}
}

// Process runs the left channel only.
func (e *Equalizer) Process(block []float64) {
	if !e.prepared || len(block) == 0 {
		return
	}
	e.advanceParams(len(block))
	e.redesign()
	e.processChannel(block, 0)
}

// ProcessStereo runs both channels through matching band filters.
func (e *Equalizer) ProcessStereo(left, right []float64) {
	if !e.prepared {
		return
	}
	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	if n == 0 {
		return
	}
	e.advanceParams(n)
	e.redesign()
	if len(left) > 0 {
		e.processChannel(left, 0)
	}
	if len(right) > 0 {
		e.processChannel(right, 1)
	}
}

func (e *Equalizer) processChannel(block []float64, ch int) {
	for b := range e.sections[ch] {
		e.sections[ch][b].ProcessBlock(block)
	}
}

// Reset clears the band filter state.
func (e *Equalizer) Reset() {
	for ch := range e.sections {
		for b := range e.sections[ch] {
			e.sections[ch][b].Reset()
		}
	}
	e.params.SnapAll()
	e.redesign()
}

// Release marks the equalizer unprepared.
func (e *Equalizer) Release() { e.prepared = false }

// Latency reports zero.
func (e *Equalizer) Latency() int { return 0 }
