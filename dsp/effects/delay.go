package effects

import (
	"github.com/cwbudde/algo-fx/dsp/core"
	"github.com/cwbudde/algo-fx/dsp/delay"
	"github.com/cwbudde/algo-fx/dsp/effect"
	"github.com/cwbudde/algo-fx/dsp/param"
)

const (
	minDelayTimeMs     = 1.0
	maxDelayTimeMs     = 2000.0
	defaultDelayTimeMs = 250.0
	maxDelayFeedback   = 0.99
)

// delayDivisions are the note values selectable in tempo-sync mode,
// expressed relative to a whole note.
var delayDivisions = []int{1, 2, 4, 8, 16}

// FeedbackDelay is a fractional feedback delay with dry/wet mix and
// optional tempo synchronization. Stereo operation runs two independent
// lines sharing one parameter table.
type FeedbackDelay struct {
	timeMs   *param.Parameter
	feedback *param.Parameter
	mix      *param.Parameter
	sync     *param.Parameter
	division *param.Parameter
	params   *param.Set

	lines [2]*delay.Line

	sampleRate float64
	tempoBPM   float64

	// delaySamples is the smoothed read offset per channel; it ramps
	// toward the target across each block so time changes glide instead
	// of clicking.
	delaySamples [2]float64

	prepared bool
	released bool
}

// NewFeedbackDelay creates an unprepared delay with practical defaults.
func NewFeedbackDelay() (*FeedbackDelay, error) {
	timeMs, err := param.New("time", minDelayTimeMs, maxDelayTimeMs, defaultDelayTimeMs,
		param.WithUnit("ms"), param.WithHelp("Delay time"), param.WithSmoothing(50))
	if err != nil {
		return nil, err
	}

	feedback, err := param.New("feedback", 0, maxDelayFeedback, 0.35,
		param.WithHelp("Amount of output fed back into the line"))
	if err != nil {
		return nil, err
	}

	mix, err := param.New("mix", 0, 1, 0.25, param.WithHelp("Wet amount"))
	if err != nil {
		return nil, err
	}

	syncP, err := param.NewBool("sync", false, param.WithHelp("Follow transport tempo"))
	if err != nil {
		return nil, err
	}

	division, err := param.NewChoice("division", len(delayDivisions), 2,
		param.WithHelp("Synced note value (whole to sixteenth)"))
	if err != nil {
		return nil, err
	}

	return &FeedbackDelay{
		timeMs:   timeMs,
		feedback: feedback,
		mix:      mix,
		sync:     syncP,
		division: division,
		params:   param.NewSet(timeMs, feedback, mix, syncP, division),
	}, nil
}

// Params returns the parameter set for control surfaces.
func (d *FeedbackDelay) Params() *param.Set { return d.params }

// Prepare sizes both delay lines for the maximum delay time and binds the
// transport. Calling it again resizes and implicitly resets.
func (d *FeedbackDelay) Prepare(ctx effect.Context, maxBlockSize int) error {
	err := effect.ValidatePrepare(ctx, maxBlockSize)
	if err != nil {
		return err
	}

	ctx = ctx.Normalized()

	for ch := range d.lines {
		line, err := delay.NewForDuration(maxDelayTimeMs, ctx.SampleRate)
		if err != nil {
			return err
		}

		d.lines[ch] = line
	}

	err = d.params.SetSampleRate(ctx.SampleRate)
	if err != nil {
		return err
	}

	d.sampleRate = ctx.SampleRate
	d.tempoBPM = ctx.TempoBPM
	d.params.SnapAll()

	target := d.targetDelaySamples()
	d.delaySamples = [2]float64{target, target}
	d.prepared = true

	return nil
}

// Process runs the mono path through the first line.
func (d *FeedbackDelay) Process(block []float64) {
	d.processChannel(0, block)
}

// ProcessStereo processes the channels independently (dual mono).
func (d *FeedbackDelay) ProcessStereo(left, right []float64) {
	d.processChannel(0, left)
	d.processChannel(1, right)
}

func (d *FeedbackDelay) processChannel(ch int, block []float64) {
	if !d.prepared || len(block) == 0 {
		return
	}

	line := d.lines[ch]
	n := len(block)

	target := d.targetDelaySamples()
	step := (target - d.delaySamples[ch]) / float64(n)

	fb := d.feedback.NextBlock(n)
	mix := d.mix.NextBlock(n)
	dry := 1 - mix

	offset := d.delaySamples[ch]

	for i := range block {
		offset += step

		in := block[i]
		wet := line.ReadLinear(offset)

		line.Write(core.FlushDenormals(in + wet*fb))

		block[i] = in*dry + wet*mix
	}

	d.delaySamples[ch] = target
}

// targetDelaySamples resolves the current delay in samples, from tempo
// when synced or from the time parameter otherwise.
func (d *FeedbackDelay) targetDelaySamples() float64 {
	var samples float64

	if d.sync.Target() >= 0.5 {
		idx := d.division.Choice()
		if idx < 0 {
			idx = 0
		}

		if idx >= len(delayDivisions) {
			idx = len(delayDivisions) - 1
		}

		samples = delay.BPMToSamples(d.tempoBPM, delayDivisions[idx], false, false, d.sampleRate)
	} else {
		// The per-block offset ramp does the smoothing; the raw target
		// is the right input here.
		samples = delay.MsToSamples(d.timeMs.Target(), d.sampleRate)
	}

	limit := float64(d.lines[0].Len() - 4)

	return core.Clamp(samples, 1, limit)
}

// Reset clears both lines and stale parameter glides. The lines keep their
// capacity; no reallocation.
func (d *FeedbackDelay) Reset() {
	for _, line := range d.lines {
		if line != nil {
			line.Clear()
		}
	}

	d.params.SnapAll()

	if d.prepared {
		target := d.targetDelaySamples()
		d.delaySamples = [2]float64{target, target}
	}
}

// Release marks the effect terminal; the delay owns no external resources.
func (d *FeedbackDelay) Release() {
	d.released = true
}

// Latency is zero; the configured delay is the audible effect, not a
// processing latency.
func (d *FeedbackDelay) Latency() int { return 0 }
