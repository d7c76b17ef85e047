// Package effect defines the processing lifecycle contract shared by every
// audio effect, plus a registry and a linear chain for hosting them.
//
// Lifecycle: an effect is constructed unprepared, receives its sample rate
// and maximum block size through Prepare, then processes blocks until the
// host calls Release. Reset clears transient DSP state (filter history,
// delay contents, envelopes) without touching parameter values or
// reallocating. Nothing in the Process path may allocate, block, or fail.
package effect

import (
	"errors"
	"fmt"
)

// Default transport values used when a Context field is unset.
const (
	DefaultSampleRate = 48000.0
	DefaultTempoBPM   = 120.0
)

// Context carries engine-wide values into Prepare. Modeling the transport
// as an explicit value keeps effects testable without process-wide state.
type Context struct {
	SampleRate float64
	TempoBPM   float64
}

// Normalized returns a copy with unset fields replaced by defaults.
func (c Context) Normalized() Context {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}

	if c.TempoBPM <= 0 {
		c.TempoBPM = DefaultTempoBPM
	}

	return c
}

// Effect is the contract every audio effect implements.
//
// Process and ProcessStereo filter blocks in place; block length must not
// exceed the maxBlockSize given to Prepare. Effects that are mono inside
// document per type how they present stereo (downmix or dual mono).
// Latency reports the fixed number of samples output trails input; it is
// stable between calls to Prepare. Release frees externally held resources
// and is idempotent; a released effect must not process again.
type Effect interface {
	Prepare(ctx Context, maxBlockSize int) error
	Process(block []float64)
	ProcessStereo(left, right []float64)
	Reset()
	Release()
	Latency() int
}

// ErrNotPrepared is returned by hosts that validate lifecycle order.
var ErrNotPrepared = errors.New("effect: not prepared")

// ValidatePrepare checks the arguments every Prepare implementation
// accepts, so effects share one error shape.
func ValidatePrepare(ctx Context, maxBlockSize int) error {
	if ctx.SampleRate <= 0 {
		return fmt.Errorf("effect: sample rate must be > 0: %f", ctx.SampleRate)
	}

	if maxBlockSize <= 0 {
		return fmt.Errorf("effect: max block size must be > 0: %d", maxBlockSize)
	}

	return nil
}
