// Package effects implements the concrete audio effects built on the
// engine primitives: parameters from dsp/param, biquad sections from
// dsp/filter, delay lines from dsp/delay, and the lifecycle contract from
// dsp/effect.
//
// Every effect follows the same shape: a constructor returning an
// unprepared instance with its parameter table, Prepare to bind a sample
// rate and size buffers, in-place block processing, Reset for transient
// state, and an idempotent Release. Continuous controls glide; discrete
// controls switch immediately.
package effects
