// Package param implements bounded, click-free automatable parameters.
//
// A Parameter separates the value requested by a controller (the target,
// written from any goroutine) from the value the audio goroutine actually
// uses (the current value, advanced once per sample or once per block).
// Continuous parameters glide toward the target with one-pole exponential
// smoothing so automation never produces audible steps; discrete parameters
// (switches, mode selectors) snap immediately.
package param

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fx/dsp/core"
)

const defaultSmoothingMs = 20.0

// snapEpsilon ends a glide once current is this close to target, so long
// exponential tails settle to an exact value.
const snapEpsilon = 1e-9

// Parameter is a named scalar control with fixed bounds.
//
// SetTarget and Target are safe to call from any goroutine. Next, NextBlock,
// Current, SetSampleRate, and SnapToTarget must only be called from the
// goroutine that owns audio processing.
type Parameter struct {
	name  string
	label string
	unit  string
	help  string

	min float64
	max float64
	def float64

	// steps > 0 marks a discrete parameter: values snap to one of steps+1
	// evenly spaced positions and smoothing is bypassed.
	steps int

	smoothingMs float64
	coeff       float64

	target  atomic.Uint64
	current float64
}

// Option customizes a Parameter at construction time.
type Option func(*Parameter)

// WithUnit sets the display unit string (e.g. "Hz", "dB", "ms").
func WithUnit(unit string) Option {
	return func(p *Parameter) { p.unit = unit }
}

// WithLabel sets a human-readable display name distinct from the identifier.
func WithLabel(label string) Option {
	return func(p *Parameter) { p.label = label }
}

// WithHelp sets a one-line description for UI tooltips.
func WithHelp(help string) Option {
	return func(p *Parameter) { p.help = help }
}

// WithSmoothing sets the smoothing time constant in milliseconds.
// Values <= 0 select the package default.
func WithSmoothing(ms float64) Option {
	return func(p *Parameter) {
		if ms > 0 {
			p.smoothingMs = ms
		}
	}
}

// New creates a continuous parameter with the given identifier, bounds, and
// default value. The default is clamped into [min, max].
func New(name string, min, max, def float64, opts ...Option) (*Parameter, error) {
	if name == "" {
		return nil, fmt.Errorf("param: empty name")
	}

	if !core.IsFinite(min) || !core.IsFinite(max) {
		return nil, fmt.Errorf("param %q: bounds must be finite: [%f, %f]", name, min, max)
	}

	if min >= max {
		return nil, fmt.Errorf("param %q: min must be below max: [%f, %f]", name, min, max)
	}

	p := &Parameter{
		name:        name,
		label:       name,
		min:         min,
		max:         max,
		smoothingMs: defaultSmoothingMs,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	p.def = core.Clamp(def, min, max)
	p.storeTarget(p.def)
	p.current = p.def

	return p, nil
}

// NewBool creates a discrete on/off parameter in [0, 1].
func NewBool(name string, def bool, opts ...Option) (*Parameter, error) {
	defValue := 0.0
	if def {
		defValue = 1.0
	}

	p, err := New(name, 0, 1, defValue, opts...)
	if err != nil {
		return nil, err
	}

	p.steps = 1

	return p, nil
}

// NewChoice creates a discrete parameter selecting one of count options,
// stored as an index in [0, count-1].
func NewChoice(name string, count, def int, opts ...Option) (*Parameter, error) {
	if count < 2 {
		return nil, fmt.Errorf("param %q: choice needs at least 2 options: %d", name, count)
	}

	p, err := New(name, 0, float64(count-1), float64(def), opts...)
	if err != nil {
		return nil, err
	}

	p.steps = count - 1

	return p, nil
}

// MustNew is like New but panics on error. Intended for fixed effect
// parameter tables where a failure is a programming error.
func MustNew(name string, min, max, def float64, opts ...Option) *Parameter {
	p, err := New(name, min, max, def, opts...)
	if err != nil {
		panic("param: " + err.Error())
	}

	return p
}

// Name returns the parameter identifier.
func (p *Parameter) Name() string { return p.name }

// Label returns the display name.
func (p *Parameter) Label() string { return p.label }

// Unit returns the unit string.
func (p *Parameter) Unit() string { return p.unit }

// Help returns the description text.
func (p *Parameter) Help() string { return p.help }

// Min returns the lower bound.
func (p *Parameter) Min() float64 { return p.min }

// Max returns the upper bound.
func (p *Parameter) Max() float64 { return p.max }

// Default returns the construction-time default value.
func (p *Parameter) Default() float64 { return p.def }

// Discrete reports whether the parameter snaps to fixed steps instead of
// smoothing continuously.
func (p *Parameter) Discrete() bool { return p.steps > 0 }

// SmoothingMs returns the smoothing time constant in milliseconds.
func (p *Parameter) SmoothingMs() float64 { return p.smoothingMs }

// SetTarget schedules a new automation target. The value is clamped into
// [min, max]; discrete parameters additionally snap to the nearest step.
// Lock-free and allocation-free; callable from any goroutine.
func (p *Parameter) SetTarget(value float64) {
	if math.IsNaN(value) {
		return
	}

	value = core.Clamp(value, p.min, p.max)
	if p.steps > 0 {
		value = p.snap(value)
	}

	p.storeTarget(value)
}

// SetChoice schedules a discrete step index. It is SetTarget with integer
// intent; out-of-range indices clamp like any other value.
func (p *Parameter) SetChoice(index int) {
	p.SetTarget(float64(index))
}

// Choice returns the target as a step index.
func (p *Parameter) Choice() int {
	return int(math.Round(p.Target()))
}

// Target returns the most recently scheduled target without advancing the
// smoothed value. Use for discrete controls an effect must react to at once.
func (p *Parameter) Target() float64 {
	return math.Float64frombits(p.target.Load())
}

// Current returns the smoothed value without advancing it.
func (p *Parameter) Current() float64 {
	if p.steps > 0 {
		return p.Target()
	}

	return p.current
}

// Next advances the smoothed value one sample toward the target and returns
// it. Discrete parameters return the target directly.
func (p *Parameter) Next() float64 {
	target := p.Target()
	if p.steps > 0 {
		p.current = target
		return target
	}

	p.current += (target - p.current) * (1 - p.coeff)
	if math.Abs(p.current-target) < snapEpsilon {
		p.current = target
	}

	return p.current
}

// NextBlock advances the smoothed value by n samples in closed form and
// returns the value after the block. Use for parameters that only need
// block-rate resolution.
func (p *Parameter) NextBlock(n int) float64 {
	target := p.Target()
	if p.steps > 0 || n <= 0 {
		if p.steps > 0 {
			p.current = target
		}

		return p.Current()
	}

	// n steps of one-pole smoothing collapse to coeff^n.
	p.current = target + (p.current-target)*math.Pow(p.coeff, float64(n))
	if math.Abs(p.current-target) < snapEpsilon {
		p.current = target
	}

	return p.current
}

// SnapToTarget jumps the smoothed value to the target immediately.
// Called on Reset and after Prepare so stale glides never leak across
// lifecycle transitions.
func (p *Parameter) SnapToTarget() {
	p.current = p.Target()
}

// SetSampleRate recomputes the smoothing coefficient for the given sample
// rate. Must be called before the first Next (effects call it from Prepare).
func (p *Parameter) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("param %q: sample rate must be positive and finite: %f", p.name, sampleRate)
	}

	p.coeff = math.Exp(-1 / (p.smoothingMs * sampleRate / 1000))

	return nil
}

func (p *Parameter) storeTarget(value float64) {
	p.target.Store(math.Float64bits(value))
}

func (p *Parameter) snap(value float64) float64 {
	span := p.max - p.min
	pos := (value - p.min) / span * float64(p.steps)

	return p.min + math.Round(pos)/float64(p.steps)*span
}

// Set groups the parameters of one effect for uniform handling by a control
// surface.
type Set struct {
	params []*Parameter
	byName map[string]*Parameter
}

// NewSet builds a Set from the given parameters. Duplicate names are a
// programming error and panic.
func NewSet(params ...*Parameter) *Set {
	s := &Set{
		params: params,
		byName: make(map[string]*Parameter, len(params)),
	}

	for _, p := range params {
		if _, dup := s.byName[p.name]; dup {
			panic("param: duplicate parameter name " + p.name)
		}

		s.byName[p.name] = p
	}

	return s
}

// Lookup returns the parameter with the given name, or nil.
func (s *Set) Lookup(name string) *Parameter {
	return s.byName[name]
}

// All returns the parameters in declaration order.
func (s *Set) All() []*Parameter {
	return s.params
}

// SetSampleRate updates the smoothing coefficient of every parameter.
func (s *Set) SetSampleRate(sampleRate float64) error {
	for _, p := range s.params {
		err := p.SetSampleRate(sampleRate)
		if err != nil {
			return err
		}
	}

	return nil
}

// SnapAll jumps every parameter to its target.
func (s *Set) SnapAll() {
	for _, p := range s.params {
		p.SnapToTarget()
	}
}
