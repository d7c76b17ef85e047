package effects

import "github.com/cwbudde/algo-fx/dsp/effect"

// DefaultRegistry returns a registry with every effect in this package
// registered under its canonical name.
func DefaultRegistry() *effect.Registry {
	r := effect.NewRegistry()
	r.MustRegister("gain", func() (effect.Effect, error) { return NewGain() })
	r.MustRegister("delay", func() (effect.Effect, error) { return NewFeedbackDelay() })
	r.MustRegister("chorus", func() (effect.Effect, error) { return NewChorus() })
	r.MustRegister("phaser", func() (effect.Effect, error) { return NewPhaser() })
	r.MustRegister("tremolo", func() (effect.Effect, error) { return NewTremolo() })
	r.MustRegister("compressor", func() (effect.Effect, error) { return NewCompressor() })
	r.MustRegister("eq", func() (effect.Effect, error) { return NewEqualizer() })
	return r
}
