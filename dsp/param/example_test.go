package param_test

import (
	"fmt"

	"github.com/cwbudde/algo-fx/dsp/param"
)

func ExampleParameter_SetTarget() {
	cutoff := param.MustNew("cutoff", 20, 20000, 1000, param.WithUnit("Hz"))

	// Out-of-range targets clamp to the bounds.
	cutoff.SetTarget(50000)
	fmt.Printf("target=%.0f\n", cutoff.Target())

	// Output:
	// target=20000
}

func ExampleParameter_NextBlock() {
	gain := param.MustNew("gain", -60, 12, 0, param.WithSmoothing(20))
	if err := gain.SetSampleRate(48000); err != nil {
		panic(err)
	}

	gain.SnapToTarget()
	gain.SetTarget(-12)

	// Advancing a whole block at once lands exactly where per-sample
	// stepping would.
	v := gain.NextBlock(480)
	fmt.Printf("moving toward target: %t\n", v > -12 && v < 0)

	// Output:
	// moving toward target: true
}
