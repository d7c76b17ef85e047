package biquad

import (
	_ "github.com/cwbudde/algo-fx/dsp/filter/biquad/internal/arch/generic" // register portable kernel
)
