//go:build fastmath

package effects

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

// ln2 is the natural logarithm of 2, used for log base conversions.
const ln2 = 0.69314718055994530942

// mathLog2 stays on the standard library; the approximation package
// carries no logarithm kernel.
func mathLog2(x float64) float64 {
	return math.Log2(x)
}

// mathPower2 computes 2^x via the identity 2^x = e^(x*ln2) using the
// float32 fast-exp kernel. Gain computation tolerates the reduced
// precision; coefficient design does not and never calls this.
func mathPower2(x float64) float64 {
	return float64(approx.FastExp(float32(x) * ln2))
}
