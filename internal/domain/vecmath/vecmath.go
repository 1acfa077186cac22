// Package vecmath provides float32 vector arithmetic for speaker embeddings.
package vecmath

import "math"

// normEpsilon guards against division by zero on degenerate vectors.
const normEpsilon = 1e-12

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a new unit-length copy of v. A zero vector stays zero
// thanks to the epsilon guard.
func Normalize(v []float32) []float32 {
	n := Norm(v) + normEpsilon
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

// ApplyDelta returns normalize(base + alpha*delta). Inputs are not modified.
// The caller is responsible for dimension agreement.
func ApplyDelta(base, delta []float32, alpha float64) []float32 {
	shifted := make([]float32, len(base))
	for i := range base {
		shifted[i] = base[i] + float32(alpha*float64(delta[i]))
	}
	return Normalize(shifted)
}
