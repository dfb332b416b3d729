package num

import "math"

// Gamma returns the gamma function of x.
func (x Float64) Gamma() Float64 { return Float64(math.Gamma(float64(x))) }

// Digamma returns the logarithmic derivative of the gamma function,
// ψ(x) = Γ'(x)/Γ(x). Valid for positive x only.
func (x Float64) Digamma() Float64 { return Float64(digamma(float64(x))) }

// digamma evaluates ψ(x) for x > 0 by shifting the argument upward with the
// recurrence ψ(x) = ψ(x+1) - 1/x until the asymptotic expansion
//
//	ψ(x) ~ ln(x) - 1/(2x) - Σ B_2n / (2n x^2n)
//
// is accurate, then summing the Bernoulli tail.
func digamma(x float64) float64 {
	// Shift into the asymptotic region.
	const shift = 6.0
	result := 0.0
	for x < shift {
		result -= 1.0 / x
		x++
	}

	// Asymptotic expansion with Bernoulli coefficients B_2n/(2n).
	inv := 1.0 / x
	inv2 := inv * inv
	result += math.Log(x) - 0.5*inv
	series := inv2 * (1.0/12.0 - inv2*(1.0/120.0-inv2*(1.0/252.0-inv2*(1.0/240.0-inv2*(1.0/132.0)))))
	return result - series
}
