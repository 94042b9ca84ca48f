package atp

import "math"

// ToleranceThreshold returns n/ln(n), the largest number of exceptions a rule
// over n items may have and still be productive. Populations of one item or
// fewer have no threshold.
func ToleranceThreshold(n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(n) / math.Log(float64(n))
}

// TolerancePrinciple reports whether a rule that holds for c of n items is
// productive: c > 2, c > n/2 and the n-c exceptions are within n/ln(n).
func TolerancePrinciple(n, c int) bool {
	if n <= 1 || c <= 2 {
		return false
	}
	if 2*c <= n {
		return false
	}
	return float64(n-c) <= ToleranceThreshold(n)
}
