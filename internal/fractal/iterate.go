package fractal

import "math/cmplx"

// Bailout is the escape radius. A sequence whose magnitude exceeds it is
// considered divergent.
const Bailout = 2.0

// Iterate runs z = z^exp + c starting from z0 and returns the escape count:
// the number of steps taken before |z| > Bailout, capped at limit.
// The result is always in [1, limit] for limit >= 1.
//
// Non-integer exponents use the principal branch of the complex power.
func Iterate(z0, c complex128, limit int, exp complex128) int {
	z := z0
	count := 1
	if exp == 2 {
		for cmplx.Abs(z) <= Bailout && count < limit {
			z = z*z + c
			count++
		}
		return count
	}
	for cmplx.Abs(z) <= Bailout && count < limit {
		z = cmplx.Pow(z, exp) + c
		count++
	}
	return count
}

// IterateLambda runs the logistic map z = lambda*z*(1-z) from z0 and returns
// the escape count, with the same bounds as Iterate.
func IterateLambda(z0, lambda complex128, limit int) int {
	z := z0
	count := 1
	for cmplx.Abs(z) <= Bailout && count < limit {
		z = lambda * z * (1 - z)
		count++
	}
	return count
}
