package vonmises

import (
	"math"

	cmath "github.com/nozzle/vonmises/internal/math"
)

// Density evaluates the von Mises density at x up to its normalizing
// constant 1/(2 pi I0(kappa)): exp(kappa*cos(x-mu)) on [-pi, pi], 0 elsewhere.
func Density(x, mu, kappa float64) float64 {
	if !cmath.InRange(x) {
		return 0
	}
	return math.Exp(kappa * math.Cos(x-mu))
}
