// Package math provides circular arithmetic helpers shared by the samplers.
package math

import "math"

// TwoPi is the length of the circle.
const TwoPi = 2 * math.Pi

// FloorMod returns x modulo m with the sign of m, so the result lies in [0, m).
// This matches Python's % operator rather than math.Mod.
func FloorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// Wrap shifts x by mu and maps the result onto (-pi, pi].
// The computation is (x + pi + mu) mod 2pi - pi; the one point it can send
// to -pi is reported as pi instead.
func Wrap(x, mu float64) float64 {
	w := FloorMod(x+math.Pi+mu, TwoPi) - math.Pi
	if w <= -math.Pi {
		return math.Pi
	}
	return w
}

// WrapAll applies Wrap in place to every element of xs.
func WrapAll(xs []float64, mu float64) []float64 {
	for i, x := range xs {
		xs[i] = Wrap(x, mu)
	}
	return xs
}

// Sign returns -1, 0 or 1 according to the sign of x. NaN yields NaN.
// Unlike math.Copysign, zero maps to zero.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	case x == 0:
		return 0
	}
	return math.NaN()
}

// InRange reports whether x lies in the closed interval [-pi, pi].
func InRange(x float64) bool {
	return x >= -math.Pi && x <= math.Pi
}
