package vonmises

import (
	"math"

	"github.com/nozzle/vonmises/internal/rand"
)

// Source supplies independent uniform values in [0, 1).
// *math/rand/v2.Rand satisfies it, as do the generators returned by NewSource.
type Source interface {
	Float64() float64
}

// NewSource returns a Mersenne Twister seeded like numpy.random.RandomState(seed).
// Samplers driven by it consume the same uniform stream a NumPy program
// would. It is not safe for concurrent use.
func NewSource(seed uint32) Source {
	return rand.NewMT19937(seed)
}

// Uniform draws n values uniform on [0, 1).
func Uniform(src Source, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = src.Float64()
	}
	return out
}

// UniformSigned draws n values uniform on [-1, 1).
func UniformSigned(src Source, n int) []float64 {
	out := Uniform(src, n)
	for i, u := range out {
		out[i] = u*2 - 1
	}
	return out
}

// UniformAngle draws n values uniform on [-pi, pi).
func UniformAngle(src Source, n int) []float64 {
	out := Uniform(src, n)
	for i, u := range out {
		out[i] = u*2*math.Pi - math.Pi
	}
	return out
}
