package vonmises

import (
	"math"

	"github.com/pkg/errors"

	cmath "github.com/nozzle/vonmises/internal/math"
)

// WrappedCauchyEnvelope returns the parameter s of the wrapped Cauchy
// distribution that best envelopes a von Mises density with concentration
// kappa:
//
//	tau = 1 + sqrt(1 + 4 kappa^2)
//	rho = (tau - sqrt(2 tau)) / (2 kappa)
//	s   = (1 + rho^2) / (2 rho)
//
// kappa must be positive. As kappa approaches 0 the division loses
// precision; at 0 the result is not finite.
func WrappedCauchyEnvelope(kappa float64) float64 {
	tau := 1 + math.Sqrt(1+4*(kappa*kappa))
	rho := (tau - math.Sqrt(2*tau)) / (2 * kappa)
	return (1 + rho*rho) / (2 * rho)
}

// cauchyEnvelope is WrappedCauchyEnvelope for a positive kappa, failing
// where the computation breaks down. Below about 1e-8, tau - sqrt(2 tau)
// cancels to zero and the envelope is no longer finite.
func cauchyEnvelope(kappa float64) (float64, error) {
	s := WrappedCauchyEnvelope(kappa)
	if !(s >= 1) || math.IsInf(s, 1) {
		return 0, errors.Wrapf(ErrInvalidArgument,
			"kappa %v is too small for the wrapped Cauchy envelope (s = %v); use kappa = 0 or a larger value", kappa, s)
	}
	return s, nil
}

// WrappedCauchy draws n values from the wrapped Cauchy distribution whose
// shape is derived from kappa (see WrappedCauchyEnvelope), centered on mu.
// Values lie in (-pi, pi]. kappa must be positive and large enough for the
// envelope to be finite.
func WrappedCauchy(src Source, mu, kappa float64, n int) ([]float64, error) {
	if err := checkCircular(mu, kappa, n); err != nil {
		return nil, err
	}
	if kappa == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "wrapped Cauchy needs kappa > 0")
	}

	s, err := cauchyEnvelope(kappa)
	if err != nil {
		return nil, err
	}
	us := Uniform(src, n)
	vs := Uniform(src, n)

	out := make([]float64, n)
	for i, u := range us {
		z := math.Cos(math.Pi * u)
		v := cmath.Sign(vs[i] - 0.5)
		out[i] = cmath.Wrap(v*acos((1+s*z)/(s+z)), mu)
	}
	return out, nil
}

// acos clamps x to [-1, 1] first; rounding can push the ratios used here a
// few ulps past the boundary.
func acos(x float64) float64 {
	return math.Acos(math.Max(-1, math.Min(1, x)))
}
