package vonmises

import (
	"math"

	"github.com/pkg/errors"

	"github.com/nozzle/vonmises/reject"
)

// Normal draws n values from N(mean, std^2) with the Marsaglia polar method.
//
// Each round draws m abscissae X and then m ordinates Y on [-1, 1), keeps
// the pairs with 0 < X^2+Y^2 < 1 and turns each kept pair into one sample.
// Y is only used for the disk test; the second polar variate is not emitted.
func Normal(src Source, mean, std float64, n int) ([]float64, error) {
	return normal(src, mean, std, n, 0)
}

func normal(src Source, mean, std float64, n, maxRounds int) ([]float64, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	if err := checkFinite("mean", mean); err != nil {
		return nil, err
	}
	if err := checkFinite("std", std); err != nil {
		return nil, err
	}
	if std <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "std must be positive, got %v", std)
	}

	round := func(m int) []float64 {
		xs := UniformSigned(src, m)
		ys := UniformSigned(src, m)

		kept := make([]float64, 0, m)
		for i, x := range xs {
			u := x*x + ys[i]*ys[i]
			if 0 < u && u < 1 {
				kept = append(kept, mean+std*x*math.Sqrt(-2*math.Log(u)/u))
			}
		}
		return kept
	}
	return reject.Fill(n, round, maxRounds)
}
