package vonmises

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is the cause of every error returned for parameters
// outside a sampler's domain. Test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

func checkCount(n int) error {
	if n <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "n must be positive, got %d", n)
	}
	return nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Wrapf(ErrInvalidArgument, "%s must be finite, got %v", name, v)
	}
	return nil
}

func checkKappa(kappa float64) error {
	if err := checkFinite("kappa", kappa); err != nil {
		return err
	}
	if kappa < 0 {
		return errors.Wrapf(ErrInvalidArgument, "kappa must be non-negative, got %v", kappa)
	}
	return nil
}

func checkCircular(mu, kappa float64, n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	if err := checkFinite("mu", mu); err != nil {
		return err
	}
	return checkKappa(kappa)
}
