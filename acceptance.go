package vonmises

import (
	"github.com/pkg/errors"

	"github.com/nozzle/vonmises/internal/parallel"
)

// UniformAcceptanceRate estimates, in percent, how many uniform proposals
// the von Mises sampler keeps at concentration kappa. It runs one batch of
// n candidates with mu = 0 and no top-up, so it never replaces a sampler.
func UniformAcceptanceRate(src Source, kappa float64, n int) (float64, error) {
	return acceptanceRate(src, UniformProposal, kappa, n)
}

// CauchyAcceptanceRate is UniformAcceptanceRate for the wrapped Cauchy
// proposal. At kappa == 0 the sampler skips rejection and the rate is 100.
func CauchyAcceptanceRate(src Source, kappa float64, n int) (float64, error) {
	return acceptanceRate(src, CauchyProposal, kappa, n)
}

func acceptanceRate(src Source, p Proposal, kappa float64, n int) (float64, error) {
	if err := checkCount(n); err != nil {
		return 0, err
	}
	if err := checkKappa(kappa); err != nil {
		return 0, err
	}

	switch p {
	case UniformProposal:
		return uniformScheme(src, 0, kappa).AcceptanceRate(n)
	case CauchyProposal:
		if kappa == 0 {
			// Every uniform angle is kept; draw them anyway so the source
			// advances as it would while sampling.
			UniformAngle(src, n)
			return 100, nil
		}
		r, err := cauchyEnvelope(kappa)
		if err != nil {
			return 0, err
		}
		return cauchyScheme(src, 0, kappa, r).AcceptanceRate(n)
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown proposal %d", int(p))
}

// AcceptanceCurve estimates the acceptance rate of proposal p at every
// concentration in kappas, n candidates each. Point i uses its own
// NewSource(seed + i), so results do not depend on workers.
// workers <= 0 uses one worker per CPU.
func AcceptanceCurve(p Proposal, kappas []float64, n int, seed uint32, workers int) ([]float64, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	for _, k := range kappas {
		if err := checkKappa(k); err != nil {
			return nil, err
		}
		if p == CauchyProposal && k > 0 {
			if _, err := cauchyEnvelope(k); err != nil {
				return nil, err
			}
		}
	}
	if p != UniformProposal && p != CauchyProposal {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown proposal %d", int(p))
	}
	if workers <= 0 {
		workers = parallel.NumWorkers()
	}

	// Inputs are validated above, so the per-point estimate cannot fail.
	rates := parallel.ParallelMap(0, len(kappas), workers, func(i int) float64 {
		rate, _ := acceptanceRate(NewSource(seed+uint32(i)), p, kappas[i], n)
		return rate
	})
	return rates, nil
}
