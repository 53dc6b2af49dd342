// Package vonmises samples circular distributions, principally the von Mises
// distribution, by rejection sampling.
//
// Two proposals are available: the uniform distribution on the circle and
// the wrapped Cauchy envelope of Best and Fisher. Both run on the batch
// rejection engine in package reject, which returns exactly the requested
// number of values. The package also provides the wrapped Cauchy and polar
// normal samplers, acceptance-rate estimators and the unnormalized von Mises
// density.
//
// Basic usage:
//
//	s := vonmises.New(vonmises.DefaultConfig(), vonmises.NewSource(42))
//	angles, err := s.Sample(1000)
package vonmises

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	cmath "github.com/nozzle/vonmises/internal/math"
	"github.com/nozzle/vonmises/reject"
)

// Proposal selects the proposal distribution of the von Mises sampler.
type Proposal int

const (
	// UniformProposal proposes angles uniform on the circle
	UniformProposal Proposal = iota
	// CauchyProposal proposes from the wrapped Cauchy envelope
	CauchyProposal
)

func (p Proposal) String() string {
	switch p {
	case UniformProposal:
		return "uniform"
	case CauchyProposal:
		return "cauchy"
	}
	return "unknown"
}

// ParseProposal maps "uniform" or "cauchy" to a Proposal.
func ParseProposal(s string) (Proposal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform":
		return UniformProposal, nil
	case "cauchy", "wrapped-cauchy":
		return CauchyProposal, nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown proposal %q", s)
}

// Config configures a Sampler.
type Config struct {
	// Mu is the location of the distribution.
	// Default: 0
	Mu float64

	// Kappa is the concentration; 0 is the uniform distribution on the circle.
	// Default: 1
	Kappa float64

	// Proposal selects the rejection sampler's proposal distribution.
	// Default: CauchyProposal
	Proposal Proposal

	// MaxRounds caps the number of rejection rounds per call. A healthy
	// source never needs a cap; it guards against a stuck one.
	// 0 = unbounded.
	// Default: 0
	MaxRounds int
}

// DefaultConfig returns the default sampler configuration.
func DefaultConfig() Config {
	return Config{
		Mu:        0,
		Kappa:     1,
		Proposal:  CauchyProposal,
		MaxRounds: 0,
	}
}

// Validate checks the configuration without sampling.
func (c Config) Validate() error {
	if err := checkFinite("mu", c.Mu); err != nil {
		return err
	}
	if err := checkKappa(c.Kappa); err != nil {
		return err
	}
	if c.Proposal != UniformProposal && c.Proposal != CauchyProposal {
		return errors.Wrapf(ErrInvalidArgument, "unknown proposal %d", int(c.Proposal))
	}
	if c.Proposal == CauchyProposal && c.Kappa > 0 {
		if _, err := cauchyEnvelope(c.Kappa); err != nil {
			return err
		}
	}
	if c.MaxRounds < 0 {
		return errors.Wrapf(ErrInvalidArgument, "max rounds must not be negative, got %d", c.MaxRounds)
	}
	return nil
}

// Sampler draws from the distributions in this package with one Source.
// It is as safe for concurrent use as its Source.
type Sampler struct {
	Config Config
	src    Source
}

// New creates a Sampler with the given configuration and uniform source.
func New(config Config, src Source) *Sampler {
	return &Sampler{Config: config, src: src}
}

// Sample draws n von Mises values with the configured proposal.
func (s *Sampler) Sample(n int) ([]float64, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	if s.Config.Proposal == UniformProposal {
		return vonMisesUniform(s.src, s.Config.Mu, s.Config.Kappa, n, s.Config.MaxRounds)
	}
	return vonMisesCauchy(s.src, s.Config.Mu, s.Config.Kappa, n, s.Config.MaxRounds)
}

// AcceptanceRate estimates the configured proposal's acceptance percentage
// from a single batch of n candidates. Mu does not affect it.
func (s *Sampler) AcceptanceRate(n int) (float64, error) {
	if err := s.Config.Validate(); err != nil {
		return 0, err
	}
	return acceptanceRate(s.src, s.Config.Proposal, s.Config.Kappa, n)
}

// WrappedCauchy draws n wrapped Cauchy values with the configured location
// and concentration.
func (s *Sampler) WrappedCauchy(n int) ([]float64, error) {
	return WrappedCauchy(s.src, s.Config.Mu, s.Config.Kappa, n)
}

// Normal draws n normal values, honoring the configured round cap.
func (s *Sampler) Normal(mean, std float64, n int) ([]float64, error) {
	return normal(s.src, mean, std, n, s.Config.MaxRounds)
}

// VonMisesUniform draws n von Mises values using uniform proposals on the
// circle. A candidate x is kept when a fresh uniform u satisfies
// u <= exp(kappa*(cos(x-mu)-1)). Values lie in (-pi, pi].
func VonMisesUniform(src Source, mu, kappa float64, n int) ([]float64, error) {
	return vonMisesUniform(src, mu, kappa, n, 0)
}

// VonMisesCauchy draws n von Mises values using the wrapped Cauchy envelope
// as proposal. For kappa == 0 it returns uniform angles directly. Small
// positive kappa is accepted but sits on a precision boundary of the
// envelope computation; below about 1e-8 the envelope is not finite and an
// error wrapping ErrInvalidArgument is returned. Values lie in (-pi, pi].
func VonMisesCauchy(src Source, mu, kappa float64, n int) ([]float64, error) {
	return vonMisesCauchy(src, mu, kappa, n, 0)
}

func vonMisesUniform(src Source, mu, kappa float64, n, maxRounds int) ([]float64, error) {
	if err := checkCircular(mu, kappa, n); err != nil {
		return nil, err
	}
	return uniformScheme(src, mu, kappa).Sample(n, maxRounds)
}

func vonMisesCauchy(src Source, mu, kappa float64, n, maxRounds int) ([]float64, error) {
	if err := checkCircular(mu, kappa, n); err != nil {
		return nil, err
	}
	if kappa == 0 {
		return cmath.WrapAll(UniformAngle(src, n), mu), nil
	}
	r, err := cauchyEnvelope(kappa)
	if err != nil {
		return nil, err
	}
	return cauchyScheme(src, mu, kappa, r).Sample(n, maxRounds)
}

// uniformScheme proposes uniform angles. The acceptance statistic already
// centers candidates on mu, so accepted values are only folded into range.
func uniformScheme(src Source, mu, kappa float64) reject.Scheme {
	return reject.Scheme{
		Propose: func(m int) ([]float64, []float64) {
			xs := UniformAngle(src, m)
			vals := make([]float64, m)
			for i, x := range xs {
				vals[i] = math.Exp(kappa * (math.Cos(x-mu) - 1))
			}
			return xs, vals
		},
		Uniform: func(m int) []float64 { return Uniform(src, m) },
		Accept:  func(val, u float64) bool { return u <= val },
		Finish:  func(x float64) float64 { return cmath.Wrap(x, 0) },
	}
}

// cauchyScheme proposes from the wrapped Cauchy envelope centered on 0 and
// shifts accepted values by mu. r is the envelope for kappa.
//
// Per batch it draws m uniforms for the angle, m signed uniforms for the
// side, then m acceptance uniforms, and keeps a candidate when
// log(c/u) + 1 - c >= 0.
func cauchyScheme(src Source, mu, kappa, r float64) reject.Scheme {
	return reject.Scheme{
		Propose: func(m int) ([]float64, []float64) {
			fs := make([]float64, m)
			cs := make([]float64, m)
			for i, u := range Uniform(src, m) {
				z := math.Cos(math.Pi * u)
				fs[i] = (1 + r*z) / (r + z)
				cs[i] = kappa * (r - fs[i])
			}
			xs := make([]float64, m)
			for i, v := range UniformSigned(src, m) {
				xs[i] = cmath.Sign(v) * acos(fs[i])
			}
			return xs, cs
		},
		Uniform: func(m int) []float64 { return Uniform(src, m) },
		Accept:  func(c, u float64) bool { return math.Log(c/u)+1-c >= 0 },
		Finish:  func(x float64) float64 { return cmath.Wrap(x, mu) },
	}
}
