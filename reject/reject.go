// Package reject implements batch rejection sampling.
//
// A sampling call asks for exactly n values. The engine runs rounds: each
// round proposes a batch, keeps the candidates that pass their acceptance
// test, and the next round asks only for the remaining shortfall. Rounds
// never return more than they were asked for, so the result holds exactly n
// values without truncation.
package reject

import (
	"github.com/pkg/errors"
)

// ErrRoundLimit is returned when a round cap is configured and reached
// before the target count is met. It signals a broken or deterministic
// uniform source; with a healthy source the loop ends almost surely.
var ErrRoundLimit = errors.New("reject: round limit reached")

// Round proposes size candidates and returns the accepted subset, in
// proposal order. It must not return more than size values.
type Round func(size int) []float64

// Fill runs rounds until exactly n values are accepted. The first round asks
// for n candidates; each later round asks for n minus the number already
// held. maxRounds <= 0 means no cap.
func Fill(n int, round Round, maxRounds int) ([]float64, error) {
	if n <= 0 {
		return nil, errors.Errorf("reject: target count must be positive, got %d", n)
	}

	accepted := make([]float64, 0, n)
	for rounds := 0; len(accepted) < n; rounds++ {
		if maxRounds > 0 && rounds >= maxRounds {
			return accepted, errors.Wrapf(ErrRoundLimit, "%d of %d accepted after %d rounds",
				len(accepted), n, rounds)
		}

		shortfall := n - len(accepted)
		got := round(shortfall)
		if len(got) > shortfall {
			return nil, errors.Errorf("reject: round returned %d values for a batch of %d",
				len(got), shortfall)
		}
		accepted = append(accepted, got...)
	}
	return accepted, nil
}

// Scheme is one rejection sampler: a proposal, its acceptance test, and the
// transform applied to accepted values.
type Scheme struct {
	// Propose draws m candidates and, for each, the statistic its acceptance
	// test is evaluated on. Both slices have length m.
	Propose func(m int) (candidates, stats []float64)
	// Uniform draws the m acceptance-test uniforms for a batch. It is called
	// after Propose.
	Uniform func(m int) []float64
	// Accept reports whether a candidate with statistic stat passes against
	// its uniform u.
	Accept func(stat, u float64) bool
	// Finish maps an accepted candidate to the returned value. Nil keeps
	// candidates unchanged.
	Finish func(x float64) float64
}

// Round runs one batch of size m and returns the accepted candidates.
// Candidate i is tested against uniform i of the same batch.
func (s Scheme) Round(m int) []float64 {
	candidates, stats := s.Propose(m)
	us := s.Uniform(m)

	kept := make([]float64, 0, m)
	for i, x := range candidates {
		if s.Accept(stats[i], us[i]) {
			kept = append(kept, x)
		}
	}
	return kept
}

// Sample returns exactly n values from the scheme's target distribution.
func (s Scheme) Sample(n, maxRounds int) ([]float64, error) {
	out, err := Fill(n, s.Round, maxRounds)
	if err != nil {
		return nil, err
	}
	if s.Finish != nil {
		for i, x := range out {
			out[i] = s.Finish(x)
		}
	}
	return out, nil
}

// AcceptanceRate runs a single batch of n candidates with no top-up and
// returns the accepted percentage.
func (s Scheme) AcceptanceRate(n int) (float64, error) {
	if n <= 0 {
		return 0, errors.Errorf("reject: batch size must be positive, got %d", n)
	}
	return 100 * float64(len(s.Round(n))) / float64(n), nil
}
