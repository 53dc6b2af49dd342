// Package stats checks samples against their target distributions.
//
// It backs the CLI's -check report and the statistical tests of the
// samplers: summary moments, circular mean direction, chi-squared
// goodness of fit against a (possibly unnormalized) density, and a
// one-sample Kolmogorov-Smirnov test against the uniform distribution.
package stats

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary holds sample moments and extremes.
type Summary struct {
	N        int
	Mean     float64
	Variance float64 // unbiased
	Min      float64
	Max      float64
}

// Summarize computes the Summary of xs. xs must not be empty.
func Summarize(xs []float64) Summary {
	mean, variance := stat.MeanVariance(xs, nil)
	return Summary{
		N:        len(xs),
		Mean:     mean,
		Variance: variance,
		Min:      floats.Min(xs),
		Max:      floats.Max(xs),
	}
}

// MeanDirection returns the circular mean direction of angles xs and the
// mean resultant length in [0, 1].
func MeanDirection(xs []float64) (direction, length float64) {
	var s, c float64
	for _, x := range xs {
		s += math.Sin(x)
		c += math.Cos(x)
	}
	n := float64(len(xs))
	return math.Atan2(s, c), math.Hypot(s, c) / n
}

// Result is the outcome of a goodness-of-fit test.
type Result struct {
	Statistic float64
	PValue    float64
}

// Edges returns the bins+1 equal-width bin edges spanning [lo, hi].
func Edges(lo, hi float64, bins int) []float64 {
	return floats.Span(make([]float64, bins+1), lo, hi)
}

// Histogram counts the values of xs into bins equal-width bins on [lo, hi].
// The last bin is closed; values outside [lo, hi] are not counted.
func Histogram(xs []float64, lo, hi float64, bins int) []float64 {
	in := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x >= lo && x <= hi {
			in = append(in, x)
		}
	}
	sort.Float64s(in)

	dividers := Edges(lo, hi, bins)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	return stat.Histogram(nil, dividers, in, nil)
}

// Integral integrates f over [lo, hi] with 64-point Gauss-Legendre quadrature.
func Integral(f func(float64) float64, lo, hi float64) float64 {
	return quad.Fixed(f, lo, hi, 64, nil, 0)
}

// BinProbabilities integrates density over each of bins equal-width bins on
// [lo, hi] and normalizes the results to sum to 1.
func BinProbabilities(density func(float64) float64, lo, hi float64, bins int) []float64 {
	edges := Edges(lo, hi, bins)
	probs := make([]float64, bins)
	for i := range probs {
		probs[i] = quad.Fixed(density, edges[i], edges[i+1], 32, nil, 0)
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs
}

// ChiSquare tests xs against density over bins equal-width bins on
// [lo, hi]. density need not be normalized. Bins where the density has no
// mass at all are pooled into the preceding bin (the following one for
// leading bins), and the degrees of freedom count the pooled groups.
func ChiSquare(xs []float64, density func(float64) float64, lo, hi float64, bins int) (Result, error) {
	if bins < 2 {
		return Result{}, errors.Errorf("need at least 2 bins, got %d", bins)
	}
	if len(xs) == 0 {
		return Result{}, errors.New("no samples")
	}

	observed := Histogram(xs, lo, hi, bins)
	expected := BinProbabilities(density, lo, hi, bins)
	floats.Scale(float64(len(xs)), expected)
	observed, expected = poolEmpty(observed, expected)
	if len(expected) < 2 {
		return Result{}, errors.Errorf("need at least 2 bins with expected mass, got %d", len(expected))
	}

	chi2 := stat.ChiSquare(observed, expected)
	dist := distuv.ChiSquared{K: float64(len(expected) - 1)}
	return Result{Statistic: chi2, PValue: dist.Survival(chi2)}, nil
}

func poolEmpty(observed, expected []float64) (obs, exp []float64) {
	var carry float64
	for i, e := range expected {
		switch {
		case e > 0:
			obs = append(obs, observed[i]+carry)
			exp = append(exp, e)
			carry = 0
		case len(exp) > 0:
			obs[len(obs)-1] += observed[i]
		default:
			carry += observed[i]
		}
	}
	return obs, exp
}

// KSUniform runs a one-sample Kolmogorov-Smirnov test of xs against the
// uniform distribution on [lo, hi]. The p-value uses the asymptotic
// Kolmogorov distribution with Stephens' small-sample correction.
func KSUniform(xs []float64, lo, hi float64) (Result, error) {
	if len(xs) == 0 {
		return Result{}, errors.New("no samples")
	}
	if !(hi > lo) {
		return Result{}, errors.Errorf("empty range [%v, %v]", lo, hi)
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	var d float64
	for i, x := range sorted {
		f := math.Max(0, math.Min(1, (x-lo)/(hi-lo)))
		d = math.Max(d, math.Max(float64(i+1)/n-f, f-float64(i)/n))
	}

	sqrtN := math.Sqrt(n)
	return Result{Statistic: d, PValue: kolmogorovQ((sqrtN + 0.12 + 0.11/sqrtN) * d)}, nil
}

// kolmogorovQ is the survival function of the Kolmogorov distribution,
// Q(l) = 2 sum_{k>=1} (-1)^(k-1) exp(-2 k^2 l^2).
func kolmogorovQ(lambda float64) float64 {
	if lambda < 0.2 {
		return 1
	}
	var sum, prev float64
	sign := 1.0
	for k := 1; k <= 100; k++ {
		term := sign * 2 * math.Exp(-2*float64(k*k)*lambda*lambda)
		sum += term
		if math.Abs(term) <= 1e-10*math.Abs(prev) || math.Abs(term) < 1e-16 {
			break
		}
		prev = term
		sign = -sign
	}
	return math.Max(0, math.Min(1, sum))
}
