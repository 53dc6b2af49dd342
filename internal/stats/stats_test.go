package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nozzle/vonmises/internal/rand"
)

func uniformSample(seed uint32, n int, lo, hi float64) []float64 {
	mt := rand.NewMT19937(seed)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = mt.Uniform(lo, hi)
	}
	return xs
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})
	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, 5.0/3.0, s.Variance, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
}

func TestMeanDirection(t *testing.T) {
	dir, length := MeanDirection([]float64{math.Pi - 0.1, -math.Pi + 0.1})
	assert.InDelta(t, math.Pi, math.Abs(dir), 1e-12)
	assert.InDelta(t, math.Cos(0.1), length, 1e-12)

	_, length = MeanDirection([]float64{0, math.Pi / 2, math.Pi, -math.Pi / 2})
	assert.InDelta(t, 0, length, 1e-12)
}

func TestHistogram(t *testing.T) {
	xs := []float64{-1, 0, 0.1, 0.5, 0.99, 1, 2, -0.5}
	counts := Histogram(xs, 0, 1, 2)
	// 0, 0.1 in the first bin; 0.5, 0.99 and the closed upper edge 1 in the second.
	assert.Equal(t, []float64{2, 3}, counts)
}

func TestBinProbabilities(t *testing.T) {
	flat := BinProbabilities(func(float64) float64 { return 7 }, -math.Pi, math.Pi, 4)
	for _, p := range flat {
		assert.InDelta(t, 0.25, p, 1e-12)
	}

	// Linear density on [0, 1]: mass of [0, 0.5] is 1/4.
	lin := BinProbabilities(func(x float64) float64 { return x }, 0, 1, 2)
	assert.InDelta(t, 0.25, lin[0], 1e-12)
	assert.InDelta(t, 0.75, lin[1], 1e-12)
}

func TestChiSquare(t *testing.T) {
	xs := uniformSample(1, 50000, -math.Pi, math.Pi)

	res, err := ChiSquare(xs, func(float64) float64 { return 1 }, -math.Pi, math.Pi, 50)
	require.NoError(t, err)
	assert.Greater(t, res.PValue, 0.001)

	// The same sample is far from a peaked density.
	peaked := func(x float64) float64 { return math.Exp(4 * math.Cos(x)) }
	res, err = ChiSquare(xs, peaked, -math.Pi, math.Pi, 50)
	require.NoError(t, err)
	assert.Less(t, res.PValue, 1e-6)

	_, err = ChiSquare(xs, peaked, -math.Pi, math.Pi, 1)
	assert.Error(t, err)
	_, err = ChiSquare(nil, peaked, -math.Pi, math.Pi, 10)
	assert.Error(t, err)
}

func TestChiSquare_PoolsEmptyBins(t *testing.T) {
	box := func(x float64) float64 {
		if x >= -0.5 && x <= 0.5 {
			return 1
		}
		return 0
	}
	xs := uniformSample(3, 50000, -0.5, 0.5)

	// Ten of the twenty bins carry mass; the rest fold into their neighbors.
	res, err := ChiSquare(xs, box, -1, 1, 20)
	require.NoError(t, err)
	assert.Greater(t, res.PValue, 0.01)

	// A density that underflows away from its mode still yields a result.
	sharp := func(x float64) float64 { return math.Exp(800 * (math.Cos(x) - 1)) }
	_, err = ChiSquare(xs, sharp, -math.Pi, math.Pi, 60)
	require.NoError(t, err)

	_, err = ChiSquare(xs, func(float64) float64 { return 0 }, -1, 1, 20)
	assert.Error(t, err)
}

func TestPoolEmpty(t *testing.T) {
	obs, exp := poolEmpty([]float64{1, 2, 3, 4, 5, 6}, []float64{0, 2, 0, 3, 0, 0})
	assert.Equal(t, []float64{6, 15}, obs)
	assert.Equal(t, []float64{2, 3}, exp)
}

func TestKSUniform(t *testing.T) {
	xs := uniformSample(2, 20000, -1, 1)
	res, err := KSUniform(xs, -1, 1)
	require.NoError(t, err)
	assert.Greater(t, res.PValue, 0.001)
	assert.Less(t, res.Statistic, 0.02)

	// Squashing toward the left edge is detected.
	skewed := make([]float64, len(xs))
	for i, x := range xs {
		skewed[i] = (x+1)*(x+1)/2 - 1
	}
	res, err = KSUniform(skewed, -1, 1)
	require.NoError(t, err)
	assert.Less(t, res.PValue, 1e-6)

	_, err = KSUniform(nil, -1, 1)
	assert.Error(t, err)
	_, err = KSUniform(xs, 1, 1)
	assert.Error(t, err)
}

func TestKolmogorovQ(t *testing.T) {
	// Critical values of the Kolmogorov distribution.
	assert.InDelta(t, 0.05, kolmogorovQ(1.358), 5e-4)
	assert.InDelta(t, 0.01, kolmogorovQ(1.628), 5e-4)
	assert.Equal(t, 1.0, kolmogorovQ(0.1))
	assert.InDelta(t, 0, kolmogorovQ(5), 1e-12)
}

func TestIntegral(t *testing.T) {
	// Integral of exp(k cos x) over the circle is 2 pi I0(k); I0(1) = 1.2660658777520082.
	got := Integral(func(x float64) float64 { return math.Exp(math.Cos(x)) }, -math.Pi, math.Pi)
	assert.InDelta(t, 2*math.Pi*1.2660658777520082, got, 1e-10)
}
