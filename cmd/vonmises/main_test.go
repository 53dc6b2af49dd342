package main

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nozzle/vonmises"
)

func testOptions() options {
	return options{
		dist:     "vonmises",
		proposal: "cauchy",
		kappa:    1,
		n:        500,
		std:      1,
		seed:     42,
		rng:      "mt19937",
		kappas:   "0,1,4",
		workers:  2,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestParseKappas(t *testing.T) {
	kappas, err := parseKappas(" 0, 0.5 ,2,")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 2}, kappas)

	_, err = parseKappas("1,x")
	assert.Error(t, err)
	_, err = parseKappas(" , ")
	assert.Error(t, err)
}

func TestSaveCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, saveCSV(&buf, []string{"a", "b"}, [][]float64{{1, 0.1}, {-math.Pi, 2.5e-10}}))
	assert.Equal(t, "a,b\n1,0.1\n-3.141592653589793,2.5e-10\n", buf.String())
}

func TestRun_WritesSamples(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions()
	opts.output = filepath.Join(dir, "samples.csv")
	opts.plot = filepath.Join(dir, "samples.png")

	require.NoError(t, run(opts, zap.NewNop().Sugar()))

	want, err := vonmises.VonMisesCauchy(vonmises.NewSource(42), 0, 1, opts.n)
	require.NoError(t, err)

	records := readCSV(t, opts.output)
	require.Len(t, records, opts.n)
	for i, rec := range records {
		x, err := strconv.ParseFloat(rec[0], 64)
		require.NoError(t, err)
		assert.Equal(t, want[i], x)
	}

	info, err := os.Stat(opts.plot)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRun_Acceptance(t *testing.T) {
	opts := testOptions()
	opts.dist = "acceptance"
	opts.output = filepath.Join(t.TempDir(), "rates.csv")

	require.NoError(t, run(opts, zap.NewNop().Sugar()))

	records := readCSV(t, opts.output)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"kappa", "uniform", "cauchy"}, records[0])
	assert.Equal(t, []string{"0", "100", "100"}, records[1])
}

func TestRun_AcceptanceUsesSelectedSource(t *testing.T) {
	opts := testOptions()
	opts.dist = "acceptance"
	opts.rng = "tau"
	opts.kappas = "2"
	opts.output = filepath.Join(t.TempDir(), "rates.csv")

	require.NoError(t, run(opts, zap.NewNop().Sugar()))

	src, closeSrc, err := openSource(opts)
	require.NoError(t, err)
	defer closeSrc()
	uniform, err := vonmises.UniformAcceptanceRate(src, 2, opts.n)
	require.NoError(t, err)
	cauchy, err := vonmises.CauchyAcceptanceRate(src, 2, opts.n)
	require.NoError(t, err)

	records := readCSV(t, opts.output)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"2",
		strconv.FormatFloat(uniform, 'g', -1, 64),
		strconv.FormatFloat(cauchy, 'g', -1, 64),
	}, records[1])
}

func TestRun_Errors(t *testing.T) {
	for name, mutate := range map[string]func(*options){
		"dist":     func(o *options) { o.dist = "gamma" },
		"proposal": func(o *options) { o.proposal = "gauss" },
		"rng":      func(o *options) { o.rng = "dice" },
		"kappa":    func(o *options) { o.kappa = -1 },
		"n":        func(o *options) { o.n = 0 },
		"serial":   func(o *options) { o.rng = "serial" },
		"kappas":   func(o *options) { o.dist = "acceptance"; o.kappas = "1,-2" },
	} {
		t.Run(name, func(t *testing.T) {
			opts := testOptions()
			opts.output = filepath.Join(t.TempDir(), "out.csv")
			mutate(&opts)
			assert.Error(t, run(opts, zap.NewNop().Sugar()))
		})
	}
}

func TestSample_Sources(t *testing.T) {
	for _, rng := range []string{"mt19937", "mt19937-64", "tau"} {
		opts := testOptions()
		opts.rng = rng
		for _, dist := range []string{"vonmises", "wrapped-cauchy", "normal"} {
			opts.dist = dist
			src, closeSrc, err := openSource(opts)
			require.NoError(t, err)
			xs, err := sample(opts, src)
			closeSrc()
			require.NoError(t, err, "%s/%s", rng, dist)
			assert.Len(t, xs, opts.n)
		}
	}
}

func TestCheck(t *testing.T) {
	opts := testOptions()
	opts.kappa = 0
	xs, err := sample(opts, vonmises.NewSource(1))
	require.NoError(t, err)
	report, err := check(opts, xs)
	require.NoError(t, err)
	assert.Contains(t, report, "n=500")
	assert.Contains(t, report, "KS vs uniform")

	opts.kappa = 2
	xs, err = sample(opts, vonmises.NewSource(2))
	require.NoError(t, err)
	report, err = check(opts, xs)
	require.NoError(t, err)
	assert.Contains(t, report, "chi-squared vs density")
	assert.Contains(t, report, "mean direction")

	// exp(kappa) overflows here; the check works on the rescaled density.
	opts.kappa = 800
	xs, err = sample(opts, vonmises.NewSource(3))
	require.NoError(t, err)
	report, err = check(opts, xs)
	require.NoError(t, err)
	assert.Contains(t, report, "chi-squared vs density")
}

func TestVonMisesShape(t *testing.T) {
	shape := vonMisesShape(0.5, 1000)
	assert.Equal(t, 1.0, shape(0.5))
	assert.Equal(t, 0.0, shape(4))
	assert.InDelta(t, vonmises.Density(1, 0.5, 2)/math.Exp(2), vonMisesShape(0.5, 2)(1), 1e-15)
}
