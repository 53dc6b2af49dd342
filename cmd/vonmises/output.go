package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nozzle/vonmises/internal/stats"
)

// writeOutput writes one value per row to filename, or to stdout if
// filename is empty.
func writeOutput(filename string, xs []float64) error {
	rows := make([][]float64, len(xs))
	for i, x := range xs {
		rows[i] = []float64{x}
	}
	return writeRows(filename, nil, rows)
}

func writeRows(filename string, header []string, rows [][]float64) error {
	if filename == "" {
		return saveCSV(os.Stdout, header, rows)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := saveCSV(file, header, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// saveCSV writes rows with the shortest representation that round-trips.
func saveCSV(w io.Writer, header []string, rows [][]float64) error {
	writer := csv.NewWriter(w)

	if header != nil {
		if err := writer.Write(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		record := make([]string, len(row))
		for j, val := range row {
			record[j] = strconv.FormatFloat(val, 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

const checkBins = 60

// check summarizes xs and tests it against the distribution it was drawn
// from: KS against uniform for kappa == 0, chi-squared against the density
// otherwise.
func check(opts options, xs []float64) (string, error) {
	var b strings.Builder
	s := stats.Summarize(xs)
	fmt.Fprintf(&b, "n=%d mean=%.6f variance=%.6f min=%.6f max=%.6f\n", s.N, s.Mean, s.Variance, s.Min, s.Max)

	switch opts.dist {
	case "vonmises", "wrapped-cauchy":
		dir, length := stats.MeanDirection(xs)
		fmt.Fprintf(&b, "mean direction=%.6f resultant length=%.6f\n", dir, length)
	}

	switch {
	case opts.dist == "vonmises" && opts.kappa == 0:
		r, err := stats.KSUniform(xs, -math.Pi, math.Pi)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "KS vs uniform: D=%.6f p=%.4f\n", r.Statistic, r.PValue)
	case opts.dist == "vonmises":
		r, err := stats.ChiSquare(xs, vonMisesShape(opts.mu, opts.kappa), -math.Pi, math.Pi, checkBins)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "chi-squared vs density (%d bins): X2=%.4f p=%.4f\n", checkBins, r.Statistic, r.PValue)
	}
	return b.String(), nil
}

// vonMisesShape is the von Mises density divided by exp(kappa). It stays
// finite at any kappa, and the goodness-of-fit and plot code only need the
// density up to a constant.
func vonMisesShape(mu, kappa float64) func(float64) float64 {
	return func(x float64) float64 {
		if !(x >= -math.Pi && x <= math.Pi) {
			return 0
		}
		return math.Exp(kappa * (math.Cos(x-mu) - 1))
	}
}
