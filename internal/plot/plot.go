// Package plot renders samples as histograms with gonum/plot.
package plot

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/nozzle/vonmises/internal/stats"
)

// Options configures a histogram plot.
type Options struct {
	// Title is drawn above the plot
	Title string
	// Bins is the number of histogram bins
	Bins int
	// Width and Height of the output image
	Width, Height vg.Length
	// Density, if set, is drawn over the histogram scaled to unit area on [Lo, Hi].
	// It need not be normalized.
	Density func(x float64) float64
	// Lo and Hi bound the density overlay
	Lo, Hi float64
}

// DefaultOptions returns the options used by the CLI: 200 bins, 8x5 inches.
func DefaultOptions() Options {
	return Options{
		Bins:   200,
		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
	}
}

// New builds a plot of xs as a histogram normalized to unit area.
func New(xs []float64, opts Options) (*plot.Plot, error) {
	if len(xs) == 0 {
		return nil, errors.New("nothing to plot")
	}
	if opts.Bins <= 0 {
		return nil, errors.Errorf("bins must be positive, got %d", opts.Bins)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "density"

	hist, err := plotter.NewHist(plotter.Values(xs), opts.Bins)
	if err != nil {
		return nil, errors.Wrap(err, "building histogram")
	}
	hist.Normalize(1)
	hist.FillColor = color.Gray{Y: 128}
	p.Add(hist)

	if opts.Density != nil {
		if !(opts.Hi > opts.Lo) {
			return nil, errors.Errorf("empty density range [%v, %v]", opts.Lo, opts.Hi)
		}
		total := stats.Integral(opts.Density, opts.Lo, opts.Hi)
		if !(total > 0) {
			return nil, errors.New("density has no mass on the plotted range")
		}
		fn := plotter.NewFunction(func(x float64) float64 { return opts.Density(x) / total })
		fn.XMin, fn.XMax = opts.Lo, opts.Hi
		fn.Samples = 400
		fn.Width = vg.Points(2)
		fn.Color = color.RGBA{R: 200, A: 255}
		p.Add(fn)
	}
	return p, nil
}

// Save renders xs to path. The format follows the file extension
// (.png, .svg, .pdf, ...).
func Save(path string, xs []float64, opts Options) error {
	p, err := New(xs, opts)
	if err != nil {
		return err
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}
