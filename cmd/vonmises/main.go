// Command vonmises draws samples from circular distributions, estimates
// acceptance rates and serves both over HTTP.
package main

import (
	"flag"
	"fmt"
	"math"
	mrand "math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mathext/prng"

	"github.com/nozzle/vonmises"
	"github.com/nozzle/vonmises/internal/plot"
	"github.com/nozzle/vonmises/internal/rand"
	"github.com/nozzle/vonmises/server"
)

type options struct {
	dist     string
	proposal string
	mu       float64
	kappa    float64
	n        int
	mean     float64
	std      float64

	seed   uint
	rng    string
	serial rand.SerialConfig

	maxRounds int
	output    string
	plot      string
	check     bool
	kappas    string
	workers   int
	serve     string
}

func main() {
	// Parse command-line flags
	var opts options
	flag.StringVar(&opts.dist, "dist", "vonmises", "Distribution: vonmises, wrapped-cauchy, normal or acceptance")
	flag.StringVar(&opts.proposal, "proposal", "cauchy", "Von Mises proposal: uniform or cauchy")
	flag.Float64Var(&opts.mu, "mu", 0, "Location on the circle")
	flag.Float64Var(&opts.kappa, "kappa", 1, "Concentration")
	flag.IntVar(&opts.n, "n", 10000, "Number of samples (candidates for -dist acceptance)")
	flag.Float64Var(&opts.mean, "mean", 0, "Mean of the normal distribution")
	flag.Float64Var(&opts.std, "std", 1, "Standard deviation of the normal distribution")
	flag.UintVar(&opts.seed, "seed", 42, "Random seed")
	flag.StringVar(&opts.rng, "rng", "mt19937", "Uniform source: mt19937, mt19937-64, tau or serial")
	flag.StringVar(&opts.serial.Device, "serial-device", "/dev/ttyACM0", "Serial TRNG device for -rng serial")
	flag.IntVar(&opts.serial.Baud, "serial-baud", 300, "Serial TRNG baud rate")
	flag.DurationVar(&opts.serial.ReadTimeout, "serial-timeout", 5*time.Second, "Serial TRNG read timeout")
	flag.IntVar(&opts.maxRounds, "max-rounds", 0, "Cap on rejection rounds (0 = unbounded)")
	flag.StringVar(&opts.output, "output", "", "Output CSV file (default stdout)")
	flag.StringVar(&opts.plot, "plot", "", "Write a PNG histogram to this file")
	flag.BoolVar(&opts.check, "check", false, "Print summary statistics and a goodness-of-fit test")
	flag.StringVar(&opts.kappas, "kappas", "0,0.5,1,2,4,8,16,32", "Concentrations for -dist acceptance")
	flag.IntVar(&opts.workers, "workers", 0, "Workers for -dist acceptance (0 = one per CPU)")
	flag.StringVar(&opts.serve, "serve", "", "Serve the samplers over HTTP on this address instead")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if err := run(opts, log); err != nil {
		log.Errorw("vonmises failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(opts options, log *zap.SugaredLogger) error {
	src, closeSrc, err := openSource(opts)
	if err != nil {
		return err
	}
	defer closeSrc()

	if opts.serve != "" {
		gin.SetMode(gin.ReleaseMode)
		config := server.DefaultConfig()
		config.Addr = opts.serve
		config.APIKey = os.Getenv("VONMISES_API_KEY")
		if opts.maxRounds > 0 {
			config.MaxRounds = opts.maxRounds
		}
		log.Infow("serving", "addr", config.Addr, "rng", opts.rng)
		return server.New(config, src, log).Run()
	}

	if opts.dist == "acceptance" {
		return runAcceptance(opts, src, log)
	}

	xs, err := sample(opts, src)
	if err != nil {
		return err
	}
	if e, ok := src.(interface{ Err() error }); ok && e.Err() != nil {
		return errors.Wrap(e.Err(), "uniform source failed")
	}
	log.Debugw("sampled", "dist", opts.dist, "n", len(xs))

	if err := writeOutput(opts.output, xs); err != nil {
		return errors.Wrap(err, "saving output")
	}
	if opts.output != "" {
		log.Infow("saved samples", "file", opts.output, "n", len(xs))
	}

	if opts.plot != "" {
		if err := plot.Save(opts.plot, xs, plotOptions(opts)); err != nil {
			return errors.Wrap(err, "saving plot")
		}
		log.Infow("saved plot", "file", opts.plot)
	}

	if opts.check {
		report, err := check(opts, xs)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stderr, report)
	}
	return nil
}

// openSource returns the uniform source named by -rng and a function that
// releases it.
func openSource(opts options) (vonmises.Source, func(), error) {
	switch opts.rng {
	case "mt19937":
		return vonmises.NewSource(uint32(opts.seed)), func() {}, nil
	case "mt19937-64":
		mt := prng.NewMT19937_64()
		mt.Seed(uint64(opts.seed))
		return mrand.New(mt), func() {}, nil
	case "tau":
		return rand.NewTau(int64(opts.seed)), func() {}, nil
	case "serial":
		s, err := rand.OpenSerial(opts.serial)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return nil, nil, errors.Errorf("unknown rng %q", opts.rng)
}

func sample(opts options, src vonmises.Source) ([]float64, error) {
	proposal, err := vonmises.ParseProposal(opts.proposal)
	if err != nil {
		return nil, err
	}
	sampler := vonmises.New(vonmises.Config{
		Mu:        opts.mu,
		Kappa:     opts.kappa,
		Proposal:  proposal,
		MaxRounds: opts.maxRounds,
	}, src)

	switch opts.dist {
	case "vonmises":
		return sampler.Sample(opts.n)
	case "wrapped-cauchy":
		return sampler.WrappedCauchy(opts.n)
	case "normal":
		return sampler.Normal(opts.mean, opts.std, opts.n)
	}
	return nil, errors.Errorf("unknown distribution %q", opts.dist)
}

// runAcceptance prints one "kappa,uniform,cauchy" row per concentration.
// With the default MT19937 source the grid runs in parallel, one seeded
// generator per point; any other source is drawn from sequentially.
func runAcceptance(opts options, src vonmises.Source, log *zap.SugaredLogger) error {
	kappas, err := parseKappas(opts.kappas)
	if err != nil {
		return err
	}

	var uniform, cauchy []float64
	if opts.rng == "mt19937" {
		uniform, err = vonmises.AcceptanceCurve(vonmises.UniformProposal, kappas, opts.n, uint32(opts.seed), opts.workers)
		if err != nil {
			return err
		}
		cauchy, err = vonmises.AcceptanceCurve(vonmises.CauchyProposal, kappas, opts.n, uint32(opts.seed), opts.workers)
		if err != nil {
			return err
		}
	} else {
		uniform, cauchy, err = acceptanceOn(src, kappas, opts.n)
		if err != nil {
			return err
		}
	}
	log.Debugw("acceptance curve", "points", len(kappas), "n", opts.n, "rng", opts.rng)

	rows := make([][]float64, len(kappas))
	for i, k := range kappas {
		rows[i] = []float64{k, uniform[i], cauchy[i]}
	}
	return errors.Wrap(writeRows(opts.output, []string{"kappa", "uniform", "cauchy"}, rows), "saving output")
}

func acceptanceOn(src vonmises.Source, kappas []float64, n int) (uniform, cauchy []float64, err error) {
	uniform = make([]float64, len(kappas))
	cauchy = make([]float64, len(kappas))
	for i, k := range kappas {
		if uniform[i], err = vonmises.UniformAcceptanceRate(src, k, n); err != nil {
			return nil, nil, err
		}
		if cauchy[i], err = vonmises.CauchyAcceptanceRate(src, k, n); err != nil {
			return nil, nil, err
		}
	}
	if e, ok := src.(interface{ Err() error }); ok && e.Err() != nil {
		return nil, nil, errors.Wrap(e.Err(), "uniform source failed")
	}
	return uniform, cauchy, nil
}

func parseKappas(s string) ([]float64, error) {
	var kappas []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		k, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Errorf("invalid kappa %q", field)
		}
		kappas = append(kappas, k)
	}
	if len(kappas) == 0 {
		return nil, errors.New("no kappas given")
	}
	return kappas, nil
}

func plotOptions(opts options) plot.Options {
	po := plot.DefaultOptions()
	switch opts.dist {
	case "vonmises":
		po.Title = fmt.Sprintf("von Mises (mu=%g, kappa=%g, %s proposal)", opts.mu, opts.kappa, opts.proposal)
		po.Density = vonMisesShape(opts.mu, opts.kappa)
		po.Lo, po.Hi = -math.Pi, math.Pi
	case "wrapped-cauchy":
		po.Title = fmt.Sprintf("wrapped Cauchy (mu=%g, kappa=%g)", opts.mu, opts.kappa)
	case "normal":
		po.Title = fmt.Sprintf("normal (mean=%g, std=%g)", opts.mean, opts.std)
		po.Density = func(x float64) float64 {
			z := (x - opts.mean) / opts.std
			return math.Exp(-z * z / 2)
		}
		po.Lo, po.Hi = opts.mean-6*opts.std, opts.mean+6*opts.std
	}
	return po
}
