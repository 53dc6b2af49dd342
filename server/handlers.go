package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nozzle/vonmises"
	"github.com/nozzle/vonmises/reject"
)

type handlers struct {
	config    Config
	shared    vonmises.Source
	sourceErr func() error
	log       *zap.SugaredLogger
}

func floatQuery(c *gin.Context, name string, def float64) (float64, error) {
	s, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s value %q", name, s)
	}
	return v, nil
}

func (h *handlers) countQuery(c *gin.Context, def int) (int, error) {
	s := c.DefaultQuery("n", strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > h.config.MaxSamples {
		return 0, errors.Errorf("n must be an integer between 1 and %d", h.config.MaxSamples)
	}
	return n, nil
}

// source returns a fresh generator when the request carries a seed and the
// shared source otherwise.
func (h *handlers) source(c *gin.Context) (vonmises.Source, bool, error) {
	s, ok := c.GetQuery("seed")
	if !ok {
		return h.shared, true, nil
	}
	seed, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, false, errors.Errorf("invalid seed value %q", s)
	}
	return vonmises.NewSource(uint32(seed)), false, nil
}

// run executes work and maps its outcome to a response.
func (h *handlers) run(c *gin.Context, shared bool, work func() (string, gin.H, error)) {
	text, payload, err := work()
	if err == nil && shared && h.sourceErr != nil {
		err = h.sourceErr()
		if err != nil {
			h.log.Errorw("uniform source failed", "error", err)
			responder{c}.err(http.StatusInternalServerError, "Error fetching random values.")
			return
		}
	}

	switch {
	case err == nil:
		responder{c}.ok(text, payload)
	case errors.Is(err, vonmises.ErrInvalidArgument):
		responder{c}.err(http.StatusBadRequest, err.Error())
	case errors.Is(err, reject.ErrRoundLimit):
		h.log.Warnw("rejection round limit reached", "path", c.Request.URL.Path, "error", err)
		responder{c}.err(http.StatusServiceUnavailable, "Sampling did not converge.")
	default:
		h.log.Errorw("sampling failed", "path", c.Request.URL.Path, "error", err)
		responder{c}.err(http.StatusInternalServerError, "Sampling failed.")
	}
}

// parse collects query errors so handlers can bail out once.
type parse struct {
	c   *gin.Context
	err error
}

func (p *parse) float(name string, def float64) float64 {
	if p.err != nil {
		return 0
	}
	v, err := floatQuery(p.c, name, def)
	p.err = err
	return v
}

func (h *handlers) vonMises(c *gin.Context) {
	p := &parse{c: c}
	mu := p.float("mu", 0)
	kappa := p.float("kappa", 1)
	if p.err != nil {
		responder{c}.err(http.StatusBadRequest, p.err.Error())
		return
	}
	proposal, err := vonmises.ParseProposal(c.DefaultQuery("proposal", "cauchy"))
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.countQuery(c, 1)
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}
	src, shared, err := h.source(c)
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}

	h.run(c, shared, func() (string, gin.H, error) {
		sampler := vonmises.New(vonmises.Config{
			Mu:        mu,
			Kappa:     kappa,
			Proposal:  proposal,
			MaxRounds: h.config.MaxRounds,
		}, src)
		xs, err := sampler.Sample(n)
		if err != nil {
			return "", nil, err
		}
		return formatValues(xs), gin.H{
			"mu": mu, "kappa": kappa, "proposal": proposal.String(), "n": n, "samples": xs,
		}, nil
	})
}

func (h *handlers) wrappedCauchy(c *gin.Context) {
	p := &parse{c: c}
	mu := p.float("mu", 0)
	kappa := p.float("kappa", 1)
	if p.err != nil {
		responder{c}.err(http.StatusBadRequest, p.err.Error())
		return
	}
	n, err := h.countQuery(c, 1)
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}
	src, shared, err := h.source(c)
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}

	h.run(c, shared, func() (string, gin.H, error) {
		xs, err := vonmises.WrappedCauchy(src, mu, kappa, n)
		if err != nil {
			return "", nil, err
		}
		return formatValues(xs), gin.H{"mu": mu, "kappa": kappa, "n": n, "samples": xs}, nil
	})
}

func (h *handlers) normal(c *gin.Context) {
	p := &parse{c: c}
	mean := p.float("mean", 0)
	std := p.float("std", 1)
	if p.err != nil {
		responder{c}.err(http.StatusBadRequest, p.err.Error())
		return
	}
	n, err := h.countQuery(c, 1)
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}
	src, shared, err := h.source(c)
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}

	h.run(c, shared, func() (string, gin.H, error) {
		sampler := vonmises.New(vonmises.Config{MaxRounds: h.config.MaxRounds}, src)
		xs, err := sampler.Normal(mean, std, n)
		if err != nil {
			return "", nil, err
		}
		return formatValues(xs), gin.H{"mean": mean, "std": std, "n": n, "samples": xs}, nil
	})
}

func (h *handlers) acceptance(c *gin.Context) {
	p := &parse{c: c}
	kappa := p.float("kappa", 1)
	if p.err != nil {
		responder{c}.err(http.StatusBadRequest, p.err.Error())
		return
	}
	proposal, err := vonmises.ParseProposal(c.DefaultQuery("proposal", "cauchy"))
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.countQuery(c, h.config.MaxSamples)
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}
	src, shared, err := h.source(c)
	if err != nil {
		responder{c}.err(http.StatusBadRequest, err.Error())
		return
	}

	h.run(c, shared, func() (string, gin.H, error) {
		sampler := vonmises.New(vonmises.Config{Kappa: kappa, Proposal: proposal}, src)
		rate, err := sampler.AcceptanceRate(n)
		if err != nil {
			return "", nil, err
		}
		return strconv.FormatFloat(rate, 'g', -1, 64), gin.H{
			"kappa": kappa, "proposal": proposal.String(), "n": n, "rate": rate,
		}, nil
	})
}

func (h *handlers) density(c *gin.Context) {
	p := &parse{c: c}
	x := p.float("x", 0)
	mu := p.float("mu", 0)
	kappa := p.float("kappa", 1)
	if p.err != nil {
		responder{c}.err(http.StatusBadRequest, p.err.Error())
		return
	}

	for _, v := range []float64{x, mu, kappa} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			responder{c}.err(http.StatusBadRequest, "x, mu and kappa must be finite")
			return
		}
	}

	d := vonmises.Density(x, mu, kappa)
	if math.IsInf(d, 0) {
		responder{c}.err(http.StatusUnprocessableEntity, "density overflows float64 at this kappa")
		return
	}
	responder{c}.ok(strconv.FormatFloat(d, 'g', -1, 64), gin.H{"x": x, "mu": mu, "kappa": kappa, "density": d})
}

func (h *handlers) health(c *gin.Context) {
	if h.sourceErr != nil {
		if err := h.sourceErr(); err != nil {
			responder{c}.err(http.StatusServiceUnavailable, "UNHEALTHY: "+err.Error())
			return
		}
	}
	responder{c}.ok("OK", gin.H{"ok": true})
}
