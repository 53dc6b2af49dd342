// Package server exposes the samplers over HTTP.
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nozzle/vonmises"
)

// Config configures the HTTP service.
type Config struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string

	// MaxSamples caps n for sampling and acceptance requests.
	// Default: 100000
	MaxSamples int

	// MaxRounds caps rejection rounds per request; a stuck source then
	// fails the request instead of spinning.
	// Default: 10000
	MaxRounds int

	// APIKey, when set, must be sent in the X-API-KEY header.
	// Default: "" (no authentication)
	APIKey string
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		MaxSamples: 100000,
		MaxRounds:  10000,
	}
}

// Server routes sampling requests.
type Server struct {
	config Config
	router *gin.Engine
}

// New creates a Server. Requests without a seed parameter draw from src,
// which is shared between requests under a lock. If src has an
// Err() error method, a non-nil error fails the request.
func New(config Config, src vonmises.Source, log *zap.SugaredLogger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"X-API-KEY", "Accept"},
		AllowAllOrigins:  true,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(checkHeader("X-API-KEY", config.APIKey))

	h := &handlers{
		config: config,
		shared: &lockedSource{src: src},
		log:    log,
	}
	if e, ok := src.(interface{ Err() error }); ok {
		h.sourceErr = e.Err
	}

	router.GET("/vonmises", h.vonMises)
	router.GET("/wrapped-cauchy", h.wrappedCauchy)
	router.GET("/normal", h.normal)
	router.GET("/acceptance", h.acceptance)
	router.GET("/density", h.density)
	router.GET("/health", h.health)

	return &Server{config: config, router: router}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until the server fails.
func (s *Server) Run() error {
	return s.router.Run(s.config.Addr)
}

func checkHeader(name, expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}
		if c.GetHeader(name) != expected {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// lockedSource serializes draws from a shared Source.
type lockedSource struct {
	mu  sync.Mutex
	src vonmises.Source
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
