// Package server exposes the interpreter over HTTP.
//
// # Routes
//
//	POST /v1/interpret              interpret a source, returns the result JSON
//	POST /v1/render?format=svg      interpret and render, returns the artifact
//	GET  /v1/interpretations        list saved interpretations (?limit=N)
//	GET  /v1/interpretations/{id}   fetch one saved interpretation
//	GET  /healthz                   liveness probe
//
// Request bodies are JSON ({"source": "..."}) or, with a text/plain content
// type, the raw source. A source that fails to interpret is not an HTTP
// error: the response is 200 with an error-form result. Requests that
// cannot be served at all (empty source, bad format, unknown ID) use the
// status from [errors.HTTPStatus] and an {"error": {...}} body.
//
// [errors.HTTPStatus]: github.com/matzehuels/layoutdsl/pkg/errors.HTTPStatus
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layoutdsl/pkg/pipeline"
	"github.com/matzehuels/layoutdsl/pkg/store"
)

// Default server settings.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Config configures the HTTP server.
type Config struct {
	Addr         string        `toml:"addr"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string `toml:"allowed_origins"`
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// Server is the layoutdsl HTTP API.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a server. A nil store disables the interpretation history
// routes; a nil logger uses log.Default().
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	h := &handler{
		runner:       runner,
		store:        st,
		logger:       logger,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      newRouter(h, cfg.AllowedOrigins),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
