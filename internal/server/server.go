// Package server exposes extraction over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/caselens/internal/logging"
	"github.com/ppiankov/caselens/internal/metrics"
	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/worker"
)

// Extractor is the extraction entry point. *pipeline.Controller satisfies it.
type Extractor interface {
	Extract(ctx context.Context, req model.ExtractionRequest) (*model.ExtractionResponse, error)
}

// Server is the caselens HTTP API.
type Server struct {
	cfg          model.ServerConfig
	extractor    Extractor
	logger       logging.Logger
	metrics      *metrics.Metrics
	version      string
	aiProvider   string
	aiCheck      func(context.Context) bool
	maxBodyBytes int64
	engine       *gin.Engine
}

type Option func(*Server)

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics serves m on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithAIProvider names the configured AI provider in /healthz.
func WithAIProvider(name string) Option {
	return func(s *Server) { s.aiProvider = name }
}

// WithAICheck adds the result of check to /healthz as ai_available.
func WithAICheck(check func(context.Context) bool) Option {
	return func(s *Server) { s.aiCheck = check }
}

// WithMaxBodyBytes bounds request bodies; the default is 8 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// New builds the router.
func New(cfg model.ServerConfig, extractor Extractor, opts ...Option) *Server {
	s := &Server{
		cfg:          cfg,
		extractor:    extractor,
		version:      "dev",
		maxBodyBytes: 8 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger).Named("server")

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogging(s.logger, "/healthz", "/metrics"))
	if cfg.ClientRequestsPerSecond > 0 {
		engine.Use(clientRateLimit(worker.NewLimiter(cfg.ClientRequestsPerSecond, cfg.ClientBurst), "/healthz", "/metrics"))
	}

	engine.POST("/api/extract", s.handleExtract)
	engine.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	s.engine = engine
	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", logging.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
