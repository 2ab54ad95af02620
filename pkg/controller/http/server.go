package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/EngrShabir135/koboimg/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates the interactive shell: upload form, run progress and
// artifact downloads.
func NewServer(
	ctx context.Context,
	pipelineUC interfaces.PipelineUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:8080",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// Interactive pipeline flow
	runHandler, err := NewRunHandler(pipelineUC, NewRunStore())
	if err != nil {
		return nil, err
	}
	router.Get("/", runHandler.Index)
	router.Post("/runs", runHandler.Create)
	router.Get("/runs/{id}", runHandler.Show)
	router.Get("/runs/{id}/status", runHandler.Status)
	router.Get("/runs/{id}/archive", runHandler.Archive)
	router.Get("/runs/{id}/failures", runHandler.Failures)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
