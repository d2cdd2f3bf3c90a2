// Package httpserver wraps http.Server with the service's listener
// configuration and graceful shutdown.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/codex-template/service-template/internal/config"
	"github.com/codex-template/service-template/pkg/logger"
)

// Server is the HTTP server for the service.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// New builds a server bound to the configured host and port.
func New(cfg config.ServerConfig, log *logger.Logger, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Start runs the server and blocks until it stops. It returns
// http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server, letting in-flight requests finish until the
// context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
