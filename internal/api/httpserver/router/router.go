// Package router assembles the HTTP routes and middleware chain.
package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codex-template/service-template/internal/config"
	apperr "github.com/codex-template/service-template/internal/errors"
	"github.com/codex-template/service-template/internal/metrics"
	"github.com/codex-template/service-template/internal/middleware"
	"github.com/codex-template/service-template/internal/services/health"
	"github.com/codex-template/service-template/pkg/logger"
)

// serviceName labels metrics emitted by this router.
const serviceName = "server"

// Production rate limit per client: sustained requests per second and burst.
const (
	rateLimitPerSecond = 100
	rateLimitBurst     = 200
)

// New builds the service router: root and health endpoints always, metrics
// and docs endpoints behind their feature flags, wrapped in recovery,
// tracing, metrics and CORS middleware.
func New(cfg *config.Config, log *logger.Logger, healthSvc *health.Service, m *metrics.Metrics) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.Tracing(log))
	if cfg.Features.EnableMetrics {
		r.Use(middleware.Metrics(serviceName, m))
	}
	if cfg.IsProduction() {
		r.Use(middleware.NewRateLimiter(rateLimitPerSecond, rateLimitBurst, log).Middleware())
	}

	h := &handler{cfg: cfg, health: healthSvc}
	r.HandleFunc("/", h.root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.healthCheck).Methods(http.MethodGet)
	if cfg.Features.EnableMetrics {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	if cfg.Features.EnableDocs {
		r.HandleFunc("/docs", h.docs).Methods(http.MethodGet)
	}
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// CORS wraps the whole router so preflight requests and 404s are
	// answered too; mux middleware only runs on matched routes.
	return middleware.CORS(cfg.CORS.Origins)(r)
}

type handler struct {
	cfg    *config.Config
	health *health.Service
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	docs := "disabled"
	if h.cfg.Features.EnableDocs {
		docs = "/docs"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Welcome to %s", h.cfg.App.Name),
		"version": h.cfg.App.Version,
		"docs":    docs,
	})
}

func (h *handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := h.health.Report(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// docs serves a minimal machine-readable route index. A scaffold has no
// schema to render; consumers replace this with their API documentation.
func (h *handler) docs(w http.ResponseWriter, r *http.Request) {
	routes := []map[string]string{
		{"method": http.MethodGet, "path": "/", "description": "Welcome payload"},
		{"method": http.MethodGet, "path": "/health", "description": "Health report"},
	}
	if h.cfg.Features.EnableMetrics {
		routes = append(routes, map[string]string{
			"method": http.MethodGet, "path": "/metrics", "description": "Prometheus metrics",
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"title":      h.cfg.App.Name,
		"version":    h.cfg.App.Version,
		"api_prefix": h.cfg.App.APIPrefix,
		"routes":     routes,
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, apperr.NotFound("route"))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error":   "MethodNotAllowed",
		"message": fmt.Sprintf("method %s not allowed", r.Method),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	svcErr := apperr.GetServiceError(err)
	writeJSON(w, svcErr.HTTPStatus, svcErr)
}
