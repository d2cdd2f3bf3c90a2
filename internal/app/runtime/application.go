// Package runtime wires the application: configuration, logging, health
// probes, router and HTTP server, with a managed lifecycle.
package runtime

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/codex-template/service-template/internal/api/httpserver"
	"github.com/codex-template/service-template/internal/api/httpserver/router"
	"github.com/codex-template/service-template/internal/config"
	"github.com/codex-template/service-template/internal/metrics"
	"github.com/codex-template/service-template/internal/services/health"
	"github.com/codex-template/service-template/pkg/logger"
)

// metricsNamespace prefixes every Prometheus collector.
const metricsNamespace = "codex_template"

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg        *config.Config
	log        *logger.Logger
	httpServer *httpserver.Server
	handler    http.Handler
	healthSvc  *health.Service
	metrics    *metrics.Metrics
	db         *sqlx.DB
	redis      *redis.Client
}

// NewApplication constructs an application from the process environment,
// using the cached configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig constructs an application around an explicitly
// injected configuration. Optional dependency probes are registered only
// for the collaborators the configuration names; a dependency being down
// degrades /health but never blocks startup.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	log := logger.New(logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	healthSvc := health.NewService(cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	app := &Application{
		cfg:       cfg,
		log:       log,
		healthSvc: healthSvc,
		metrics:   metrics.New(metricsNamespace),
	}

	if cfg.Database.URL != "" {
		db, err := sqlx.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		app.db = db
		healthSvc.Register(health.DatabaseChecker(db))
	}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		app.redis = redis.NewClient(opts)
		healthSvc.Register(health.RedisChecker(app.redis))
	}

	app.handler = router.New(cfg, log, healthSvc, app.metrics)
	app.httpServer = httpserver.New(cfg.Server, log, app.handler)

	return app, nil
}

// Handler exposes the router, primarily for tests exercising the HTTP
// surface without a listener.
func (a *Application) Handler() http.Handler { return a.handler }

// Health exposes the health service so callers can register extra probes.
func (a *Application) Health() *health.Service { return a.healthSvc }

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.log.Infof("%s listening on %s (environment=%s)",
			a.cfg.App.Name, a.cfg.Addr(), a.cfg.App.Environment)
		if err := a.httpServer.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server and closes dependency clients.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("error closing redis connection")
		}
	}

	a.log.Infof("shutdown complete")
	return nil
}
