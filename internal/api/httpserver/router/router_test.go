package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codex-template/service-template/internal/config"
	"github.com/codex-template/service-template/internal/metrics"
	"github.com/codex-template/service-template/internal/services/health"
	"github.com/codex-template/service-template/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Test Codex Template",
			Version:     "0.1.0",
			Environment: "development",
			APIPrefix:   "/api/v1",
		},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8000},
		CORS:   config.CORSConfig{Origins: []string{"*"}},
		Logging: config.LoggingConfig{
			Level:  "ERROR",
			Format: "json",
		},
		Features: config.FeatureConfig{EnableDocs: true, EnableMetrics: true},
	}
}

func newTestRouter(cfg *config.Config, healthSvc *health.Service) http.Handler {
	log := logger.New(logger.LoggingConfig{Level: "ERROR", Format: "json"})
	if healthSvc == nil {
		healthSvc = health.NewService(cfg.App.Name, cfg.App.Version, cfg.App.Environment)
	}
	return New(cfg, log, healthSvc, metrics.New("codex_template"))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v (%q)", err, resp.Body.String())
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestRouter(testConfig(), nil)

	resp := get(t, h, "/health")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}

	body := decode(t, resp)
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["app_name"] != "Test Codex Template" || body["version"] != "0.1.0" || body["environment"] != "development" {
		t.Errorf("identity fields wrong: %v", body)
	}
}

func TestHealthEndpointDegraded(t *testing.T) {
	cfg := testConfig()
	healthSvc := health.NewService(cfg.App.Name, cfg.App.Version, cfg.App.Environment)
	healthSvc.Register(health.CheckerFunc{CheckerName: "database", Fn: func(ctx context.Context) error {
		return errors.New("connection refused")
	}})
	h := newTestRouter(cfg, healthSvc)

	resp := get(t, h, "/health")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.Code)
	}
	if body := decode(t, resp); body["status"] != "unhealthy" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestRootEndpoint(t *testing.T) {
	h := newTestRouter(testConfig(), nil)

	resp := get(t, h, "/")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	body := decode(t, resp)
	if body["message"] != "Welcome to Test Codex Template" {
		t.Errorf("message = %v", body["message"])
	}
	if body["docs"] != "/docs" {
		t.Errorf("docs = %v, want /docs", body["docs"])
	}
}

func TestRootReportsDocsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Features.EnableDocs = false
	h := newTestRouter(cfg, nil)

	if body := decode(t, get(t, h, "/")); body["docs"] != "disabled" {
		t.Errorf("docs = %v, want disabled", body["docs"])
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	h := newTestRouter(testConfig(), nil)

	resp := get(t, h, "/nonexistent")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
	if body := decode(t, resp); body["error"] != "NotFoundError" {
		t.Errorf("body = %v", body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(testConfig(), nil)

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/health", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.Code)
	}
}

func TestMetricsEndpointGated(t *testing.T) {
	enabled := newTestRouter(testConfig(), nil)
	if resp := get(t, enabled, "/metrics"); resp.Code != http.StatusOK {
		t.Errorf("metrics enabled: status = %d, want 200", resp.Code)
	}

	cfg := testConfig()
	cfg.Features.EnableMetrics = false
	disabled := newTestRouter(cfg, nil)
	if resp := get(t, disabled, "/metrics"); resp.Code != http.StatusNotFound {
		t.Errorf("metrics disabled: status = %d, want 404", resp.Code)
	}
}

func TestDocsEndpointGated(t *testing.T) {
	enabled := newTestRouter(testConfig(), nil)
	resp := get(t, enabled, "/docs")
	if resp.Code != http.StatusOK {
		t.Fatalf("docs enabled: status = %d", resp.Code)
	}
	if body := decode(t, resp); body["title"] != "Test Codex Template" {
		t.Errorf("docs body = %v", body)
	}

	cfg := testConfig()
	cfg.Features.EnableDocs = false
	disabled := newTestRouter(cfg, nil)
	if resp := get(t, disabled, "/docs"); resp.Code != http.StatusNotFound {
		t.Errorf("docs disabled: status = %d, want 404", resp.Code)
	}
}

func TestProductionRateLimiting(t *testing.T) {
	cfg := testConfig()
	cfg.App.Environment = "production"
	h := newTestRouter(cfg, nil)

	limited := 0
	for i := 0; i < 3*rateLimitBurst; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)
		if resp.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited == 0 {
		t.Error("sustained traffic in production should trip the rate limiter")
	}

	// Development traffic is never limited.
	dev := newTestRouter(testConfig(), nil)
	for i := 0; i < 3*rateLimitBurst; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		dev.ServeHTTP(resp, req)
		if resp.Code == http.StatusTooManyRequests {
			t.Fatal("development traffic must not be rate limited")
		}
	}
}

func TestResponsesCarryTraceID(t *testing.T) {
	h := newTestRouter(testConfig(), nil)

	if resp := get(t, h, "/health"); resp.Header().Get(logger.TraceIDHeader) == "" {
		t.Error("responses should carry a trace ID header")
	}
}

func TestPreflightRequest(t *testing.T) {
	h := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", resp.Code)
	}
	if resp.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight response should list allowed methods")
	}
}

func TestCORSHeadersApplied(t *testing.T) {
	h := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestRequestsAreCounted(t *testing.T) {
	h := newTestRouter(testConfig(), nil)

	get(t, h, "/health")
	resp := get(t, h, "/metrics")

	if body := resp.Body.String(); !strings.Contains(body, `path="/health"`) {
		t.Errorf("health request not visible in metrics:\n%s", body)
	}
}
