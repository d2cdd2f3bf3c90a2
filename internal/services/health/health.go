// Package health reports service liveness. The service aggregates named
// dependency probes into a single report; an empty probe set means the
// process itself being up is the only condition.
package health

import (
	"context"
	"sync"
	"time"
)

// Status is the reported health state.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// checkTimeout bounds each probe so a hung dependency cannot stall /health.
const checkTimeout = 3 * time.Second

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc struct {
	CheckerName string
	Fn          func(ctx context.Context) error
}

func (c CheckerFunc) Name() string                    { return c.CheckerName }
func (c CheckerFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report is the aggregate health payload served on /health.
type Report struct {
	Status      Status                 `json:"status"`
	AppName     string                 `json:"app_name"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks,omitempty"`
}

// Healthy reports whether every probe passed.
func (r Report) Healthy() bool { return r.Status == StatusHealthy }

// Service aggregates dependency probes.
type Service struct {
	appName     string
	version     string
	environment string

	mu       sync.RWMutex
	checkers []Checker
}

// NewService creates a health service identifying the application instance.
func NewService(appName, version, environment string) *Service {
	return &Service{appName: appName, version: version, environment: environment}
}

// Register adds a dependency probe.
func (s *Service) Register(c Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers = append(s.checkers, c)
}

// Report runs every registered probe and aggregates the results. Any probe
// failure degrades the overall status to unhealthy.
func (s *Service) Report(ctx context.Context) Report {
	s.mu.RLock()
	checkers := make([]Checker, len(s.checkers))
	copy(checkers, s.checkers)
	s.mu.RUnlock()

	report := Report{
		Status:      StatusHealthy,
		AppName:     s.appName,
		Version:     s.version,
		Environment: s.environment,
	}

	if len(checkers) == 0 {
		return report
	}

	report.Checks = make(map[string]CheckResult, len(checkers))
	for _, c := range checkers {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.Check(checkCtx)
		cancel()

		if err != nil {
			report.Status = StatusUnhealthy
			report.Checks[c.Name()] = CheckResult{Status: StatusUnhealthy, Error: err.Error()}
			continue
		}
		report.Checks[c.Name()] = CheckResult{Status: StatusHealthy}
	}
	return report
}
