// Package health provides the public health endpoint plus Kubernetes-style
// liveness and readiness probes.
//
// Checks run on demand when a probe endpoint is hit, each bounded by its own
// timeout. The service additionally carries a manual readiness flag so the
// application can take itself out of rotation during graceful shutdown.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc is a health check function. It should return nil if the checked
// component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Service evaluates liveness and readiness checks for the application.
type Service struct {
	ready atomic.Bool

	// mu protects the check slices; registration happens once at startup,
	// endpoints only read.
	mu              sync.RWMutex
	livenessChecks  []check
	readinessChecks []check
}

// New creates a health Service. It starts not-ready; call SetReady(true)
// once initialization completes.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a check that decides whether the process is
// alive (e.g. goroutine count).
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.livenessChecks = append(s.livenessChecks, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check that decides whether the service can
// accept traffic (e.g. database connectivity).
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readinessChecks = append(s.readinessChecks, check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the manual readiness flag. Set false during graceful
// shutdown to stop receiving new traffic.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// statusResponse is the JSON body for the probe endpoints.
type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthEndpoint serves GET /health for the storefront: a plain availability
// ping that always answers 200 {"status":"OK"} while the process is serving.
func (s *Service) HealthEndpoint(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// LiveEndpoint serves GET /livez: 200 when every liveness check passes,
// 503 with per-check failures otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checks := s.livenessChecks
	s.mu.RUnlock()

	writeProbe(w, runChecks(r.Context(), checks))
}

// ReadyEndpoint serves GET /readyz: 200 when the service has been marked
// ready and every readiness check passes.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checks := s.readinessChecks
	s.mu.RUnlock()

	failures := runChecks(r.Context(), checks)
	if !s.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeProbe(w, failures)
}

// runChecks executes each check with its timeout and collects failures by
// check name.
func runChecks(ctx context.Context, checks []check) map[string]string {
	failures := make(map[string]string)
	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.fn(checkCtx)
		cancel()
		if err != nil {
			failures[c.name] = err.Error()
		}
	}
	return failures
}

func writeProbe(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	status := http.StatusOK
	if len(failures) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failures
		status = http.StatusServiceUnavailable
	}

	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
