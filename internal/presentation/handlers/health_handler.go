package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Health states reported by /health
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthChecker defines the interface for health checking components
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependency is an optional component. Its failure degrades the service
// but does not make it unhealthy.
type Dependency struct {
	Name    string
	Checker HealthChecker
}

type healthCheck struct {
	name     string
	checker  HealthChecker
	critical bool
}

// HealthHandler serves the health, readiness and liveness probes
type HealthHandler struct {
	checks []healthCheck
}

// NewHealthHandler creates a health handler around the database and any
// optional dependencies. Dependencies with a nil checker are skipped.
func NewHealthHandler(db HealthChecker, deps ...Dependency) *HealthHandler {
	h := &HealthHandler{
		checks: []healthCheck{{name: "database", checker: db, critical: true}},
	}
	for _, d := range deps {
		if d.Checker != nil {
			h.checks = append(h.checks, healthCheck{name: d.Name, checker: d.Checker})
		}
	}
	return h
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

type checkResult struct {
	check healthCheck
	err   error
}

// run executes the checks concurrently so one slow dependency does not
// delay the others
func (h *HealthHandler) run(ctx context.Context, criticalOnly bool) []checkResult {
	results := make([]checkResult, 0, len(h.checks))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range h.checks {
		if criticalOnly && !c.critical {
			continue
		}
		wg.Add(1)
		go func(c healthCheck) {
			defer wg.Done()
			err := c.checker.HealthCheck(ctx)
			mu.Lock()
			results = append(results, checkResult{check: c, err: err})
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return results
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, len(h.checks)),
	}

	for _, res := range h.run(ctx, false) {
		if res.err == nil {
			response.Services[res.check.name] = StatusHealthy
			continue
		}
		response.Services[res.check.name] = StatusUnhealthy + ": " + res.err.Error()
		switch {
		case res.check.critical:
			response.Status = StatusUnhealthy
		case response.Status == StatusHealthy:
			response.Status = StatusDegraded
		}
	}

	status := http.StatusOK
	if response.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, response)
}

// Ready handles GET /ready. Only critical checks gate readiness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, res := range h.run(ctx, true) {
		if res.err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// Live handles GET /live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}
