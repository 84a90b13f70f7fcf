package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Pinger is a dependency that can report reachability.
type Pinger func(ctx context.Context) error

// HealthChecker probes the configured dependencies
type HealthChecker struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthChecker creates a health checker with a per-probe timeout.
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]Pinger),
		timeout: timeout,
	}
}

// Register adds a named dependency probe.
func (h *HealthChecker) Register(name string, ping Pinger) {
	h.checks[name] = ping
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Handler reports 200 when every dependency answers, 503 otherwise.
func (h *HealthChecker) Handler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := StatusHealthy
	code := http.StatusOK
	deps := make(map[string]DependencyStatus, len(h.checks))

	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			deps[name] = DependencyStatus{Status: StatusUnhealthy, Message: err.Error()}
			status = StatusUnhealthy
			code = http.StatusServiceUnavailable
			continue
		}
		deps[name] = DependencyStatus{Status: StatusHealthy}
	}

	c.JSON(code, gin.H{
		"status":       status,
		"timestamp":    time.Now().UTC(),
		"dependencies": deps,
	})
}
