package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DependencyChecker reports whether a backing dependency is reachable.
type DependencyChecker func(ctx context.Context) error

// HealthHandler handles health and readiness check requests.
type HealthHandler struct {
	version string
	checks  map[string]DependencyChecker
}

// NewHealthHandler creates a HealthHandler that reports the given version.
// Named dependency checks are consulted by ReadinessCheck.
func NewHealthHandler(version string, checks map[string]DependencyChecker) *HealthHandler {
	return &HealthHandler{
		version: version,
		checks:  checks,
	}
}

// HealthCheck returns service health status.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck pings each backing dependency and reports per-dependency
// status. Any failing dependency makes the service not ready.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ready := true
	deps := gin.H{}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			ready = false
			deps[name] = gin.H{"status": "down", "error": err.Error()}
			continue
		}

		deps[name] = gin.H{"status": "up"}
	}

	status := http.StatusOK
	state := "ready"

	if !ready {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}

	c.JSON(status, gin.H{
		"status":       state,
		"version":      h.version,
		"dependencies": deps,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}
