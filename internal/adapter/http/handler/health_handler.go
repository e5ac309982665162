package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oppsight/analysis-api/internal/infrastructure/config"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	azure config.AzureConfig
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(azure config.AzureConfig) *HealthHandler {
	return &HealthHandler{azure: azure}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health. The service holds no state of its own, so
// liveness reduces to the process being up; the gateway configuration is
// reported as a component for operators.
func (h *HealthHandler) Health(c *gin.Context) {
	components := make(map[string]string)
	if h.azure.Configured() {
		components["gateway"] = "configured"
	} else {
		components["gateway"] = "not configured"
	}

	c.JSON(http.StatusOK, HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	})
}

// Ready handles GET /ready. Readiness requires a usable gateway
// configuration; without it every analyze call would fail.
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.azure.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "classification gateway not configured",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
