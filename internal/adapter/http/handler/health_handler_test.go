package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oppsight/analysis-api/internal/infrastructure/config"
)

func configuredAzure() config.AzureConfig {
	return config.AzureConfig{
		Endpoint:        "https://example.openai.azure.com",
		SubscriptionKey: "key",
		DeploymentID:    "gpt-4o",
	}
}

func TestHealthHandler_Health(t *testing.T) {
	t.Run("reports healthy with a configured gateway", func(t *testing.T) {
		router := gin.New()
		router.GET("/health", NewHealthHandler(configuredAzure()).Health)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "configured", status.Components["gateway"])
		assert.NotEmpty(t, status.Timestamp)
	})

	t.Run("stays healthy but flags a missing gateway", func(t *testing.T) {
		router := gin.New()
		router.GET("/health", NewHealthHandler(config.AzureConfig{}).Health)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "not configured", status.Components["gateway"])
	})
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("ready when the gateway is configured", func(t *testing.T) {
		router := gin.New()
		router.GET("/ready", NewHealthHandler(configuredAzure()).Ready)

		req, _ := http.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not ready without gateway configuration", func(t *testing.T) {
		router := gin.New()
		router.GET("/ready", NewHealthHandler(config.AzureConfig{}).Ready)

		req, _ := http.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
