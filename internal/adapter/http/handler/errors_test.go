package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oppsight/analysis-api/internal/usecase"
)

func TestMapUsecaseError(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
		expectedCode       string
	}{
		{
			name:               "invalid request",
			err:                usecase.ErrInvalidRequest,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       "INVALID_REQUEST",
		},
		{
			name:               "wrapped invalid request",
			err:                fmt.Errorf("%w: no opportunities provided", usecase.ErrInvalidRequest),
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       "INVALID_REQUEST",
		},
		{
			name:               "upstream auth failure",
			err:                usecase.ErrUpstreamAuth,
			expectedStatusCode: http.StatusBadGateway,
			expectedCode:       "UPSTREAM_AUTH",
		},
		{
			name:               "deadline exceeded",
			err:                context.DeadlineExceeded,
			expectedStatusCode: http.StatusGatewayTimeout,
			expectedCode:       "GATEWAY_TIMEOUT",
		},
		{
			name:               "unknown error",
			err:                errors.New("some unknown error"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapUsecaseError(tt.err)

			assert.Equal(t, tt.expectedStatusCode, result.StatusCode)
			assert.Equal(t, tt.expectedCode, result.Code)
			assert.NotEmpty(t, result.Message)
		})
	}
}

func TestHandleUsecaseError(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
	}{
		{name: "invalid request", err: usecase.ErrInvalidRequest, expectedStatusCode: http.StatusBadRequest},
		{name: "upstream auth", err: usecase.ErrUpstreamAuth, expectedStatusCode: http.StatusBadGateway},
		{name: "unknown", err: errors.New("boom"), expectedStatusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/test", func(c *gin.Context) {
				HandleUsecaseError(c, tt.err)
			})

			req, _ := http.NewRequest("GET", "/test", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatusCode, w.Code)
		})
	}
}

func TestHandleInvalidRequest(t *testing.T) {
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		HandleInvalidRequest(c, "missing field opportunities")
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing field opportunities")
}
