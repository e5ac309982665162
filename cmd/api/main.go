package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/oppsight/analysis-api/internal/adapter/client"
	"github.com/oppsight/analysis-api/internal/adapter/http/router"
	"github.com/oppsight/analysis-api/internal/infrastructure/config"
	"github.com/oppsight/analysis-api/internal/infrastructure/logger"
	"github.com/oppsight/analysis-api/internal/infrastructure/metrics"
	"github.com/oppsight/analysis-api/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	if !cfg.Azure.Configured() {
		log.Warn("Azure OpenAI gateway not configured; analyze requests will fail until OPPSIGHT_AZURE_* is set")
	}

	// Build the pipeline: gateway client, metrics, analysis usecase
	gateway := client.NewAzureOpenAI(cfg.Azure)
	pipelineMetrics := metrics.New(prometheus.DefaultRegisterer)
	analysisUC := usecase.NewAnalysisUsecase(gateway, cfg.Analysis, pipelineMetrics, log)

	// Setup router
	r := router.Setup(cfg, analysisUC, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}
