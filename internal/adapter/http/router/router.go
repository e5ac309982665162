package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oppsight/analysis-api/internal/adapter/http/handler"
	"github.com/oppsight/analysis-api/internal/adapter/http/middleware"
	"github.com/oppsight/analysis-api/internal/infrastructure/config"
	"github.com/oppsight/analysis-api/internal/usecase"
)

// Setup creates and configures the Gin router
func Setup(cfg *config.Config, analysisUC usecase.AnalysisUsecase, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(cfg.Azure)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Analysis endpoints
	analysisHandler := handler.NewAnalysisHandler(analysisUC)
	router.GET("/", analysisHandler.Root)
	router.GET("/opportunity-types", analysisHandler.OpportunityTypes)
	router.POST("/analyze-opportunities", analysisHandler.Analyze)

	return router
}
