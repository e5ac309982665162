package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oppsight/analysis-api/internal/domain/entity"
	"github.com/oppsight/analysis-api/internal/usecase"
)

// APIName and APIVersion identify the service in the root metadata
// endpoint.
const (
	APIName    = "Salesforce Opportunity AI Analysis API"
	APIVersion = "1.0.0"
)

// AnalysisHandler handles the opportunity analysis HTTP endpoints.
type AnalysisHandler struct {
	analysisUC usecase.AnalysisUsecase
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisUC usecase.AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{analysisUC: analysisUC}
}

// AnalyzeRequest is the POST /analyze-opportunities body. Validation tags
// surface the offending record and field in the 400 response.
type AnalyzeRequest struct {
	Opportunities []entity.OpportunityRecord `json:"opportunities" binding:"required,min=1,dive"`
}

// Root handles GET /
func (h *AnalysisHandler) Root(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{
		"name":    APIName,
		"version": APIVersion,
		"status":  "running",
	})
}

// OpportunityTypes handles GET /opportunity-types
func (h *AnalysisHandler) OpportunityTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": h.analysisUC.OpportunityTypes()})
}

// Analyze handles POST /analyze-opportunities. The response body is the
// contract shape consumed by the frontend: a results map keyed by
// opportunity id, the attempted count, and the completion timestamp.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.analysisUC.Analyze(c.Request.Context(), req.Opportunities)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}
