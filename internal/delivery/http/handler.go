package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petfit/backend/internal/domain"
	"github.com/petfit/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendations *usecase.RecommendationService
	version         string
}

// NewHandler creates a new HTTP handler. A nil service makes the scoring endpoints answer 503.
func NewHandler(recommendations *usecase.RecommendationService, version string) *Handler {
	if version == "" {
		version = "dev"
	}
	return &Handler{
		recommendations: recommendations,
		version:         version,
	}
}

// scoreOneRequest is the body of POST /api/v1/recommendations/score-one
type scoreOneRequest struct {
	Pet         domain.PetProfile    `json:"pet" binding:"required"`
	Product     domain.CandidateItem `json:"product" binding:"required"`
	Preferences domain.Preferences   `json:"preferences"`
}

// scoreOneResponse pairs a product with its score
type scoreOneResponse struct {
	ProductID string             `json:"product_id"`
	Result    domain.ScoreResult `json:"result"`
	Excluded  bool               `json:"excluded"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "petfit-backend",
		"version": h.version,
	})
}

// ScoreBatch scores and ranks a batch of candidates for one pet
func (h *Handler) ScoreBatch(c *gin.Context) {
	if h.recommendations == nil {
		respondError(c, http.StatusServiceUnavailable, "recommendation service not configured")
		return
	}

	var req domain.ScoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	run, err := h.recommendations.Recommend(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// ScoreOne scores a single candidate without ranking
func (h *Handler) ScoreOne(c *gin.Context) {
	if h.recommendations == nil {
		respondError(c, http.StatusServiceUnavailable, "recommendation service not configured")
		return
	}

	var req scoreOneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.recommendations.ScoreOne(c.Request.Context(), &req.Pet, &req.Product, &req.Preferences)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, scoreOneResponse{
		ProductID: req.Product.ProductID,
		Result:    *result,
		Excluded:  result.Excluded(),
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondServiceError maps usecase errors onto HTTP status codes
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, "request cancelled")
	default:
		respondError(c, http.StatusInternalServerError, "failed to score candidates")
	}
}
