package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ssenti/levit-3/internal/domain"
	"github.com/ssenti/levit-3/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendService *usecase.RecommendService
}

// NewHandler creates a new HTTP handler
func NewHandler(recommendService *usecase.RecommendService) *Handler {
	return &Handler{
		recommendService: recommendService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "levit-backend",
		"version": "1.0.0",
	})
}

// Clarify handles clarifying-question requests
func (h *Handler) Clarify(c *gin.Context) {
	if h.recommendService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recommendation service not available"})
		return
	}

	var req domain.ClarifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.recommendService.Clarify(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recommend handles recommendation requests
func (h *Handler) Recommend(c *gin.Context) {
	if h.recommendService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recommendation service not available"})
		return
	}

	var req domain.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.recommendService.Recommend(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCollectionFailed),
		errors.Is(err, domain.ErrSearchFailed),
		errors.Is(err, domain.ErrAdviceFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
