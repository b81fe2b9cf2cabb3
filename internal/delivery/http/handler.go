package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shelfscore/backend/internal/domain"
)

// ProductScanner is the usecase surface the HTTP layer depends on.
type ProductScanner interface {
	ScanProduct(ctx context.Context, barcode string) (*domain.ScoredProduct, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products ProductScanner
}

// NewHandler creates a new HTTP handler
func NewHandler(products ProductScanner) *Handler {
	return &Handler{products: products}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelfscore-backend",
		"version": "1.0.0",
	})
}

// ScanProduct resolves a barcode to a scored product.
// GET /api/v1/products/:barcode/score
func (h *Handler) ScanProduct(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "product scanning not configured",
		})
		return
	}

	barcode := c.Param("barcode")

	result, err := h.products.ScanProduct(c.Request.Context(), barcode)
	if err != nil {
		status, message := statusForError(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, result)
}

// statusForError maps domain errors to HTTP responses.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidBarcode):
		return http.StatusBadRequest, "barcode must be 8 to 14 digits"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limit exceeded, try again later"
	case errors.Is(err, domain.ErrOFFAPIFailure):
		return http.StatusBadGateway, "upstream food database unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
