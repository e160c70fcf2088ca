package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartaisle/backend/internal/domain"
	"github.com/smartaisle/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products *usecase.ProductService
}

// NewHandler creates a new HTTP handler
func NewHandler(products *usecase.ProductService) *Handler {
	return &Handler{products: products}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "smartaisle-backend",
		"version": "1.0.0",
	})
}

// GetProduct looks up a product by barcode. The response may arrive with
// loading.ingredients=true; clients poll the cached endpoint for the
// completed analysis.
func (h *Handler) GetProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	// Missing and failed lookups come back as placeholder products, so
	// barcode format is the only error surfaced to clients.
	product, err := h.products.GetProduct(c.Request.Context(), barcode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBarcode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid barcode format"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream product lookup failed"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetCachedProduct returns the current cached snapshot for a barcode
// without calling upstream. 404 when nothing is cached.
func (h *Handler) GetCachedProduct(c *gin.Context) {
	barcode := c.Param("barcode")

	product, err := h.products.GetCachedProduct(c.Request.Context(), barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not cached"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// SearchProducts searches the upstream database by product name
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	results, err := h.products.SearchProducts(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// ClearCaches drops all cached products, search results, analyses and
// descriptions, and re-arms the description generator.
func (h *Handler) ClearCaches(c *gin.Context) {
	h.products.ClearAllCaches()
	c.JSON(http.StatusOK, gin.H{"status": "caches cleared"})
}
