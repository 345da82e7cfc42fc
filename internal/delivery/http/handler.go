package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nutriscanner/backend/internal/domain"
)

// ProductService is the slice of the usecase layer the handlers need.
type ProductService interface {
	LookupBarcode(ctx context.Context, barcode string) (*domain.ProductView, error)
	SearchProducts(ctx context.Context, criteria *domain.FilterCriteria) (*domain.ResultPage, error)
	ClearCaches()
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products ProductService
}

// NewHandler creates a new HTTP handler
func NewHandler(products ProductService) *Handler {
	return &Handler{products: products}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutri-scanner-backend",
		"version": "1.0.0",
	})
}

// GetProduct handles a barcode lookup
func (h *Handler) GetProduct(c *gin.Context) {
	barcode := strings.TrimSpace(c.Param("barcode"))

	view, err := h.products.LookupBarcode(c.Request.Context(), barcode)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SearchProducts handles a filtered search request
func (h *Handler) SearchProducts(c *gin.Context) {
	criteria := parseCriteria(c)

	page, err := h.products.SearchProducts(c.Request.Context(), criteria)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ClearCache drops both caches
func (h *Handler) ClearCache(c *gin.Context) {
	h.products.ClearCaches()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderError maps domain errors to non-fatal, user-readable responses.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrUpstreamTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "the food database is slow to respond, please try again"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstreamFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": "the food database returned an error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseCriteria reads the filter criteria from the query string. Malformed
// numeric values are coerced to "filter not set" rather than rejected.
func parseCriteria(c *gin.Context) *domain.FilterCriteria {
	return &domain.FilterCriteria{
		Query:         strings.TrimSpace(c.Query("query")),
		Category:      strings.TrimSpace(c.Query("category")),
		MaxSugars:     parseBound(c.Query("max_sugars")),
		MaxFat:        parseBound(c.Query("max_fat")),
		MaxEnergyKcal: parseBound(c.Query("max_energy")),
		MaxCarbs:      parseBound(c.Query("max_carbs")),
		MaxProteins:   parseBound(c.Query("max_proteins")),
		Vegan:         parseFlag(c.Query("vegan")),
		LactoseFree:   parseFlag(c.Query("lactose_free")),
		GlutenFree:    parseFlag(c.Query("gluten_free")),
		AvailableOnly: parseFlag(c.Query("available")),
		Grades:        parseGrades(c.Query("grades")),
		Page:          parsePage(c.Query("page")),
	}
}

// parseBound leniently parses a numeric upper bound, accepting comma decimal
// separators. Anything unparseable or negative means no bound.
func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// parseGrades splits a comma-separated grade list, keeping only a-e.
func parseGrades(raw string) []string {
	var grades []string
	for _, part := range strings.Split(raw, ",") {
		g := strings.ToLower(strings.TrimSpace(part))
		if len(g) == 1 && g >= "a" && g <= "e" {
			grades = append(grades, g)
		}
	}
	return grades
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
