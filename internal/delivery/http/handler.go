package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelfmetrics/backend/internal/domain"
	"github.com/shelfmetrics/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pricing   *usecase.PricingService
	pipeline  *usecase.PipelineService
	analytics *usecase.AnalyticsService
	repo      domain.ProductRepository
}

// NewHandler creates a new HTTP handler. pipeline may be nil when no catalog
// source is configured; the pipeline endpoint then reports 501.
func NewHandler(
	pricing *usecase.PricingService,
	pipeline *usecase.PipelineService,
	analytics *usecase.AnalyticsService,
	repo domain.ProductRepository,
) *Handler {
	return &Handler{
		pricing:   pricing,
		pipeline:  pipeline,
		analytics: analytics,
		repo:      repo,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelfmetrics-backend",
		"version": "1.0.0",
	})
}

// normalizeRequest is the payload for single-label normalization.
type normalizeRequest struct {
	Label string `json:"label" binding:"required"`
}

// NormalizePackSize parses one pack-size label. Unparseable labels are not
// errors: the response carries parsed=false with null quantity and unit so
// callers can batch without per-row error handling.
func (h *Handler) NormalizePackSize(c *gin.Context) {
	if h.pricing == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "normalizer not configured"})
		return
	}

	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error()})
		return
	}

	size, ok := h.pricing.Normalizer().Normalize(req.Label)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"label":    req.Label,
			"parsed":   false,
			"quantity": nil,
			"unit":     nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label":    req.Label,
		"parsed":   true,
		"quantity": size.Quantity,
		"unit":     size.Unit,
	})
}

// RunPipeline executes the batch transform over the configured catalog.
func (h *Handler) RunPipeline(c *gin.Context) {
	if h.pipeline == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "pipeline not configured"})
		return
	}

	result, err := h.pipeline.Run(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] Pipeline run failed: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEmptyCatalog) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListProducts returns persisted analytics rows with limit/offset paging.
func (h *Handler) ListProducts(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "store not configured"})
		return
	}

	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)

	rows, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := h.repo.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": rows,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// AnalyticsSummary returns catalog-wide counts and the gram-cohort mean.
func (h *Handler) AnalyticsSummary(c *gin.Context) {
	if h.analytics == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "analytics not configured"})
		return
	}
	summary, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AnalyticsSegments returns the Premium/Budget segmentation.
func (h *Handler) AnalyticsSegments(c *gin.Context) {
	if h.analytics == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "analytics not configured"})
		return
	}
	segments, err := h.analytics.Segments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, segments)
}

// AnalyticsCategories returns per-category aggregates.
func (h *Handler) AnalyticsCategories(c *gin.Context) {
	if h.analytics == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "analytics not configured"})
		return
	}
	stats, err := h.analytics.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": stats})
}

// AnalyticsDiscounts returns the rows with the deepest discounts.
func (h *Handler) AnalyticsDiscounts(c *gin.Context) {
	if h.analytics == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "analytics not configured"})
		return
	}
	limit := intQuery(c, "limit", 10)
	discounts, err := h.analytics.TopDiscounts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"discounts": discounts, "limit": limit})
}

// AnalyticsQuality returns the data-quality report for manual review.
func (h *Handler) AnalyticsQuality(c *gin.Context) {
	if h.analytics == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "analytics not configured"})
		return
	}
	report, err := h.analytics.Quality(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
