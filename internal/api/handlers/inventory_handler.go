package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockcast/internal/api/middleware"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryService is the part of service.InventoryService the handler uses.
type InventoryService interface {
	ForecastDemand(ctx context.Context, tenantID, productID uuid.UUID, forecastDays int) (*domain.ForecastResult, error)
	GetStockoutRisks(ctx context.Context, tenantID uuid.UUID, daysThreshold int) ([]domain.StockoutRisk, error)
	GetReorderRecommendations(ctx context.Context, tenantID uuid.UUID) ([]domain.ReorderRecommendation, error)
	GetInventoryHealth(ctx context.Context, tenantID uuid.UUID) (*domain.InventoryHealth, error)
	GetDashboard(ctx context.Context, tenantID uuid.UUID) (*domain.InventoryDashboard, error)
	InvalidateHealth(ctx context.Context, tenantID uuid.UUID) error
}

type InventoryHandler struct {
	service InventoryService
}

func NewInventoryHandler(service InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// GetForecast handles GET /inventory/forecast/:productId?days=
func (h *InventoryHandler) GetForecast(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "productId")
	if !ok {
		return
	}

	days := queryInt(c, "days", 0)
	result, err := h.service.ForecastDemand(c.Request.Context(), middleware.TenantID(c), productID, days)
	if err != nil {
		respondError(c, err, "Failed to forecast demand")
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStockoutRisks handles GET /inventory/stockout-risks?days_threshold=&risk_level=
// A missing days_threshold uses the configured threshold; 0 is honored.
func (h *InventoryHandler) GetStockoutRisks(c *gin.Context) {
	threshold := domain.StockoutThresholdUnset
	if raw := strings.TrimSpace(c.Query("days_threshold")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days_threshold"})
			return
		}
		threshold = v
	}

	var level domain.RiskLevel
	if raw := c.Query("risk_level"); raw != "" {
		parsed, ok := domain.ParseRiskLevel(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid risk_level"})
			return
		}
		level = parsed
	}

	risks, err := h.service.GetStockoutRisks(c.Request.Context(), middleware.TenantID(c), threshold)
	if err != nil {
		respondError(c, err, "Failed to get stockout risks")
		return
	}

	if level != "" {
		filtered := make([]domain.StockoutRisk, 0, len(risks))
		for _, r := range risks {
			if r.RiskLevel == level {
				filtered = append(filtered, r)
			}
		}
		risks = filtered
	}

	c.JSON(http.StatusOK, gin.H{"data": risks, "total": len(risks)})
}

// GetReorderRecommendations handles GET /inventory/reorder-recommendations?priority=
func (h *InventoryHandler) GetReorderRecommendations(c *gin.Context) {
	var priority domain.ReorderPriority
	if raw := c.Query("priority"); raw != "" {
		parsed, ok := domain.ParseReorderPriority(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		priority = parsed
	}

	recs, err := h.service.GetReorderRecommendations(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get reorder recommendations")
		return
	}

	if priority != "" {
		filtered := make([]domain.ReorderRecommendation, 0, len(recs))
		for _, r := range recs {
			if r.Priority == priority {
				filtered = append(filtered, r)
			}
		}
		recs = filtered
	}

	c.JSON(http.StatusOK, gin.H{"data": recs, "total": len(recs)})
}

func (h *InventoryHandler) GetHealth(c *gin.Context) {
	health, err := h.service.GetInventoryHealth(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get inventory health")
		return
	}

	c.JSON(http.StatusOK, health)
}

// InvalidateHealth handles DELETE /inventory/health/cache
func (h *InventoryHandler) InvalidateHealth(c *gin.Context) {
	if err := h.service.InvalidateHealth(c.Request.Context(), middleware.TenantID(c)); err != nil {
		respondError(c, err, "Failed to invalidate inventory health cache")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *InventoryHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, "Failed to get inventory dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
