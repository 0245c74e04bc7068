package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/stockcast/internal/api/middleware"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecommendationService is the part of service.RecommendationService the
// handler uses.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, tenantID uuid.UUID, rc domain.RecommendationContext) (domain.RecommendationBundle, error)
	GetPopularProducts(ctx context.Context, tenantID uuid.UUID, limit, days int) ([]domain.ProductRecommendation, error)
	GetNewArrivals(ctx context.Context, tenantID uuid.UUID, limit, days int) ([]domain.ProductRecommendation, error)
	GetFrequentlyBoughtTogether(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]domain.ProductRecommendation, error)
	GetSimilarProducts(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]domain.ProductRecommendation, error)
	GetCartRecommendations(ctx context.Context, tenantID uuid.UUID, cartItems []uuid.UUID, limit int) ([]domain.ProductRecommendation, error)
	GetPersonalizedRecommendations(ctx context.Context, tenantID, customerID uuid.UUID, limit int) ([]domain.ProductRecommendation, error)
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

type RecommendationHandler struct {
	service RecommendationService
}

func NewRecommendationHandler(service RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

type cartRequest struct {
	CartItems []uuid.UUID `json:"cart_items"`
	Limit     int         `json:"limit"`
}

// GetBundle handles POST /recommendations with a RecommendationContext body.
func (h *RecommendationHandler) GetBundle(c *gin.Context) {
	var rc domain.RecommendationContext
	if err := c.ShouldBindJSON(&rc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	bundle, err := h.service.GetRecommendations(c.Request.Context(), middleware.TenantID(c), rc)
	if err != nil {
		respondError(c, err, "Failed to get recommendations")
		return
	}

	c.JSON(http.StatusOK, bundle)
}

func (h *RecommendationHandler) GetPopular(c *gin.Context) {
	recs, err := h.service.GetPopularProducts(c.Request.Context(), middleware.TenantID(c), queryInt(c, "limit", 0), queryInt(c, "days", 0))
	if err != nil {
		respondError(c, err, "Failed to get popular products")
		return
	}
	respondList(c, recs)
}

func (h *RecommendationHandler) GetNewArrivals(c *gin.Context) {
	recs, err := h.service.GetNewArrivals(c.Request.Context(), middleware.TenantID(c), queryInt(c, "limit", 0), queryInt(c, "days", 0))
	if err != nil {
		respondError(c, err, "Failed to get new arrivals")
		return
	}
	respondList(c, recs)
}

func (h *RecommendationHandler) GetFrequentlyBoughtTogether(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "productId")
	if !ok {
		return
	}

	recs, err := h.service.GetFrequentlyBoughtTogether(c.Request.Context(), middleware.TenantID(c), productID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err, "Failed to get frequently bought together products")
		return
	}
	respondList(c, recs)
}

func (h *RecommendationHandler) GetSimilar(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "productId")
	if !ok {
		return
	}

	recs, err := h.service.GetSimilarProducts(c.Request.Context(), middleware.TenantID(c), productID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err, "Failed to get similar products")
		return
	}
	respondList(c, recs)
}

// GetCart handles POST /recommendations/cart
func (h *RecommendationHandler) GetCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	recs, err := h.service.GetCartRecommendations(c.Request.Context(), middleware.TenantID(c), req.CartItems, req.Limit)
	if err != nil {
		respondError(c, err, "Failed to get cart recommendations")
		return
	}
	respondList(c, recs)
}

func (h *RecommendationHandler) GetPersonalized(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "customerId")
	if !ok {
		return
	}

	recs, err := h.service.GetPersonalizedRecommendations(c.Request.Context(), middleware.TenantID(c), customerID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err, "Failed to get personalized recommendations")
		return
	}
	respondList(c, recs)
}

// InvalidateCache handles DELETE /recommendations/cache
func (h *RecommendationHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.InvalidateTenant(c.Request.Context(), middleware.TenantID(c)); err != nil {
		respondError(c, err, "Failed to invalidate recommendation cache")
		return
	}

	c.Status(http.StatusNoContent)
}

func respondList(c *gin.Context, recs []domain.ProductRecommendation) {
	if recs == nil {
		recs = []domain.ProductRecommendation{}
	}
	c.JSON(http.StatusOK, gin.H{"data": recs, "total": len(recs)})
}
