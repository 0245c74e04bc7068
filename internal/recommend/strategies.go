package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

// GetPopularProducts ranks by quantity sold in the trailing window.
// days <= 0 uses the configured default.
func (e *Engine) GetPopularProducts(ctx context.Context, tenantID uuid.UUID, limit, days int) ([]domain.ProductRecommendation, error) {
	limit, days = e.PopularParams(limit, days)

	ranked, err := e.repo.GetPopularProducts(ctx, tenantID, days, limit)
	if err != nil {
		return nil, domain.NewDataAccessError("get popular products", err)
	}

	recs := make([]domain.ProductRecommendation, 0, len(ranked))
	for i, p := range ranked {
		reason := fmt.Sprintf("Popular: %d sold in the last %d days", p.Count, days)
		recs = append(recs, newRecommendation(p.CatalogProduct, float64(100-5*i), reason, 80))
	}
	return mergeRecommendations(limit, recs), nil
}

// GetNewArrivals ranks products created in the trailing window, newest first.
func (e *Engine) GetNewArrivals(ctx context.Context, tenantID uuid.UUID, limit, days int) ([]domain.ProductRecommendation, error) {
	limit, days = e.NewArrivalParams(limit, days)

	products, err := e.repo.GetNewArrivals(ctx, tenantID, days, limit)
	if err != nil {
		return nil, domain.NewDataAccessError("get new arrivals", err)
	}

	recs := make([]domain.ProductRecommendation, 0, len(products))
	for i, p := range products {
		recs = append(recs, newRecommendation(p, float64(90-4*i), "New arrival", 75))
	}
	return mergeRecommendations(limit, recs), nil
}

// GetFrequentlyBoughtTogether ranks products sharing completed orders with
// productID. A nil product id yields an empty list.
func (e *Engine) GetFrequentlyBoughtTogether(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]domain.ProductRecommendation, error) {
	limit = e.normalizeLimit(limit)
	if productID == uuid.Nil {
		return []domain.ProductRecommendation{}, nil
	}

	focal := []uuid.UUID{productID}
	ranked, err := e.repo.GetCoPurchases(ctx, tenantID, focal, focal, limit)
	if err != nil {
		return nil, domain.NewDataAccessError("get co-purchases", err)
	}

	recs := make([]domain.ProductRecommendation, 0, len(ranked))
	for i, p := range ranked {
		reason := fmt.Sprintf("Frequently bought together (%d orders)", p.Count)
		recs = append(recs, newRecommendation(p.CatalogProduct, float64(100-10*i), reason, min(95, 60+p.Count*5)))
	}
	return mergeRecommendations(limit, excluding(recs, focal)), nil
}

// Similarity tiers, best first.
const (
	tierNone     = 0
	tierBrand    = 1
	tierCategory = 2
	tierBoth     = 3
)

var tierReasons = map[int]string{
	tierBoth:     "Same category and brand",
	tierCategory: "Same category",
	tierBrand:    "Same brand",
	tierNone:     "Similar price",
}

// GetSimilarProducts ranks products within the focal product's price band
// by category/brand match, then by price distance. An unknown product yields
// an empty list. The score penalty grows as the tier number falls, so
// category-and-brand matches rank first.
func (e *Engine) GetSimilarProducts(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]domain.ProductRecommendation, error) {
	limit = e.normalizeLimit(limit)
	if productID == uuid.Nil {
		return []domain.ProductRecommendation{}, nil
	}

	focal, err := e.repo.GetProductDetail(ctx, tenantID, productID)
	if err != nil {
		return nil, domain.NewDataAccessError("get product detail", err)
	}
	if focal == nil {
		return []domain.ProductRecommendation{}, nil
	}

	minPrice := int64(math.Floor(float64(focal.Price) * (1 - PriceBandRatio)))
	maxPrice := int64(math.Ceil(float64(focal.Price) * (1 + PriceBandRatio)))
	candidates, err := e.repo.GetPriceBandProducts(ctx, tenantID, minPrice, maxPrice, productID)
	if err != nil {
		return nil, domain.NewDataAccessError("get price band products", err)
	}

	type scored struct {
		product  domain.CatalogProduct
		tier     int
		distance int64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == productID {
			continue
		}
		distance := c.Price - focal.Price
		if distance < 0 {
			distance = -distance
		}
		ranked = append(ranked, scored{product: c, tier: similarityTier(*focal, c), distance: distance})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].tier != ranked[j].tier {
			return ranked[i].tier > ranked[j].tier
		}
		return ranked[i].distance < ranked[j].distance
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	recs := make([]domain.ProductRecommendation, 0, len(ranked))
	for i, r := range ranked {
		score := float64(100 - (tierBoth-r.tier)*30 - i*3)
		recs = append(recs, newRecommendation(r.product, score, tierReasons[r.tier], 70+r.tier*10))
	}
	return mergeRecommendations(limit, recs), nil
}

func similarityTier(focal, candidate domain.CatalogProduct) int {
	sameCategory := sameID(focal.CategoryID, candidate.CategoryID)
	sameBrand := sameID(focal.BrandID, candidate.BrandID)
	switch {
	case sameCategory && sameBrand:
		return tierBoth
	case sameCategory:
		return tierCategory
	case sameBrand:
		return tierBrand
	default:
		return tierNone
	}
}

func sameID(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}

// GetCartRecommendations ranks products bought together with anything in the
// cart, never suggesting the cart's own items. An empty cart falls back to
// popular products.
func (e *Engine) GetCartRecommendations(ctx context.Context, tenantID uuid.UUID, cartItems []uuid.UUID, limit int) ([]domain.ProductRecommendation, error) {
	limit = e.normalizeLimit(limit)
	cart := uniqueIDs(cartItems)
	if len(cart) == 0 {
		return e.GetPopularProducts(ctx, tenantID, limit, 0)
	}

	ranked, err := e.repo.GetCoPurchases(ctx, tenantID, cart, cart, limit)
	if err != nil {
		return nil, domain.NewDataAccessError("get co-purchases", err)
	}

	recs := make([]domain.ProductRecommendation, 0, len(ranked))
	for i, p := range ranked {
		reason := fmt.Sprintf("Often bought with items in your cart (%d orders)", p.Count)
		recs = append(recs, newRecommendation(p.CatalogProduct, float64(100-8*i), reason, min(90, 65+p.Count*5)))
	}
	return mergeRecommendations(limit, excluding(recs, cart)), nil
}

// GetPersonalizedRecommendations blends collaborative suggestions (bought
// alongside the customer's history) with content suggestions (sharing the
// customer's categories or brands). Purchased products are never suggested.
// Customers without any purchase get popular products.
func (e *Engine) GetPersonalizedRecommendations(ctx context.Context, tenantID, customerID uuid.UUID, limit int) ([]domain.ProductRecommendation, error) {
	limit = e.normalizeLimit(limit)

	history, err := e.repo.GetCustomerPurchaseHistory(ctx, tenantID, customerID)
	if err != nil {
		return nil, domain.NewDataAccessError("get customer purchase history", err)
	}
	if history.IsEmpty() {
		return e.GetPopularProducts(ctx, tenantID, limit, 0)
	}

	half := (limit + 1) / 2
	purchased := uniqueIDs(history.ProductIDs)

	ranked, err := e.repo.GetCoPurchases(ctx, tenantID, purchased, purchased, half)
	if err != nil {
		return nil, domain.NewDataAccessError("get co-purchases", err)
	}
	collaborative := make([]domain.ProductRecommendation, 0, len(ranked))
	for i, p := range ranked {
		collaborative = append(collaborative, newRecommendation(p.CatalogProduct, float64(100-5*i),
			"Customers who bought what you bought also bought this", min(95, 70+p.Count*5)))
	}
	collaborative = excluding(collaborative, purchased)

	var content []domain.ProductRecommendation
	if len(history.CategoryIDs) > 0 || len(history.BrandIDs) > 0 {
		exclude := append([]uuid.UUID{}, purchased...)
		for _, r := range collaborative {
			exclude = append(exclude, r.ProductID)
		}

		products, err := e.repo.GetProductsByCategoryOrBrand(ctx, tenantID, history.CategoryIDs, history.BrandIDs, exclude, half)
		if err != nil {
			return nil, domain.NewDataAccessError("get products by category or brand", err)
		}
		content = make([]domain.ProductRecommendation, 0, len(products))
		for i, p := range products {
			content = append(content, newRecommendation(p, float64(50-2*i), "Matches categories and brands you buy", 60))
		}
		content = excluding(content, exclude)
	}

	return mergeRecommendations(limit, collaborative, content), nil
}
