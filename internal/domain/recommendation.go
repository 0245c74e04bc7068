package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation strategy keys, also used as bundle keys.
const (
	StrategyPersonalized             = "personalized"
	StrategyFrequentlyBoughtTogether = "frequently_bought_together"
	StrategySimilarProducts          = "similar_products"
	StrategyCartBased                = "cart_based"
	StrategyPopular                  = "popular"
	StrategyNewArrivals              = "new_arrivals"
)

// CatalogProduct is a product row as the recommendation queries see it.
// CategoryID and BrandID are nil when the product is unclassified.
type CatalogProduct struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	SKU        string     `json:"sku" db:"sku"`
	Price      int64      `json:"price" db:"price"`
	CategoryID *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	BrandID    *uuid.UUID `json:"brand_id,omitempty" db:"brand_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// RankedProduct pairs a catalog product with the count that ranked it:
// quantity sold for popularity, shared orders for co-purchases.
type RankedProduct struct {
	CatalogProduct
	Count int `db:"signal_count"`
}

// PurchaseHistory summarizes everything a customer has bought.
type PurchaseHistory struct {
	ProductIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
	BrandIDs    []uuid.UUID
}

// IsEmpty reports whether the customer never bought anything.
func (h PurchaseHistory) IsEmpty() bool {
	return len(h.ProductIDs) == 0
}

// ProductRecommendation is a ranked suggestion. RecommendationScore is a
// relative ranking unit, not a probability.
type ProductRecommendation struct {
	ProductID            uuid.UUID  `json:"product_id"`
	Name                 string     `json:"name"`
	SKU                  string     `json:"sku"`
	Price                int64      `json:"price"`
	CategoryID           *uuid.UUID `json:"category_id,omitempty"`
	BrandID              *uuid.UUID `json:"brand_id,omitempty"`
	RecommendationScore  float64    `json:"recommendation_score"`
	RecommendationReason string     `json:"recommendation_reason"`
	Confidence           int        `json:"confidence"`
}

// RecommendationContext is the caller's situational input
type RecommendationContext struct {
	CustomerID *uuid.UUID  `json:"customer_id,omitempty"`
	ProductID  *uuid.UUID  `json:"product_id,omitempty"`
	CartItems  []uuid.UUID `json:"cart_items,omitempty"`
	Limit      int         `json:"limit"`
}

// RecommendationBundle holds one list per invoked strategy. Lists are
// deduplicated individually; the same product may appear under several keys.
type RecommendationBundle map[string][]ProductRecommendation
