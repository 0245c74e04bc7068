// internal/repository/purchase_graph_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

// PurchaseGraphRepository exposes the purchase co-occurrence and catalog
// joins the recommendation engine ranks from. Every list is returned already
// ordered by its ranking signal.
type PurchaseGraphRepository interface {
	// GetPopularProducts ranks active products by quantity sold in the window.
	GetPopularProducts(ctx context.Context, tenantID uuid.UUID, days, limit int) ([]domain.RankedProduct, error)

	// GetNewArrivals returns active products created inside the window, newest first.
	GetNewArrivals(ctx context.Context, tenantID uuid.UUID, days, limit int) ([]domain.CatalogProduct, error)

	// GetCoPurchases ranks products by the number of completed orders they
	// share with any of productIDs. productIDs and excludeIDs never appear.
	GetCoPurchases(ctx context.Context, tenantID uuid.UUID, productIDs, excludeIDs []uuid.UUID, limit int) ([]domain.RankedProduct, error)

	GetCustomerPurchaseHistory(ctx context.Context, tenantID, customerID uuid.UUID) (domain.PurchaseHistory, error)

	GetProductsByCategoryOrBrand(ctx context.Context, tenantID uuid.UUID, categoryIDs, brandIDs, excludeIDs []uuid.UUID, limit int) ([]domain.CatalogProduct, error)

	// GetProductDetail returns nil, nil when the product does not exist.
	GetProductDetail(ctx context.Context, tenantID, productID uuid.UUID) (*domain.CatalogProduct, error)

	// GetPriceBandProducts returns active products priced within
	// [minPrice, maxPrice], excluding excludeID.
	GetPriceBandProducts(ctx context.Context, tenantID uuid.UUID, minPrice, maxPrice int64, excludeID uuid.UUID) ([]domain.CatalogProduct, error)
}
