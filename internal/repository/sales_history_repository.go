// internal/repository/sales_history_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

// SalesHistoryRepository is the read-only historical-data interface the
// forecast engine consumes.
type SalesHistoryRepository interface {
	// GetProductSnapshot returns nil, nil when the product does not exist.
	GetProductSnapshot(ctx context.Context, tenantID, productID uuid.UUID) (*domain.ProductSnapshot, error)

	// GetDailySales returns the days with recorded sales inside the trailing
	// window, oldest first. Days without sales are omitted.
	GetDailySales(ctx context.Context, tenantID, productID uuid.UUID, windowDays int) ([]domain.DailySalesPoint, error)

	ListActiveProducts(ctx context.Context, tenantID uuid.UUID, filter domain.ProductScanFilter) ([]domain.ProductSnapshot, error)

	// GetDailySalesBatch is GetDailySales for many products in one query.
	// Products without sales in the window are absent from the map.
	GetDailySalesBatch(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID, windowDays int) (map[uuid.UUID][]domain.DailySalesPoint, error)
}
