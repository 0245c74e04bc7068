package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type purchaseGraphRepository struct {
	db *DB
}

func NewPurchaseGraphRepository(db *DB) repository.PurchaseGraphRepository {
	return &purchaseGraphRepository{db: db}
}

func (r *purchaseGraphRepository) GetPopularProducts(ctx context.Context, tenantID uuid.UUID, days, limit int) ([]domain.RankedProduct, error) {
	query := `
		SELECT ` + catalogColumns + `, SUM(oi.quantity) AS signal_count
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE ` + completedOrderClause + `
		AND ` + activeProductClause + `
		AND o.created_at >= NOW() - make_interval(days => $2)
		GROUP BY p.id
		ORDER BY signal_count DESC, p.name ASC
		LIMIT $3
	`

	products := make([]domain.RankedProduct, 0)
	err := r.db.withReadSlot(ctx, func() error {
		return sqlx.SelectContext(ctx, r.db, &products, query, tenantID, days, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching popular products: %w", err)
	}

	return products, nil
}

func (r *purchaseGraphRepository) GetNewArrivals(ctx context.Context, tenantID uuid.UUID, days, limit int) ([]domain.CatalogProduct, error) {
	query := `
		SELECT ` + catalogColumns + `
		FROM products p
		WHERE ` + activeProductClause + `
		AND p.created_at >= NOW() - make_interval(days => $2)
		ORDER BY p.created_at DESC, p.name ASC
		LIMIT $3
	`

	products := make([]domain.CatalogProduct, 0)
	err := r.db.withReadSlot(ctx, func() error {
		return sqlx.SelectContext(ctx, r.db, &products, query, tenantID, days, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching new arrivals: %w", err)
	}

	return products, nil
}

// GetCoPurchases counts, per product, the completed orders it shares with any
// of productIDs.
func (r *purchaseGraphRepository) GetCoPurchases(ctx context.Context, tenantID uuid.UUID, productIDs, excludeIDs []uuid.UUID, limit int) ([]domain.RankedProduct, error) {
	products := make([]domain.RankedProduct, 0)
	if len(productIDs) == 0 {
		return products, nil
	}

	query := `
		SELECT ` + catalogColumns + `, COUNT(DISTINCT oi.order_id) AS signal_count
		FROM order_items seed
		JOIN orders o ON o.id = seed.order_id
		JOIN order_items oi ON oi.order_id = seed.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE ` + completedOrderClause + `
		AND ` + activeProductClause + `
		AND seed.product_id = ANY($2::uuid[])
		AND NOT (oi.product_id = ANY($3::uuid[]))
		GROUP BY p.id
		ORDER BY signal_count DESC, p.name ASC
		LIMIT $4
	`

	exclude := append(append([]uuid.UUID{}, productIDs...), excludeIDs...)
	err := r.db.withReadSlot(ctx, func() error {
		return sqlx.SelectContext(ctx, r.db, &products, query, tenantID, uuidArray(productIDs), uuidArray(exclude), limit)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching co-purchases: %w", err)
	}

	return products, nil
}

type purchasedProductRow struct {
	ID         uuid.UUID  `db:"id"`
	CategoryID *uuid.UUID `db:"category_id"`
	BrandID    *uuid.UUID `db:"brand_id"`
}

func (r *purchaseGraphRepository) GetCustomerPurchaseHistory(ctx context.Context, tenantID, customerID uuid.UUID) (domain.PurchaseHistory, error) {
	query := `
		SELECT DISTINCT p.id, p.category_id, p.brand_id
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE ` + completedOrderClause + `
		AND o.customer_id = $2
		ORDER BY p.id
	`

	var rows []purchasedProductRow
	err := r.db.withReadSlot(ctx, func() error {
		return sqlx.SelectContext(ctx, r.db, &rows, query, tenantID, customerID)
	})
	if err != nil {
		return domain.PurchaseHistory{}, fmt.Errorf("error fetching purchase history: %w", err)
	}

	var history domain.PurchaseHistory
	categories := make(map[uuid.UUID]struct{})
	brands := make(map[uuid.UUID]struct{})
	for _, row := range rows {
		history.ProductIDs = append(history.ProductIDs, row.ID)
		if row.CategoryID != nil {
			if _, ok := categories[*row.CategoryID]; !ok {
				categories[*row.CategoryID] = struct{}{}
				history.CategoryIDs = append(history.CategoryIDs, *row.CategoryID)
			}
		}
		if row.BrandID != nil {
			if _, ok := brands[*row.BrandID]; !ok {
				brands[*row.BrandID] = struct{}{}
				history.BrandIDs = append(history.BrandIDs, *row.BrandID)
			}
		}
	}

	return history, nil
}

func (r *purchaseGraphRepository) GetProductsByCategoryOrBrand(ctx context.Context, tenantID uuid.UUID, categoryIDs, brandIDs, excludeIDs []uuid.UUID, limit int) ([]domain.CatalogProduct, error) {
	products := make([]domain.CatalogProduct, 0)
	if len(categoryIDs) == 0 && len(brandIDs) == 0 {
		return products, nil
	}

	query := `
		SELECT ` + catalogColumns + `
		FROM products p
		WHERE ` + activeProductClause + `
		AND (p.category_id = ANY($2::uuid[]) OR p.brand_id = ANY($3::uuid[]))
		AND NOT (p.id = ANY($4::uuid[]))
		ORDER BY p.created_at DESC, p.name ASC
		LIMIT $5
	`

	err := r.db.withReadSlot(ctx, func() error {
		return sqlx.SelectContext(ctx, r.db, &products, query,
			tenantID, uuidArray(categoryIDs), uuidArray(brandIDs), uuidArray(excludeIDs), limit)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching products by category or brand: %w", err)
	}

	return products, nil
}

func (r *purchaseGraphRepository) GetProductDetail(ctx context.Context, tenantID, productID uuid.UUID) (*domain.CatalogProduct, error) {
	query := `
		SELECT ` + catalogColumns + `
		FROM products p
		WHERE ` + activeProductClause + `
		AND p.id = $2
	`

	var product domain.CatalogProduct
	err := r.db.withReadSlot(ctx, func() error {
		return r.db.GetContext(ctx, &product, query, tenantID, productID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching product detail: %w", err)
	}

	return &product, nil
}

func (r *purchaseGraphRepository) GetPriceBandProducts(ctx context.Context, tenantID uuid.UUID, minPrice, maxPrice int64, excludeID uuid.UUID) ([]domain.CatalogProduct, error) {
	query := `
		SELECT ` + catalogColumns + `
		FROM products p
		WHERE ` + activeProductClause + `
		AND p.price BETWEEN $2 AND $3
		AND p.id <> $4
		ORDER BY p.price ASC, p.name ASC
	`

	products := make([]domain.CatalogProduct, 0)
	err := r.db.withReadSlot(ctx, func() error {
		return sqlx.SelectContext(ctx, r.db, &products, query, tenantID, minPrice, maxPrice, excludeID)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching price band products: %w", err)
	}

	return products, nil
}
