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

type salesHistoryRepository struct {
	db *DB
}

func NewSalesHistoryRepository(db *DB) repository.SalesHistoryRepository {
	return &salesHistoryRepository{db: db}
}

// snapshotQuery selects active products with stock summed over locations.
const snapshotQuery = `
	SELECT
		p.id,
		p.name,
		p.sku,
		COALESCE(p.cost_price, 0) AS cost_price,
		COALESCE(p.low_stock_threshold, 0) AS low_stock_threshold,
		COALESCE(inv.quantity, 0) AS current_stock
	FROM products p
	LEFT JOIN (
		SELECT product_id, SUM(quantity) AS quantity
		FROM inventory_levels
		WHERE tenant_id = $1
		GROUP BY product_id
	) inv ON inv.product_id = p.id
	WHERE ` + activeProductClause

func (r *salesHistoryRepository) GetProductSnapshot(ctx context.Context, tenantID, productID uuid.UUID) (*domain.ProductSnapshot, error) {
	query := snapshotQuery + ` AND p.id = $2`

	var product domain.ProductSnapshot
	err := r.db.withReadSlot(ctx, func() error {
		return r.db.GetContext(ctx, &product, query, tenantID, productID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching product snapshot: %w", err)
	}

	return &product, nil
}

func (r *salesHistoryRepository) ListActiveProducts(ctx context.Context, tenantID uuid.UUID, filter domain.ProductScanFilter) ([]domain.ProductSnapshot, error) {
	query := snapshotQuery
	args := []interface{}{tenantID}
	if filter.MaxStock > 0 {
		query += ` AND COALESCE(inv.quantity, 0) < $2`
		args = append(args, filter.MaxStock)
	}
	query += ` ORDER BY p.name ASC, p.id ASC`

	products := make([]domain.ProductSnapshot, 0)
	err := r.db.withReadSlot(ctx, func() error {
		return sqlx.SelectContext(ctx, r.db, &products, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("error listing active products: %w", err)
	}

	return products, nil
}

// Days without a completed sale produce no row.
const dailySalesQuery = `
	SELECT
		oi.product_id,
		DATE(o.created_at) AS sale_date,
		SUM(oi.quantity) AS quantity_sold
	FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE ` + completedOrderClause + `
	AND oi.product_id = ANY($2::uuid[])
	AND o.created_at >= CURRENT_DATE - make_interval(days => $3)
	GROUP BY oi.product_id, DATE(o.created_at)
	ORDER BY oi.product_id, sale_date ASC`

func (r *salesHistoryRepository) GetDailySales(ctx context.Context, tenantID, productID uuid.UUID, windowDays int) ([]domain.DailySalesPoint, error) {
	byProduct, err := r.GetDailySalesBatch(ctx, tenantID, []uuid.UUID{productID}, windowDays)
	if err != nil {
		return nil, err
	}

	series := byProduct[productID]
	if series == nil {
		series = []domain.DailySalesPoint{}
	}
	return series, nil
}

func (r *salesHistoryRepository) GetDailySalesBatch(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID, windowDays int) (map[uuid.UUID][]domain.DailySalesPoint, error) {
	result := make(map[uuid.UUID][]domain.DailySalesPoint, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var rows []domain.ProductDailySales
	err := r.db.withReadSlot(ctx, func() error {
		return sqlx.SelectContext(ctx, r.db, &rows, dailySalesQuery, tenantID, uuidArray(productIDs), windowDays)
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching daily sales: %w", err)
	}

	for _, row := range rows {
		result[row.ProductID] = append(result[row.ProductID], row.DailySalesPoint)
	}

	return result, nil
}
