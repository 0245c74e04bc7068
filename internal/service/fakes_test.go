package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-0000000000cc")

type fakeSalesRepo struct {
	products []domain.ProductSnapshot
	sales    map[uuid.UUID][]domain.DailySalesPoint
	err      error

	listCalls int32
}

func (f *fakeSalesRepo) GetProductSnapshot(ctx context.Context, tenantID, productID uuid.UUID) (*domain.ProductSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == productID {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeSalesRepo) GetDailySales(ctx context.Context, tenantID, productID uuid.UUID, windowDays int) ([]domain.DailySalesPoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sales[productID], nil
}

func (f *fakeSalesRepo) ListActiveProducts(ctx context.Context, tenantID uuid.UUID, filter domain.ProductScanFilter) ([]domain.ProductSnapshot, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeSalesRepo) GetDailySalesBatch(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID, windowDays int) (map[uuid.UUID][]domain.DailySalesPoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID][]domain.DailySalesPoint)
	for _, id := range productIDs {
		if s, ok := f.sales[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func flat(days, qty int) []domain.DailySalesPoint {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]domain.DailySalesPoint, days)
	for i := range series {
		series[i] = domain.DailySalesPoint{Date: start.AddDate(0, 0, i), QuantitySold: qty}
	}
	return series
}

type fakeGraphRepo struct {
	popular []domain.RankedProduct
	err     error

	popularCalls int32
}

func (f *fakeGraphRepo) GetPopularProducts(ctx context.Context, tenantID uuid.UUID, days, limit int) ([]domain.RankedProduct, error) {
	atomic.AddInt32(&f.popularCalls, 1)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.popular) > limit {
		return f.popular[:limit], nil
	}
	return f.popular, nil
}

func (f *fakeGraphRepo) GetNewArrivals(ctx context.Context, tenantID uuid.UUID, days, limit int) ([]domain.CatalogProduct, error) {
	return []domain.CatalogProduct{}, f.err
}

func (f *fakeGraphRepo) GetCoPurchases(ctx context.Context, tenantID uuid.UUID, productIDs, excludeIDs []uuid.UUID, limit int) ([]domain.RankedProduct, error) {
	return []domain.RankedProduct{}, f.err
}

func (f *fakeGraphRepo) GetCustomerPurchaseHistory(ctx context.Context, tenantID, customerID uuid.UUID) (domain.PurchaseHistory, error) {
	return domain.PurchaseHistory{}, f.err
}

func (f *fakeGraphRepo) GetProductsByCategoryOrBrand(ctx context.Context, tenantID uuid.UUID, categoryIDs, brandIDs, excludeIDs []uuid.UUID, limit int) ([]domain.CatalogProduct, error) {
	return []domain.CatalogProduct{}, f.err
}

func (f *fakeGraphRepo) GetProductDetail(ctx context.Context, tenantID, productID uuid.UUID) (*domain.CatalogProduct, error) {
	return nil, f.err
}

func (f *fakeGraphRepo) GetPriceBandProducts(ctx context.Context, tenantID uuid.UUID, minPrice, maxPrice int64, excludeID uuid.UUID) ([]domain.CatalogProduct, error) {
	return []domain.CatalogProduct{}, f.err
}
