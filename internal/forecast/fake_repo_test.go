package forecast

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

// fakeSalesRepo is an in-memory SalesHistoryRepository that counts reads.
type fakeSalesRepo struct {
	products []domain.ProductSnapshot
	sales    map[uuid.UUID][]domain.DailySalesPoint
	err      error

	snapshotCalls int32
	salesCalls    int32
	listCalls     int32
	batchCalls    int32

	lastWindow int
}

func (f *fakeSalesRepo) GetProductSnapshot(ctx context.Context, tenantID, productID uuid.UUID) (*domain.ProductSnapshot, error) {
	atomic.AddInt32(&f.snapshotCalls, 1)
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
	atomic.AddInt32(&f.salesCalls, 1)
	f.lastWindow = windowDays
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
	return applyScanFilter(f.products, filter), nil
}

func (f *fakeSalesRepo) GetDailySalesBatch(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID, windowDays int) (map[uuid.UUID][]domain.DailySalesPoint, error) {
	atomic.AddInt32(&f.batchCalls, 1)
	f.lastWindow = windowDays
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID][]domain.DailySalesPoint)
	for _, id := range productIDs {
		if series, ok := f.sales[id]; ok && len(series) > 0 {
			out[id] = series
		}
	}
	return out, nil
}

var baseDay = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// seriesOf builds consecutive daily points from the given quantities.
func seriesOf(values ...int) []domain.DailySalesPoint {
	points := make([]domain.DailySalesPoint, len(values))
	for i, v := range values {
		points[i] = domain.DailySalesPoint{Date: baseDay.AddDate(0, 0, i), QuantitySold: v}
	}
	return points
}

func flatSeries(days, qty int) []domain.DailySalesPoint {
	values := make([]int, days)
	for i := range values {
		values[i] = qty
	}
	return seriesOf(values...)
}

func concatSeries(parts ...[]domain.DailySalesPoint) []domain.DailySalesPoint {
	var values []int
	for _, part := range parts {
		for _, p := range part {
			values = append(values, p.QuantitySold)
		}
	}
	return seriesOf(values...)
}
