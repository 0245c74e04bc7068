package recommend

import (
	"context"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

// fakeGraphRepo returns canned rows. Co-purchase rows ignore the exclusion
// list so the engine's own filtering is exercised.
type fakeGraphRepo struct {
	popular     []domain.RankedProduct
	arrivals    []domain.CatalogProduct
	coPurchases []domain.RankedProduct
	byAttribute []domain.CatalogProduct
	priceBand   []domain.CatalogProduct
	details     map[uuid.UUID]domain.CatalogProduct
	histories   map[uuid.UUID]domain.PurchaseHistory
	err         error

	popularCalls    int
	coPurchaseCalls int
	lastPopularDays int
	lastArrivalDays int
	lastSeeds       []uuid.UUID
	lastExclude     []uuid.UUID
	lastMinPrice    int64
	lastMaxPrice    int64
}

func (f *fakeGraphRepo) GetPopularProducts(ctx context.Context, tenantID uuid.UUID, days, limit int) ([]domain.RankedProduct, error) {
	f.popularCalls++
	f.lastPopularDays = days
	if f.err != nil {
		return nil, f.err
	}
	return head(f.popular, limit), nil
}

func (f *fakeGraphRepo) GetNewArrivals(ctx context.Context, tenantID uuid.UUID, days, limit int) ([]domain.CatalogProduct, error) {
	f.lastArrivalDays = days
	if f.err != nil {
		return nil, f.err
	}
	return head(f.arrivals, limit), nil
}

func (f *fakeGraphRepo) GetCoPurchases(ctx context.Context, tenantID uuid.UUID, productIDs, excludeIDs []uuid.UUID, limit int) ([]domain.RankedProduct, error) {
	f.coPurchaseCalls++
	f.lastSeeds = productIDs
	f.lastExclude = excludeIDs
	if f.err != nil {
		return nil, f.err
	}
	return head(f.coPurchases, limit), nil
}

func (f *fakeGraphRepo) GetCustomerPurchaseHistory(ctx context.Context, tenantID, customerID uuid.UUID) (domain.PurchaseHistory, error) {
	if f.err != nil {
		return domain.PurchaseHistory{}, f.err
	}
	return f.histories[customerID], nil
}

func (f *fakeGraphRepo) GetProductsByCategoryOrBrand(ctx context.Context, tenantID uuid.UUID, categoryIDs, brandIDs, excludeIDs []uuid.UUID, limit int) ([]domain.CatalogProduct, error) {
	f.lastExclude = excludeIDs
	if f.err != nil {
		return nil, f.err
	}
	return head(f.byAttribute, limit), nil
}

func (f *fakeGraphRepo) GetProductDetail(ctx context.Context, tenantID, productID uuid.UUID) (*domain.CatalogProduct, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.details[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeGraphRepo) GetPriceBandProducts(ctx context.Context, tenantID uuid.UUID, minPrice, maxPrice int64, excludeID uuid.UUID) ([]domain.CatalogProduct, error) {
	f.lastMinPrice = minPrice
	f.lastMaxPrice = maxPrice
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.CatalogProduct, 0, len(f.priceBand))
	for _, p := range f.priceBand {
		if p.Price >= minPrice && p.Price <= maxPrice {
			out = append(out, p)
		}
	}
	return out, nil
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func product(name string, price int64) domain.CatalogProduct {
	return domain.CatalogProduct{ID: uuid.New(), Name: name, SKU: "SKU-" + name, Price: price}
}

func ranked(p domain.CatalogProduct, count int) domain.RankedProduct {
	return domain.RankedProduct{CatalogProduct: p, Count: count}
}

func ids(recs []domain.ProductRecommendation) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ProductID)
	}
	return out
}

func scores(recs []domain.ProductRecommendation) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.RecommendationScore)
	}
	return out
}
