package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventoryFixture() *fakeSalesRepo {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	return &fakeSalesRepo{
		products: []domain.ProductSnapshot{
			{ID: a, Name: "A", SKU: "A-1", CurrentStock: 20, CostPrice: 100},
			{ID: b, Name: "B", SKU: "B-1", CurrentStock: 2, CostPrice: 50, LowStockThreshold: 5},
			{ID: c, Name: "C", SKU: "C-1", CurrentStock: 0, CostPrice: 10},
		},
		sales: map[uuid.UUID][]domain.DailySalesPoint{
			a: flat(30, 5),
			b: flat(30, 2),
		},
	}
}

func newInventoryService(repo *fakeSalesRepo, healthCache cache.InventoryHealthCache, cfg config.ForecastConfig) *InventoryService {
	engine := forecast.NewEngine(repo, NewForecastEngineOptions(cfg))
	return NewInventoryService(engine, healthCache, cfg)
}

func TestForecastDemandNotFound(t *testing.T) {
	svc := newInventoryService(inventoryFixture(), nil, config.ForecastConfig{})

	result, err := svc.ForecastDemand(context.Background(), tenantID, uuid.New(), 30)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestForecastDemand(t *testing.T) {
	repo := inventoryFixture()
	svc := newInventoryService(repo, nil, config.ForecastConfig{})

	result, err := svc.ForecastDemand(context.Background(), tenantID, repo.products[0].ID, 0)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 35, result.ReorderPoint)
	assert.Equal(t, 4, result.DaysUntilStockout)
}

func TestGetStockoutRisksUsesConfiguredThreshold(t *testing.T) {
	repo := inventoryFixture()

	narrow := newInventoryService(repo, nil, config.ForecastConfig{StockoutThresholdDays: 2})
	risks, err := narrow.GetStockoutRisks(context.Background(), tenantID, domain.StockoutThresholdUnset)
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "B", risks[0].ProductName)

	defaulted := newInventoryService(repo, nil, config.ForecastConfig{})
	risks, err = defaulted.GetStockoutRisks(context.Background(), tenantID, domain.StockoutThresholdUnset)
	require.NoError(t, err)
	assert.Len(t, risks, 2)

	risks, err = defaulted.GetStockoutRisks(context.Background(), tenantID, 1)
	require.NoError(t, err)
	assert.Len(t, risks, 1)
}

func TestGetStockoutRisksZeroThreshold(t *testing.T) {
	empty, selling := uuid.New(), uuid.New()
	repo := &fakeSalesRepo{
		products: []domain.ProductSnapshot{
			{ID: empty, Name: "Empty", SKU: "E-1", CurrentStock: 0},
			{ID: selling, Name: "Selling", SKU: "S-1", CurrentStock: 6},
		},
		sales: map[uuid.UUID][]domain.DailySalesPoint{
			empty:   flat(30, 3),
			selling: flat(30, 3),
		},
	}
	svc := newInventoryService(repo, nil, config.ForecastConfig{StockoutThresholdDays: 14})

	risks, err := svc.GetStockoutRisks(context.Background(), tenantID, 0)
	require.NoError(t, err)
	require.Len(t, risks, 1)
	assert.Equal(t, "Empty", risks[0].ProductName)
	assert.Equal(t, 0, risks[0].DaysUntilStockout)
}

func TestGetInventoryHealthUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	healthCache, err := cache.NewInventoryHealthCache(config.CacheConfig{Enabled: true, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)

	repo := inventoryFixture()
	svc := newInventoryService(repo, healthCache, config.ForecastConfig{})
	ctx := context.Background()

	first, err := svc.GetInventoryHealth(ctx, tenantID)
	require.NoError(t, err)
	second, err := svc.GetInventoryHealth(ctx, tenantID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), repo.listCalls)
	assert.Equal(t, 3, first.TotalProducts)
	assert.Equal(t, 1, first.OutOfStock)
	assert.Equal(t, 1, first.LowStock)
	assert.Equal(t, int64(20*100+2*50), first.TotalInventoryValue)

	require.NoError(t, svc.InvalidateHealth(ctx, tenantID))
	_, err = svc.GetInventoryHealth(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.listCalls)
}

func TestGetInventoryHealthSurvivesCacheOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	healthCache, err := cache.NewInventoryHealthCache(config.CacheConfig{Enabled: true, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	mr.Close()

	svc := newInventoryService(inventoryFixture(), healthCache, config.ForecastConfig{})

	health, err := svc.GetInventoryHealth(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 3, health.TotalProducts)
}

func TestGetDashboard(t *testing.T) {
	svc := newInventoryService(inventoryFixture(), nil, config.ForecastConfig{DashboardTopRisks: 1})

	dashboard, err := svc.GetDashboard(context.Background(), tenantID)
	require.NoError(t, err)

	require.NotNil(t, dashboard.Health)
	assert.Equal(t, 3, dashboard.Health.TotalProducts)
	require.Len(t, dashboard.StockoutRisks, 1)
	assert.Equal(t, domain.RiskCritical, dashboard.StockoutRisks[0].RiskLevel)
	assert.Len(t, dashboard.ReorderRecommendations, 2)
}

func TestGetDashboardPropagatesErrors(t *testing.T) {
	repo := inventoryFixture()
	repo.err = errors.New("db down")
	svc := newInventoryService(repo, nil, config.ForecastConfig{})

	_, err := svc.GetDashboard(context.Background(), tenantID)
	require.Error(t, err)

	var dae *domain.DataAccessError
	assert.ErrorAs(t, err, &dae)
}

func TestGetDashboardRiskCountMatchesRiskList(t *testing.T) {
	product := uuid.New()
	repo := &fakeSalesRepo{
		products: []domain.ProductSnapshot{{ID: product, Name: "Oats", SKU: "O-1", CurrentStock: 50, CostPrice: 10}},
		sales:    map[uuid.UUID][]domain.DailySalesPoint{product: flat(30, 5)},
	}
	svc := newInventoryService(repo, nil, config.ForecastConfig{StockoutThresholdDays: 14})

	dashboard, err := svc.GetDashboard(context.Background(), tenantID)
	require.NoError(t, err)

	require.Len(t, dashboard.StockoutRisks, 1)
	assert.Equal(t, 10, dashboard.StockoutRisks[0].DaysUntilStockout)
	assert.Equal(t, 1, dashboard.Health.StockoutRiskCount)
}
