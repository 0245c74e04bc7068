package service

import (
	"context"
	"time"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	healthCacheName          = "inventory_health"
	defaultDashboardTopRisks = 10
)

type InventoryService struct {
	engine *forecast.Engine
	cache  cache.InventoryHealthCache

	stockoutThresholdDays int
	dashboardTopRisks     int
}

func NewInventoryService(engine *forecast.Engine, cacheImpl cache.InventoryHealthCache, cfg config.ForecastConfig) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopInventoryHealthCache()
	}
	if cfg.StockoutThresholdDays <= 0 {
		cfg.StockoutThresholdDays = forecast.DefaultStockoutThresholdDays
	}
	if cfg.DashboardTopRisks <= 0 {
		cfg.DashboardTopRisks = defaultDashboardTopRisks
	}
	return &InventoryService{
		engine:                engine,
		cache:                 cacheImpl,
		stockoutThresholdDays: cfg.StockoutThresholdDays,
		dashboardTopRisks:     cfg.DashboardTopRisks,
	}
}

// NewForecastEngineOptions maps configuration onto engine options.
func NewForecastEngineOptions(cfg config.ForecastConfig) forecast.Options {
	opts := forecast.DefaultOptions()
	opts.StockoutScanMaxStock = cfg.ScanMaxStock
	if cfg.StockoutThresholdDays > 0 {
		opts.StockoutThresholdDays = cfg.StockoutThresholdDays
	}
	return opts
}

// ForecastDemand returns nil, nil for an unknown product.
func (s *InventoryService) ForecastDemand(ctx context.Context, tenantID, productID uuid.UUID, forecastDays int) (*domain.ForecastResult, error) {
	start := time.Now()
	result, err := s.engine.ForecastDemand(ctx, tenantID, productID, forecastDays)
	metrics.RecordForecast("forecast_demand", time.Since(start), result == nil, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetStockoutRisks uses the configured threshold when daysThreshold is
// negative (domain.StockoutThresholdUnset).
func (s *InventoryService) GetStockoutRisks(ctx context.Context, tenantID uuid.UUID, daysThreshold int) ([]domain.StockoutRisk, error) {
	if daysThreshold < 0 {
		daysThreshold = s.stockoutThresholdDays
	}

	start := time.Now()
	risks, err := s.engine.GetStockoutRisks(ctx, tenantID, daysThreshold)
	metrics.RecordForecast("stockout_risks", time.Since(start), false, err)
	return risks, err
}

func (s *InventoryService) GetReorderRecommendations(ctx context.Context, tenantID uuid.UUID) ([]domain.ReorderRecommendation, error) {
	start := time.Now()
	recs, err := s.engine.GetReorderRecommendations(ctx, tenantID)
	metrics.RecordForecast("reorder_recommendations", time.Since(start), false, err)
	return recs, err
}

func (s *InventoryService) GetInventoryHealth(ctx context.Context, tenantID uuid.UUID) (*domain.InventoryHealth, error) {
	if health, ok, err := s.cache.GetHealth(ctx, tenantID); err == nil && ok {
		metrics.RecordCacheLookup(healthCacheName, true)
		return health, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory: cache get health failed")
	}
	metrics.RecordCacheLookup(healthCacheName, false)

	start := time.Now()
	health, err := s.engine.GetInventoryHealth(ctx, tenantID)
	metrics.RecordForecast("inventory_health", time.Since(start), false, err)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetHealth(ctx, tenantID, health); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set health failed")
	}

	return health, nil
}

// InvalidateHealth drops the cached rollup, e.g. after a stock adjustment.
func (s *InventoryService) InvalidateHealth(ctx context.Context, tenantID uuid.UUID) error {
	return s.cache.InvalidateHealth(ctx, tenantID)
}

// GetDashboard loads health, the most urgent stockout risks and the reorder
// list concurrently.
func (s *InventoryService) GetDashboard(ctx context.Context, tenantID uuid.UUID) (*domain.InventoryDashboard, error) {
	var (
		health  *domain.InventoryHealth
		risks   []domain.StockoutRisk
		reorder []domain.ReorderRecommendation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		health, err = s.GetInventoryHealth(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		risks, err = s.GetStockoutRisks(gctx, tenantID, domain.StockoutThresholdUnset)
		return err
	})
	g.Go(func() error {
		var err error
		reorder, err = s.GetReorderRecommendations(gctx, tenantID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(risks) > s.dashboardTopRisks {
		risks = risks[:s.dashboardTopRisks]
	}

	return &domain.InventoryDashboard{
		Health:                 health,
		StockoutRisks:          risks,
		ReorderRecommendations: reorder,
	}, nil
}
