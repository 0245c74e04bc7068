package service

import (
	"context"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/metrics"
	"github.com/andresuchdata/stockcast/internal/recommend"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const recommendationCacheName = "recommendations"

type RecommendationService struct {
	engine *recommend.Engine
	cache  cache.RecommendationCache
}

func NewRecommendationService(engine *recommend.Engine, cacheImpl cache.RecommendationCache) *RecommendationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopRecommendationCache()
	}
	return &RecommendationService{engine: engine, cache: cacheImpl}
}

// NewRecommendEngineOptions maps configuration onto engine options.
func NewRecommendEngineOptions(cfg config.RecommendConfig) recommend.Options {
	return recommend.Options{
		DefaultLimit:   cfg.DefaultLimit,
		PopularDays:    cfg.PopularDays,
		NewArrivalDays: cfg.NewArrivalDays,
	}
}

func (s *RecommendationService) GetRecommendations(ctx context.Context, tenantID uuid.UUID, rc domain.RecommendationContext) (domain.RecommendationBundle, error) {
	bundle, err := s.engine.GetRecommendations(ctx, tenantID, rc)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("recommendations: bundle failed")
		return nil, err
	}

	for strategy, recs := range bundle {
		metrics.RecordRecommendation(strategy, len(recs), nil)
	}
	return bundle, nil
}

// GetPopularProducts caches by the effective limit and window, so 0 and the
// default share one entry.
func (s *RecommendationService) GetPopularProducts(ctx context.Context, tenantID uuid.UUID, limit, days int) ([]domain.ProductRecommendation, error) {
	limit, days = s.engine.PopularParams(limit, days)
	key := cache.RecommendationKey{TenantID: tenantID, Strategy: domain.StrategyPopular, Limit: limit, Days: days}
	return s.cached(ctx, key, func() ([]domain.ProductRecommendation, error) {
		return s.engine.GetPopularProducts(ctx, tenantID, limit, days)
	})
}

func (s *RecommendationService) GetNewArrivals(ctx context.Context, tenantID uuid.UUID, limit, days int) ([]domain.ProductRecommendation, error) {
	limit, days = s.engine.NewArrivalParams(limit, days)
	key := cache.RecommendationKey{TenantID: tenantID, Strategy: domain.StrategyNewArrivals, Limit: limit, Days: days}
	return s.cached(ctx, key, func() ([]domain.ProductRecommendation, error) {
		return s.engine.GetNewArrivals(ctx, tenantID, limit, days)
	})
}

func (s *RecommendationService) GetFrequentlyBoughtTogether(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]domain.ProductRecommendation, error) {
	recs, err := s.engine.GetFrequentlyBoughtTogether(ctx, tenantID, productID, limit)
	metrics.RecordRecommendation(domain.StrategyFrequentlyBoughtTogether, len(recs), err)
	return recs, err
}

func (s *RecommendationService) GetSimilarProducts(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]domain.ProductRecommendation, error) {
	recs, err := s.engine.GetSimilarProducts(ctx, tenantID, productID, limit)
	metrics.RecordRecommendation(domain.StrategySimilarProducts, len(recs), err)
	return recs, err
}

func (s *RecommendationService) GetCartRecommendations(ctx context.Context, tenantID uuid.UUID, cartItems []uuid.UUID, limit int) ([]domain.ProductRecommendation, error) {
	recs, err := s.engine.GetCartRecommendations(ctx, tenantID, cartItems, limit)
	metrics.RecordRecommendation(domain.StrategyCartBased, len(recs), err)
	return recs, err
}

func (s *RecommendationService) GetPersonalizedRecommendations(ctx context.Context, tenantID, customerID uuid.UUID, limit int) ([]domain.ProductRecommendation, error) {
	recs, err := s.engine.GetPersonalizedRecommendations(ctx, tenantID, customerID, limit)
	metrics.RecordRecommendation(domain.StrategyPersonalized, len(recs), err)
	return recs, err
}

// InvalidateTenant drops cached tenant-wide lists, e.g. after catalog edits.
func (s *RecommendationService) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	return s.cache.InvalidateTenant(ctx, tenantID)
}

func (s *RecommendationService) cached(ctx context.Context, key cache.RecommendationKey, load func() ([]domain.ProductRecommendation, error)) ([]domain.ProductRecommendation, error) {
	if recs, ok, err := s.cache.GetList(ctx, key); err == nil && ok {
		metrics.RecordCacheLookup(recommendationCacheName, true)
		metrics.RecordRecommendation(key.Strategy, len(recs), nil)
		return recs, nil
	} else if err != nil {
		log.Warn().Err(err).Str("strategy", key.Strategy).Msg("recommendations: cache get failed")
	}
	metrics.RecordCacheLookup(recommendationCacheName, false)

	recs, err := load()
	metrics.RecordRecommendation(key.Strategy, len(recs), err)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetList(ctx, key, recs); err != nil {
		log.Warn().Err(err).Str("strategy", key.Strategy).Msg("recommendations: cache set failed")
	}

	return recs, nil
}
