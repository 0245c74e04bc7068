package recommend

import (
	"context"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/google/uuid"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	DefaultPopularDays    = 30
	DefaultNewArrivalDays = 30

	// PriceBandRatio bounds similar products to ±30% of the focal price.
	PriceBandRatio = 0.3
)

// Options holds the windows used when a caller does not pass one.
type Options struct {
	DefaultLimit   int
	PopularDays    int
	NewArrivalDays int
}

func DefaultOptions() Options {
	return Options{
		DefaultLimit:   DefaultLimit,
		PopularDays:    DefaultPopularDays,
		NewArrivalDays: DefaultNewArrivalDays,
	}
}

// Engine ranks product suggestions from purchase co-occurrence, catalog
// attributes and recency. It holds no mutable state and is safe for
// concurrent use; every call reads fresh from the repository.
type Engine struct {
	repo repository.PurchaseGraphRepository
	opts Options
}

func NewEngine(repo repository.PurchaseGraphRepository, opts Options) *Engine {
	if opts.DefaultLimit <= 0 || opts.DefaultLimit > MaxLimit {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.PopularDays <= 0 {
		opts.PopularDays = DefaultPopularDays
	}
	if opts.NewArrivalDays <= 0 {
		opts.NewArrivalDays = DefaultNewArrivalDays
	}
	return &Engine{repo: repo, opts: opts}
}

// GetRecommendations invokes every strategy the context has inputs for, plus
// popular and new arrivals, and returns one list per strategy. Lists are not
// deduplicated against each other.
func (e *Engine) GetRecommendations(ctx context.Context, tenantID uuid.UUID, rc domain.RecommendationContext) (domain.RecommendationBundle, error) {
	limit := e.normalizeLimit(rc.Limit)
	bundle := make(domain.RecommendationBundle)

	if rc.CustomerID != nil {
		recs, err := e.GetPersonalizedRecommendations(ctx, tenantID, *rc.CustomerID, limit)
		if err != nil {
			return nil, err
		}
		bundle[domain.StrategyPersonalized] = recs
	}

	if rc.ProductID != nil {
		recs, err := e.GetFrequentlyBoughtTogether(ctx, tenantID, *rc.ProductID, limit)
		if err != nil {
			return nil, err
		}
		bundle[domain.StrategyFrequentlyBoughtTogether] = recs

		recs, err = e.GetSimilarProducts(ctx, tenantID, *rc.ProductID, limit)
		if err != nil {
			return nil, err
		}
		bundle[domain.StrategySimilarProducts] = recs
	}

	if len(rc.CartItems) > 0 {
		recs, err := e.GetCartRecommendations(ctx, tenantID, rc.CartItems, limit)
		if err != nil {
			return nil, err
		}
		bundle[domain.StrategyCartBased] = recs
	}

	popular, err := e.GetPopularProducts(ctx, tenantID, limit, 0)
	if err != nil {
		return nil, err
	}
	bundle[domain.StrategyPopular] = popular

	arrivals, err := e.GetNewArrivals(ctx, tenantID, limit, 0)
	if err != nil {
		return nil, err
	}
	bundle[domain.StrategyNewArrivals] = arrivals

	return bundle, nil
}

func (e *Engine) normalizeLimit(limit int) int {
	if limit <= 0 {
		return e.opts.DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// PopularParams resolves the effective limit and window for popular lists.
func (e *Engine) PopularParams(limit, days int) (int, int) {
	if days <= 0 {
		days = e.opts.PopularDays
	}
	return e.normalizeLimit(limit), days
}

// NewArrivalParams resolves the effective limit and window for new arrivals.
func (e *Engine) NewArrivalParams(limit, days int) (int, int) {
	if days <= 0 {
		days = e.opts.NewArrivalDays
	}
	return e.normalizeLimit(limit), days
}
