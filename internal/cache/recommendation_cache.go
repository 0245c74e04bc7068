package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

const recommendationKeyPrefix = "recommendations"

// RecommendationKey identifies a tenant-wide recommendation list. Only
// strategies that do not depend on a customer, product or cart are cached.
type RecommendationKey struct {
	TenantID uuid.UUID
	Strategy string
	Limit    int
	Days     int
}

type RecommendationCache interface {
	GetList(ctx context.Context, key RecommendationKey) ([]domain.ProductRecommendation, bool, error)
	SetList(ctx context.Context, key RecommendationKey, recs []domain.ProductRecommendation) error
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

type redisRecommendationCache struct {
	store *redisStore
}

type noopRecommendationCache struct{}

func NewRecommendationCache(cfg config.CacheConfig) (RecommendationCache, error) {
	if !cfg.Enabled {
		return &noopRecommendationCache{}, nil
	}

	store, err := newRedisStore(cfg, cfg.RecommendationTTLSeconds)
	if err != nil {
		return nil, err
	}
	return &redisRecommendationCache{store: store}, nil
}

func NewNoopRecommendationCache() RecommendationCache {
	return &noopRecommendationCache{}
}

func (c *redisRecommendationCache) GetList(ctx context.Context, key RecommendationKey) ([]domain.ProductRecommendation, bool, error) {
	var recs []domain.ProductRecommendation
	found, err := c.store.getJSON(ctx, buildRecommendationKey(key), &recs)
	if err != nil || !found {
		return nil, false, err
	}
	return recs, true, nil
}

// SetList stores nil as an empty list so a cached miss still decodes as [].
func (c *redisRecommendationCache) SetList(ctx context.Context, key RecommendationKey, recs []domain.ProductRecommendation) error {
	if recs == nil {
		recs = []domain.ProductRecommendation{}
	}
	return c.store.setJSON(ctx, buildRecommendationKey(key), recs)
}

func (c *redisRecommendationCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	return c.store.deletePrefix(ctx, tenantRecommendationPrefix(tenantID))
}

func (n *noopRecommendationCache) GetList(ctx context.Context, key RecommendationKey) ([]domain.ProductRecommendation, bool, error) {
	return nil, false, nil
}

func (n *noopRecommendationCache) SetList(ctx context.Context, key RecommendationKey, recs []domain.ProductRecommendation) error {
	return nil
}

func (n *noopRecommendationCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	return nil
}

func tenantRecommendationPrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:", recommendationKeyPrefix, tenantID)
}

func buildRecommendationKey(key RecommendationKey) string {
	parts := []string{
		"strategy=" + strings.ToLower(key.Strategy),
		fmt.Sprintf("limit=%d", key.Limit),
		fmt.Sprintf("days=%d", key.Days),
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return tenantRecommendationPrefix(key.TenantID) + hex.EncodeToString(hash[:])
}
