package cache

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockcast/internal/config"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/google/uuid"
)

const inventoryHealthKeyPrefix = "inventory:health"

// InventoryHealthCache stores the per-tenant inventory health rollup.
type InventoryHealthCache interface {
	GetHealth(ctx context.Context, tenantID uuid.UUID) (*domain.InventoryHealth, bool, error)
	SetHealth(ctx context.Context, tenantID uuid.UUID, health *domain.InventoryHealth) error
	InvalidateHealth(ctx context.Context, tenantID uuid.UUID) error
	InvalidateAll(ctx context.Context) error
}

type redisInventoryHealthCache struct {
	store *redisStore
}

type noopInventoryHealthCache struct{}

func NewInventoryHealthCache(cfg config.CacheConfig) (InventoryHealthCache, error) {
	if !cfg.Enabled {
		return &noopInventoryHealthCache{}, nil
	}

	store, err := newRedisStore(cfg, cfg.HealthTTLSeconds)
	if err != nil {
		return nil, err
	}
	return &redisInventoryHealthCache{store: store}, nil
}

func NewNoopInventoryHealthCache() InventoryHealthCache {
	return &noopInventoryHealthCache{}
}

func (c *redisInventoryHealthCache) GetHealth(ctx context.Context, tenantID uuid.UUID) (*domain.InventoryHealth, bool, error) {
	var health domain.InventoryHealth
	found, err := c.store.getJSON(ctx, inventoryHealthKey(tenantID), &health)
	if err != nil || !found {
		return nil, false, err
	}
	return &health, true, nil
}

func (c *redisInventoryHealthCache) SetHealth(ctx context.Context, tenantID uuid.UUID, health *domain.InventoryHealth) error {
	return c.store.setJSON(ctx, inventoryHealthKey(tenantID), health)
}

func (c *redisInventoryHealthCache) InvalidateHealth(ctx context.Context, tenantID uuid.UUID) error {
	return c.store.delete(ctx, inventoryHealthKey(tenantID))
}

func (c *redisInventoryHealthCache) InvalidateAll(ctx context.Context) error {
	return c.store.deletePrefix(ctx, inventoryHealthKeyPrefix+":")
}

func (n *noopInventoryHealthCache) GetHealth(ctx context.Context, tenantID uuid.UUID) (*domain.InventoryHealth, bool, error) {
	return nil, false, nil
}

func (n *noopInventoryHealthCache) SetHealth(ctx context.Context, tenantID uuid.UUID, health *domain.InventoryHealth) error {
	return nil
}

func (n *noopInventoryHealthCache) InvalidateHealth(ctx context.Context, tenantID uuid.UUID) error {
	return nil
}

func (n *noopInventoryHealthCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func inventoryHealthKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", inventoryHealthKeyPrefix, tenantID)
}
