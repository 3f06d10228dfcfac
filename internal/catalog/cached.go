package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukerupert/kinderkit/internal/domain"
)

const (
	productKeyPrefix = "catalog:product:"
	productsKey      = "catalog:products"
	maxJitterMinutes = 5
)

// Cached is a read-through Redis cache in front of another catalog.
// Cache failures are logged and served from the origin.
type Cached struct {
	origin  Catalog
	client  *redis.Client
	baseTTL time.Duration
	logger  *slog.Logger
}

var _ Catalog = (*Cached)(nil)

// NewCached wraps origin. Entries live for ttl plus up to five minutes of
// jitter so they do not expire together.
func NewCached(origin Catalog, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cached{
		origin:  origin,
		client:  client,
		baseTTL: ttl,
		logger:  logger.With(slog.String("component", "catalog_cache")),
	}
}

func (c *Cached) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	key := productKeyPrefix + id

	var p domain.Product
	if c.get(ctx, key, &p) {
		return p, nil
	}

	p, err := c.origin.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	c.set(ctx, key, p)
	return p, nil
}

func (c *Cached) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if c.get(ctx, productsKey, &products) {
		return products, nil
	}

	products, err := c.origin.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, productsKey, products)
	return products, nil
}

// Invalidate drops the cached list and the given products.
func (c *Cached) Invalidate(ctx context.Context, ids ...string) error {
	keys := []string{productsKey}
	for _, id := range ids {
		keys = append(keys, productKeyPrefix+id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *Cached) get(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("redis get failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("dropping undecodable cache entry", slog.String("key", key), slog.String("error", err.Error()))
		_ = c.client.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cached) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to encode cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return
	}

	jitter := time.Duration(rand.Intn(maxJitterMinutes)) * time.Minute
	if err := c.client.Set(ctx, key, data, c.baseTTL+jitter).Err(); err != nil {
		c.logger.Warn("redis set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
