// Package catalog reads product records from the upstream catalog.
//
// The cart never reads the catalog. The HTTP layer resolves a product ID
// through a Catalog and hands the record to the cart.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/dukerupert/kinderkit/internal"
	"github.com/dukerupert/kinderkit/internal/domain"
)

// Catalog is a read-only product source.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Open builds the catalog described by cfg. Without a database URL the seed
// catalog is returned. A Postgres catalog is wrapped in a circuit breaker and,
// when a Redis URL is set, a read-through cache. The returned func releases
// every connection Open made.
func Open(ctx context.Context, cfg internal.CatalogConfig, logger *slog.Logger) (Catalog, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using seed catalog")
		return NewMemory(SeedProducts()), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create catalog pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}
	logger.Info("connected to catalog database")

	if cfg.Migrate {
		db := stdlib.OpenDBFromPool(pool)
		err := internal.RunCatalogMigrations(db)
		_ = db.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("catalog migrations applied")
	}

	var c Catalog = NewBreaker(NewPostgres(pool, cfg.Timeout), BreakerSettings{Name: "catalog-postgres"}, logger)
	cleanup := pool.Close

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to parse catalog redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("catalog cache unavailable, continuing without it", slog.String("error", err.Error()))
			_ = client.Close()
		} else {
			c = NewCached(c, client, cfg.CacheTTL, logger)
			cleanup = func() {
				_ = client.Close()
				pool.Close()
			}
		}
	}

	return c, cleanup, nil
}
