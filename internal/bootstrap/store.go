package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/folio-labs/portfolio-backend/config"
	"github.com/folio-labs/portfolio-backend/internal/projects/cache"
	"github.com/folio-labs/portfolio-backend/internal/projects/repository"
	"github.com/folio-labs/portfolio-backend/internal/projects/service"
	"github.com/folio-labs/portfolio-backend/internal/storage/postgres"
)

// OpenStore builds the record store selected by STORE_DRIVER and, when
// REDIS_ADDR is set, wraps it with the list cache. The returned *CachedStore
// is nil without Redis.
func OpenStore(ctx context.Context, cfg *config.Config) (service.Store, *cache.CachedStore, error) {
	var store service.Store

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.OpenPool(ctx, &cfg.Database, postgres.Options{})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store = repository.NewProjectRepository(pool)
	case config.DriverSQLite:
		repo, err := repository.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store = repo
	case config.DriverMemory:
		store = repository.NewMemoryRepository()
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("record store ready")

	if cfg.Redis.Addr == "" {
		return store, nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		// The cache is optional; reads still work through the store.
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, cache may miss until it recovers")
	}

	cached := cache.NewCachedStore(store, client, cfg.Redis.CacheTTL)
	return cached, cached, nil
}
