package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
	"github.com/folio-labs/portfolio-backend/internal/projects/service"
)

const (
	listKey    = "portfolio:projects:all" // Cached FindAll result
	genKey     = "portfolio:projects:gen" // Bumped on every invalidation
	DefaultTTL = 10 * time.Minute
)

// errStale reports that a write happened while the list was being loaded.
var errStale = errors.New("project list changed while loading")

// CachedStore puts a Redis read-through cache in front of the project list.
// Single-record reads go straight to the wrapped store; every write drops the
// cached list so the next read sees it.
type CachedStore struct {
	next   service.Store
	client *redis.Client
	ttl    time.Duration
}

var _ service.Store = (*CachedStore)(nil)

// NewCachedStore wraps next. A non-positive ttl falls back to DefaultTTL.
func NewCachedStore(next service.Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedStore{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func (c *CachedStore) FindOne(ctx context.Context, id int64) (*domain.Project, error) {
	return c.next.FindOne(ctx, id)
}

// FindAll serves the list from Redis when present. Cache errors are logged and
// the store is used instead. A loaded list is only cached when no write
// invalidated the cache while it was being read.
func (c *CachedStore) FindAll(ctx context.Context) ([]domain.Project, error) {
	items, err := c.cached(ctx)
	switch {
	case err == nil:
		return items, nil
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("key", listKey).Msg("project cache read failed")
	}

	gen, genErr := c.generation(ctx)
	items, err = c.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if genErr != nil {
		log.Warn().Err(genErr).Str("key", genKey).Msg("project cache generation read failed")
		return items, nil
	}
	if err := c.store(ctx, gen, items); err != nil && !errors.Is(err, errStale) {
		log.Warn().Err(err).Str("key", listKey).Msg("project cache write failed")
	}
	return items, nil
}

func (c *CachedStore) Insert(ctx context.Context, f domain.ProjectFields) (*domain.Project, error) {
	p, err := c.next.Insert(ctx, f)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return p, nil
}

func (c *CachedStore) Update(ctx context.Context, id int64, f domain.ProjectFields) (*domain.Project, error) {
	p, err := c.next.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return p, nil
}

func (c *CachedStore) Delete(ctx context.Context, id int64) (*domain.Project, error) {
	p, err := c.next.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return p, nil
}

// Ping only reports the store; a missing cache degrades to store reads.
func (c *CachedStore) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

func (c *CachedStore) Close() error {
	cacheErr := c.client.Close()
	if err := c.next.Close(); err != nil {
		return err
	}
	return cacheErr
}

// Refresh reloads the list from the store and overwrites the cached copy.
// Returns the number of projects loaded. A write racing the reload leaves the
// cache empty for the next read to fill.
func (c *CachedStore) Refresh(ctx context.Context) (int, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}

	items, err := c.next.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load projects: %w", err)
	}

	err = c.store(ctx, gen, items)
	switch {
	case errors.Is(err, errStale):
		log.Info().Msg("project list changed during refresh, cache left empty")
	case err != nil:
		return 0, fmt.Errorf("failed to write project cache: %w", err)
	}
	return len(items), nil
}

func (c *CachedStore) cached(ctx context.Context) ([]domain.Project, error) {
	data, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		return nil, err
	}

	var items []domain.Project
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached projects: %w", err)
	}
	return items, nil
}

// generation returns the current invalidation counter; a missing key is 0.
func (c *CachedStore) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// store writes items only if the generation still equals gen. It returns
// errStale when an invalidation got in between.
func (c *CachedStore) store(ctx context.Context, gen int64, items []domain.Project) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, listKey, data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return errStale
	}
	return err
}

func (c *CachedStore) invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Del(ctx, listKey)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("key", listKey).Msg("project cache invalidation failed")
	}
}
