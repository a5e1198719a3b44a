package flowconfig

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/pkg/logger"
	"github.com/cardapiohub/cardapio-backend/pkg/redis"
)

// CachedSource keeps a store's flow config in Redis for ttl.
type CachedSource struct {
	next  Source
	cache redis.JSONCache
	ttl   time.Duration
	logg  *logger.Logger
}

func NewCachedSource(next Source, cache redis.JSONCache, ttl time.Duration, logg *logger.Logger) *CachedSource {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedSource{next: next, cache: cache, ttl: ttl, logg: logg}
}

func (c *CachedSource) FetchFlowConfig(ctx context.Context, storeID uuid.UUID) (Config, error) {
	key := redis.FlowConfigKey(storeID.String())

	var cached Config
	found, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "flowconfig.cache.read_failed")
	}
	if found && cached != nil {
		return cached, nil
	}

	cfg, err := c.next.FetchFlowConfig(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetJSON(ctx, key, cfg, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "flowconfig.cache.write_failed")
	}
	return cfg, nil
}

// Invalidate drops the cached config of a store.
func (c *CachedSource) Invalidate(ctx context.Context, storeID uuid.UUID) error {
	return c.cache.Del(ctx, redis.FlowConfigKey(storeID.String()))
}
