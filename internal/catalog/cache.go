package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
	"github.com/cardapiohub/cardapio-backend/pkg/redis"
)

// CachedReader is a read-through cache in front of another Reader. Cache
// failures are logged and fall back to the wrapped reader.
type CachedReader struct {
	next  Reader
	cache redis.JSONCache
	ttl   time.Duration
	logg  *logger.Logger
}

func NewCachedReader(next Reader, cache redis.JSONCache, ttl time.Duration, logg *logger.Logger) *CachedReader {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedReader{next: next, cache: cache, ttl: ttl, logg: logg}
}

func (c *CachedReader) FetchCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*Category, error) {
	key := redis.CatalogKey("category", storeID.String(), categoryID.String())
	return readThrough(ctx, c, key, func() (*Category, error) {
		return c.next.FetchCategory(ctx, storeID, categoryID)
	})
}

func (c *CachedReader) FetchSize(ctx context.Context, categoryID, sizeID uuid.UUID) (*Size, error) {
	key := redis.CatalogKey("size", categoryID.String(), sizeID.String())
	return readThrough(ctx, c, key, func() (*Size, error) {
		return c.next.FetchSize(ctx, categoryID, sizeID)
	})
}

func (c *CachedReader) FetchSizes(ctx context.Context, categoryID uuid.UUID) ([]Size, error) {
	key := redis.CatalogKey("sizes", categoryID.String())
	return readThrough(ctx, c, key, func() ([]Size, error) {
		return c.next.FetchSizes(ctx, categoryID)
	})
}

func (c *CachedReader) FetchOptionsForSize(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind) ([]PriceableOption, error) {
	key := redis.CatalogKey("options", categoryID.String(), sizeID.String(), kind.String())
	return readThrough(ctx, c, key, func() ([]PriceableOption, error) {
		return c.next.FetchOptionsForSize(ctx, categoryID, sizeID, kind)
	})
}

func (c *CachedReader) FetchAdditionals(ctx context.Context, categoryID uuid.UUID) ([]Additional, error) {
	key := redis.CatalogKey("additionals", categoryID.String())
	return readThrough(ctx, c, key, func() ([]Additional, error) {
		return c.next.FetchAdditionals(ctx, categoryID)
	})
}

func (c *CachedReader) FetchDrinkOptions(ctx context.Context, storeID, categoryID uuid.UUID) ([]Product, error) {
	key := redis.CatalogKey("drinks", storeID.String(), categoryID.String())
	return readThrough(ctx, c, key, func() ([]Product, error) {
		return c.next.FetchDrinkOptions(ctx, storeID, categoryID)
	})
}

func (c *CachedReader) FetchProducts(ctx context.Context, storeID, categoryID uuid.UUID, limit int) ([]Product, error) {
	key := redis.CatalogKey("products", storeID.String(), categoryID.String(), strconv.Itoa(limit))
	return readThrough(ctx, c, key, func() ([]Product, error) {
		return c.next.FetchProducts(ctx, storeID, categoryID, limit)
	})
}

func readThrough[T any](ctx context.Context, c *CachedReader, key string, load func() (T, error)) (T, error) {
	var cached T
	found, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog.cache.read_failed")
	}
	if found {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if err := c.cache.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog.cache.write_failed")
	}
	return value, nil
}
