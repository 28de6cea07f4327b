package maps

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache is the byte store behind CachedGeocoder.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedGeocoder memoizes successful lookups. Cache failures are logged and
// never fail the lookup itself.
type CachedGeocoder struct {
	next   Geocoder
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGeocoder(next Geocoder, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (Place, error) {
	key := geocodeKey(address)
	if key == "" {
		return Place{}, ErrEmptyAddress
	}

	b, err := g.cache.Get(ctx, key)
	switch {
	case err == nil:
		var p Place
		if uerr := json.Unmarshal(b, &p); uerr == nil {
			return p, nil
		}
		g.logger.Warn("discarding malformed geocode cache entry", zap.String("key", key))
	case !errors.Is(err, ErrCacheMiss):
		g.logger.Warn("geocode cache read failed", zap.String("key", key), zap.Error(err))
	}

	p, err := g.next.Geocode(ctx, address)
	if err != nil {
		return Place{}, err
	}
	if b, err := json.Marshal(p); err == nil {
		if err := g.cache.Set(ctx, key, b, g.ttl); err != nil {
			g.logger.Warn("geocode cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return p, nil
}

func geocodeKey(address string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	if norm == "" {
		return ""
	}
	return "geocode:" + norm
}
