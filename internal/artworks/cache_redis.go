package artworks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dataloaders/internal/platform/metrics"
)

const redisKeyPrefix = "dataloaders:artworks:"

// RedisCache stores artworks API responses as JSON with a fixed TTL.
type RedisCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRedisCache constructs a Redis-backed response cache. metrics may be nil.
func NewRedisCache(client redis.Cmdable, ttl time.Duration, metrics *metrics.Metrics) *RedisCache {
	return &RedisCache{
		client:  client,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Get decodes the entry for key into dst. It reports false on a miss.
func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.recordMiss()
			return false, nil
		}
		return false, fmt.Errorf("get artworks cache: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.recordMiss()
		return false, fmt.Errorf("decode artworks cache: %w", err)
	}
	c.recordHit()
	return true, nil
}

// Set stores value under key for the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode artworks cache: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("save artworks cache: %w", err)
	}
	return nil
}

func (c *RedisCache) recordHit() {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheHit("artworks")
}

func (c *RedisCache) recordMiss() {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheMiss("artworks")
}
