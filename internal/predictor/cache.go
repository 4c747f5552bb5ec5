package predictor

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient defines the subset of the Redis client used by the cache
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache stores integer predictions with a TTL
type RedisCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisCache(client RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(model, key string) string {
	return "cricket:prediction:" + model + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, model, key string) (int, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(model, key)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		// Treat a corrupt entry as a miss so it gets overwritten
		return 0, false, nil
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, model, key string, prediction int) error {
	return c.client.Set(ctx, cacheKey(model, key), strconv.Itoa(prediction), c.ttl).Err()
}
