package category

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash that holds memoized classifications.
const DefaultRedisKey = "salary-registry:categories"

// RedisCache keeps classifications in one Redis hash so several server
// instances share a memo. Redis failures degrade to cache misses.
type RedisCache struct {
	client  *redis.Client
	key     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRedisCache wraps client. An empty key means DefaultRedisKey.
func NewRedisCache(client *redis.Client, key string, logger *slog.Logger) *RedisCache {
	if key == "" {
		key = DefaultRedisKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: client, key: key, timeout: 500 * time.Millisecond, logger: logger}
}

func (c *RedisCache) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func (c *RedisCache) Get(key string) (Info, bool) {
	ctx, cancel := c.ctx()
	defer cancel()
	data, err := c.client.HGet(ctx, c.key, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis cache get", "error", err)
		}
		return Info{}, false
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		c.logger.Warn("redis cache decode", "title", key, "error", err)
		return Info{}, false
	}
	return info, true
}

// Put stores info unless key is already present.
func (c *RedisCache) Put(key string, info Info) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	ctx, cancel := c.ctx()
	defer cancel()
	if err := c.client.HSetNX(ctx, c.key, key, data).Err(); err != nil {
		c.logger.Warn("redis cache put", "error", err)
	}
}

func (c *RedisCache) Clear() {
	ctx, cancel := c.ctx()
	defer cancel()
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		c.logger.Warn("redis cache clear", "error", err)
	}
}

func (c *RedisCache) Len() int {
	ctx, cancel := c.ctx()
	defer cancel()
	n, err := c.client.HLen(ctx, c.key).Result()
	if err != nil {
		c.logger.Warn("redis cache len", "error", err)
		return 0
	}
	return int(n)
}
