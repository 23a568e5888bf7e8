package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/damon-houk/emission-decay/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "decay:quote:"

// RedisQuoteCache shares quotes between server instances through redis
type RedisQuoteCache struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedisQuoteCache connects to the redis server at addr
func NewRedisQuoteCache(addr string, expiration time.Duration) *RedisQuoteCache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisQuoteCache{
		client:     client,
		expiration: expiration,
	}
}

// Ping checks that the redis server is reachable
func (r *RedisQuoteCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Get returns the cached quote; any redis error counts as a miss
func (r *RedisQuoteCache) Get(ctx context.Context, key string) (*entity.Quote, bool) {
	val, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var quote entity.Quote
	if err := json.Unmarshal(val, &quote); err != nil {
		return nil, false
	}
	return &quote, true
}

// Put stores the quote with the cache expiration
func (r *RedisQuoteCache) Put(ctx context.Context, key string, quote *entity.Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, data, r.expiration).Err(); err != nil {
		return fmt.Errorf("failed to cache quote: %w", err)
	}
	return nil
}

// Close releases the redis connection pool
func (r *RedisQuoteCache) Close() error {
	return r.client.Close()
}
