package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/hotstock/backend/pkg/config"
)

// Redis is a Store backed by a Redis instance.
// Survives process restarts, which keeps ranking feeds warm across the
// scheduler's short-lived runs.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis connects to Redis and verifies the connection
// ⭐ SSOT: redis.NewClient 只在这里调用
func NewRedis(cfg *config.Config, prefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Redis{rdb: rdb, prefix: prefix}, nil
}

// Get retrieves a cached value
func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.rdb.Get(ctx, r.fullKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return r.rdb.Set(ctx, r.fullKey(key), data, ttl).Err()
}

// Delete removes a cached value
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.fullKey(key)).Err()
}

// Close closes the Redis connection
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", r.prefix, key)
}
