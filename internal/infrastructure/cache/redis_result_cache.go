package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appfinance "github.com/wms/backend/internal/application/finance"
)

// RedisResultCache implements ResultCache using Redis. This is suitable for
// distributed deployments where multiple instances serve the same tenants.
type RedisResultCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisOptions holds Redis connection configuration.
type RedisOptions struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisResultCache creates a new Redis-backed result cache.
func NewRedisResultCache(opts RedisOptions) (*RedisResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisResultCache{
		client:    client,
		keyPrefix: "finance:dashboard:",
	}, nil
}

// NewRedisResultCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisResultCacheWithClient(client *redis.Client, keyPrefix string) *RedisResultCache {
	if keyPrefix == "" {
		keyPrefix = "finance:dashboard:"
	}
	return &RedisResultCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached result for key, if present.
func (c *RedisResultCache) Get(ctx context.Context, key string) (*appfinance.ReconciliationResult, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached result: %w", err)
	}

	var result appfinance.ReconciliationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached result: %w", err)
	}

	return &result, true, nil
}

// Set stores a result under key with the given TTL.
func (c *RedisResultCache) Set(ctx context.Context, key string, result *appfinance.ReconciliationResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cached result: %w", err)
	}

	return nil
}

// Close closes the Redis client.
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}

// Ensure RedisResultCache implements ResultCache
var _ appfinance.ResultCache = (*RedisResultCache)(nil)
