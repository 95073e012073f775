// Package cache provides Redis cache access layer.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStatsTTL is used when no positive stats TTL is configured.
const DefaultStatsTTL = 5 * time.Minute

// Cache provides Redis cache access methods.
type Cache struct {
	client   *redis.Client
	statsTTL time.Duration
}

// New creates a new Cache with a Redis client.
func New(ctx context.Context, redisURL string, statsTTL time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewWithClient(client, statsTTL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, statsTTL time.Duration) *Cache {
	if statsTTL <= 0 {
		statsTTL = DefaultStatsTTL
	}
	return &Cache{client: client, statsTTL: statsTTL}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client.
// Use sparingly - prefer adding methods to Cache.
func (c *Cache) Client() *redis.Client {
	return c.client
}
