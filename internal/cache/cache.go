// Package cache provides a Redis-backed cache for the product list.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/productos-api/internal/config"
	"github.com/Lixing-Zhang/productos-api/internal/models"
	"github.com/redis/go-redis/v9"
)

const listKey = "list"

// ListCache caches the full product list. Writers call Invalidate after every
// successful mutation.
type ListCache interface {
	Get(ctx context.Context) ([]models.Product, bool, error)
	Set(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// RedisListCache stores the product list as JSON under a single key.
type RedisListCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a cache over client. Keys are prefix + "list".
func New(client *redis.Client, prefix string, ttl time.Duration) *RedisListCache {
	return &RedisListCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Connect dials Redis with the configured address and verifies it with a PING.
func Connect(ctx context.Context, cfg config.CacheConfig) (*RedisListCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", cfg.RedisAddr, err)
	}

	return New(client, "productos:", cfg.TTL), nil
}

func (c *RedisListCache) key() string {
	return c.prefix + listKey
}

// Get returns the cached list and whether it was present.
func (c *RedisListCache) Get(ctx context.Context) ([]models.Product, bool, error) {
	data, err := c.client.Get(ctx, c.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return products, true, nil
}

// Set stores the list with the configured TTL.
func (c *RedisListCache) Set(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, c.key(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (c *RedisListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key()).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// Ping checks if the Redis connection is healthy.
func (c *RedisListCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *RedisListCache) Close() error {
	return c.client.Close()
}
