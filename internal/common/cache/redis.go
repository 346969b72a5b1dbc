// internal/common/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"estate-admin/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	return &RedisClient{Client: rdb}
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// RedisSnapshots persists store snapshots as JSON under a common key prefix.
type RedisSnapshots struct {
	client *RedisClient
	prefix string
	ttl    time.Duration
}

func NewRedisSnapshots(client *RedisClient, prefix string, ttl time.Duration) *RedisSnapshots {
	return &RedisSnapshots{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisSnapshots) key(name string) string {
	if s.prefix == "" {
		return "snapshot:" + name
	}
	return s.prefix + ":snapshot:" + name
}

// Save overwrites the snapshot stored under name.
func (s *RedisSnapshots) Save(ctx context.Context, name string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", name, err)
	}
	if err := s.client.Client.Set(ctx, s.key(name), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	return nil
}

// Load decodes the snapshot stored under name into out. It reports false
// when no snapshot exists.
func (s *RedisSnapshots) Load(ctx context.Context, name string, out interface{}) (bool, error) {
	payload, err := s.client.Client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return true, nil
}

// Delete removes the snapshot stored under name.
func (s *RedisSnapshots) Delete(ctx context.Context, name string) error {
	return s.client.Client.Del(ctx, s.key(name)).Err()
}
