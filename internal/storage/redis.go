package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisKV implements KV on a Redis server.
type RedisKV struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisKV connects to Redis and verifies the connection with PING.
func NewRedisKV(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*RedisKV, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: addr is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}

	logger.Debug("redis store connected", "addr", cfg.Addr, "db", cfg.DB)

	return newRedisKV(client, cfg.KeyPrefix, logger), nil
}

func newRedisKV(client *redis.Client, prefix string, logger *slog.Logger) *RedisKV {
	return &RedisKV{client: client, prefix: prefix, logger: logger}
}

// Get retrieves a value by key.
func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", r.mapErr(err)
	}
	return val, nil
}

// Set stores a key-value pair without expiry.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.mapErr(r.client.Set(ctx, r.prefix+key, value, 0).Err())
}

// Remove deletes a key.
func (r *RedisKV) Remove(ctx context.Context, key string) error {
	return r.mapErr(r.client.Del(ctx, r.prefix+key).Err())
}

// Close closes the client connection pool.
func (r *RedisKV) Close() error {
	err := r.client.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

func (r *RedisKV) mapErr(err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return err
}
