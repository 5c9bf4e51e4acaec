package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache shared across server instances
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	codec  Codec
}

// NewRedis connects to the Redis URL and verifies the connection
func NewRedis(url, prefix string, ttl time.Duration, codec Codec) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		// Fallback to a bare address
		opts = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWithClient(client, prefix, ttl, codec), nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client *redis.Client, prefix string, ttl time.Duration, codec Codec) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		codec:  codec,
	}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get decodes the stored entry into dst
func (r *Redis) Get(ctx context.Context, key string, dst interface{}) error {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	return r.codec.Decode(data, dst)
}

// Set stores value with the configured TTL
func (r *Redis) Set(ctx context.Context, key string, value interface{}) error {
	data, err := r.codec.Encode(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the client
func (r *Redis) Close() error {
	return r.client.Close()
}
