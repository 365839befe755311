package adapter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient defines the interface for Redis operations to enable mocking
//
//go:generate mockgen -source=redis.go -destination=../mocks/redis.go -package=mocks -mock_names=RedisClient=MockRedisClient
type RedisClient interface {
	// Ping checks if Redis is reachable
	Ping(ctx context.Context) error

	// Get retrieves the value of a key; returns redis.Nil error when absent
	Get(ctx context.Context, key string) (string, error)

	// Set stores a key with a TTL (0 means no expiry)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes keys
	Delete(ctx context.Context, keys ...string) error

	// Close closes the Redis connection
	Close() error
}

// IsRedisNil reports whether an error is the redis "key not found" sentinel
func IsRedisNil(err error) bool {
	return err == redis.Nil
}

// RealRedisClient wraps the actual Redis client
type RealRedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) RedisClient {
	return &RealRedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (r *RealRedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RealRedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RealRedisClient) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RealRedisClient) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RealRedisClient) Close() error {
	return r.client.Close()
}
