package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis so several server instances share them.
// Connection failures are retried according to its RetryPolicy.
type RedisCache struct {
	client *redis.Client
	retry  RetryPolicy
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithRetryPolicy replaces DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) RedisOption {
	return func(c *RedisCache) { c.retry = p }
}

// NewRedisCache connects to the Redis server at rawURL
// ("redis://[:password@]host:port/db").
func NewRedisCache(ctx context.Context, rawURL string, opts ...RedisOption) (*RedisCache, error) {
	ropts, err := redisOptions(rawURL)
	if err != nil {
		return nil, err
	}
	c := &RedisCache{client: redis.NewClient(ropts), retry: DefaultRetryPolicy}
	for _, opt := range opts {
		opt(c)
	}
	err = c.retry.Do(ctx, func() error {
		return classify(c.client.Ping(ctx).Err())
	})
	if err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", ropts.Addr, err)
	}
	return c, nil
}

// redisOptions parses rawURL into client options.
func redisOptions(rawURL string) (*redis.Options, error) {
	ropts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	ropts.DialTimeout = 2 * time.Second
	// RetryPolicy owns retries; go-redis would otherwise retry each attempt too.
	ropts.MaxRetries = -1
	return ropts, nil
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	hit := false
	err := c.retry.Do(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return classify(err)
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

// Set stores a value in Redis with the given ttl.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.retry.Do(ctx, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry.Do(ctx, func() error {
		return classify(c.client.Del(ctx, key).Err())
	})
}

// Close closes the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks network failures as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return err
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
