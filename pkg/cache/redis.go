package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/labelgraph/pkg/httputil"
)

// RedisCache stores entries in Redis under their key. Expiry uses native
// Redis TTLs.
type RedisCache struct {
	client     redis.UniversalClient
	retryDelay time.Duration
}

// NewRedisCache wraps an existing client. The cache owns the client and
// closes it in Close.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client, retryDelay: httputil.DefaultDelay}
}

// DialRedis connects to the Redis server at addr and verifies the connection
// with PING.
func DialRedis(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrBackend, addr, err)
	}
	return NewRedisCache(client), nil
}

// Get retrieves a value from Redis. Transient network failures are retried.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := httputil.Retry(ctx, httputil.DefaultAttempts, c.retryDelay, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			return classify(err)
		}
		data = b
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrBackend, err)
	}
	return data, true, nil
}

// Set stores a value in Redis. A ttl <= 0 stores the entry without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	err := httputil.Retry(ctx, httputil.DefaultAttempts, c.retryDelay, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
	if err != nil {
		return fmt.Errorf("%w: set: %v", ErrBackend, err)
	}
	return nil
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrBackend, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks network errors as retryable; redis.Nil and server replies
// are returned unchanged.
func classify(err error) error {
	var netErr net.Error
	if err != nil && errors.As(err, &netErr) {
		return httputil.Retryable(err)
	}
	return err
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
