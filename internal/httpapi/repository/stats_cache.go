package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no cached entry exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// StatsCache keeps computed per-user statistics in Redis so repeat stats
// requests don't rescan the ratings table. Entries are invalidated on every
// rating write, so the TTL is only a backstop.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache connects to Redis and verifies the connection. A nil
// *StatsCache is a valid no-op cache, so callers without Redis configured
// can skip construction entirely.
func NewStatsCache(redisURL string, ttl time.Duration) (*StatsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &StatsCache{client: rdb, ttl: ttl}, nil
}

func statsKey(userID string) string {
	return fmt.Sprintf("stats:user:%s", userID)
}

// Get returns the cached stats payload for a user, or ErrCacheMiss.
func (c *StatsCache) Get(ctx context.Context, userID string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, ErrCacheMiss
	}

	payload, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Set stores the stats payload for a user with the configured TTL.
func (c *StatsCache) Set(ctx context.Context, userID string, payload []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, statsKey(userID), payload, c.ttl).Err()
}

// Invalidate drops the cached stats for a user. Called after every rating
// create, update and delete.
func (c *StatsCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, statsKey(userID)).Err()
}

// Close releases the underlying Redis connection.
func (c *StatsCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
