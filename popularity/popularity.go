package popularity

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"newsrag/config"
)

// Tracker keeps a frequency leaderboard of asked queries. Record must be
// safe for concurrent callers.
type Tracker interface {
	Record(ctx context.Context, query string) error
	TopN(ctx context.Context, n int) ([]string, error)
}

// RedisTracker implements Tracker on a Redis sorted set; ZINCRBY gives
// atomic per-query increments across concurrent requests.
type RedisTracker struct {
	client *redis.Client
	key    string
}

// NewRedisTracker creates a tracker on the standard popularity key.
func NewRedisTracker(client *redis.Client) *RedisTracker {
	return &RedisTracker{client: client, key: config.PopularityKey}
}

// Record increments the query's frequency score by one.
func (t *RedisTracker) Record(ctx context.Context, query string) error {
	if err := t.client.ZIncrBy(ctx, t.key, 1, query).Err(); err != nil {
		return fmt.Errorf("recording query popularity: %w", err)
	}
	return nil
}

// TopN returns up to n queries, highest frequency first.
func (t *RedisTracker) TopN(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	queries, err := t.client.ZRevRange(ctx, t.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading query popularity: %w", err)
	}
	return queries, nil
}
