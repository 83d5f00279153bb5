package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyRequired is returned when Allow is called with an empty key.
var ErrKeyRequired = errors.New("rate limit key required")

// Limiter answers whether a request identified by key may proceed.
//
// Implementations fail open or closed as they see fit; callers treat an
// error as "do not limit" so a limiter outage never blocks resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// FixedWindow is a Redis-backed fixed window counter.
//
// The first request in a window creates the counter with a TTL equal to the
// window; subsequent requests only increment it, never touching the TTL, so
// the window is anchored at the first request instead of sliding. Once the
// count exceeds the limit the request is rejected until the key expires.
type FixedWindow struct {
	rdb    redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
}

// NewFixedWindow constructs a limiter allowing limit requests per window.
func NewFixedWindow(rdb redis.Cmdable, prefix string, limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindow{rdb: rdb, prefix: prefix, limit: int64(limit), window: window}
}

// Allow increments the counter for key and reports whether it is under the limit.
func (l *FixedWindow) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}

	limitKey := fmt.Sprintf("%s:%s", l.prefix, key)

	pipe := l.rdb.TxPipeline()
	countCmd := pipe.Incr(ctx, limitKey)
	pipe.ExpireNX(ctx, limitKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	count, err := countCmd.Result()
	if err != nil {
		return false, err
	}

	return count <= l.limit, nil
}

// Noop is a Limiter that always allows. Used when rate limiting is disabled.
type Noop struct{}

// Allow always reports true.
func (Noop) Allow(context.Context, string) (bool, error) {
	return true, nil
}
