package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter: the first hit in a window sets the
// expiry, later hits only increment.
type Limiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, max: int64(max), window: window}
}

// Allow reports whether key may proceed in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := keyPrefix + "ratelimit:" + key
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= l.max, nil
}
