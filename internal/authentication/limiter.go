package authentication

import (
	"context"
	"time"

	"smartpersona/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter allows at most Limit attempts per key in a fixed window.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := utils.IncrWindowCounter(ctx, l.rdb, key, l.window)
	if err != nil {
		return false, err
	}
	return n <= int64(l.limit), nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return utils.ResetWindowCounter(ctx, l.rdb, key)
}
