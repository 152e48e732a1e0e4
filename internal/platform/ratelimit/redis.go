package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every instance pointing at
// the same Redis.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	window time.Duration
	max    int
}

func NewRedisLimiter(rdb *redis.Client, prefix string, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix, window: window, max: max}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ratelimit incr %s: %w", redisKey, err)
	}
	return incr.Val() <= int64(l.max), nil
}
