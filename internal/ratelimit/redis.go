package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements Limiter on a single SET NX PX command.
// SET NX is atomic server-side, which closes the race window a separate
// read-then-write would leave open under concurrent duplicate deliveries.
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

func (l *RedisLimiter) CheckAndSet(ctx context.Context, phone, key string, ttl time.Duration) (bool, error) {
	if l.rdb == nil {
		return false, fmt.Errorf("ratelimit: redis client is nil")
	}
	if phone == "" || key == "" {
		return false, ErrInvalidKey
	}
	if ttl <= 0 {
		return false, fmt.Errorf("ratelimit: ttl must be > 0")
	}
	return l.rdb.SetNX(ctx, redisKey(phone, key), "1", ttl).Result()
}

func redisKey(phone, key string) string {
	return "autoreply:" + key + ":" + phone
}
