package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-process Limiter for tests.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]time.Time
	clock   func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{entries: map[string]time.Time{}, clock: time.Now}
}

func (l *MemoryLimiter) CheckAndSet(ctx context.Context, phone, key string, ttl time.Duration) (bool, error) {
	if phone == "" || key == "" {
		return false, ErrInvalidKey
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	k := redisKey(phone, key)
	if exp, ok := l.entries[k]; ok && exp.After(now) {
		return false, nil
	}
	l.entries[k] = now.Add(ttl)
	return true, nil
}

// WithClock overrides the limiter clock. Test hook.
func (l *MemoryLimiter) WithClock(clock func() time.Time) *MemoryLimiter {
	l.clock = clock
	return l
}
