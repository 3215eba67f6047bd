package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestCheckAndSet_SuppressesWithinTTL(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := NewMemoryLimiter().WithClock(func() time.Time { return now })

	ok, err := l.CheckAndSet(context.Background(), "+12125550000", "biz-1", time.Hour)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	ok, err = l.CheckAndSet(context.Background(), "+12125550000", "biz-1", time.Hour)
	if err != nil || ok {
		t.Fatalf("second acquire within TTL must fail: ok=%v err=%v", ok, err)
	}

	// A different business key is independent.
	ok, _ = l.CheckAndSet(context.Background(), "+12125550000", "biz-2", time.Hour)
	if !ok {
		t.Fatalf("distinct key must acquire")
	}
}

func TestCheckAndSet_ExpiresAfterTTL(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := NewMemoryLimiter().WithClock(func() time.Time { return now })

	if ok, _ := l.CheckAndSet(context.Background(), "+1555", "k", time.Minute); !ok {
		t.Fatalf("acquire failed")
	}
	now = now.Add(2 * time.Minute)
	if ok, _ := l.CheckAndSet(context.Background(), "+1555", "k", time.Minute); !ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestCheckAndSet_RejectsEmptyKeys(t *testing.T) {
	l := NewMemoryLimiter()
	if _, err := l.CheckAndSet(context.Background(), "", "k", time.Minute); err == nil {
		t.Fatalf("expected error for empty phone")
	}
}
