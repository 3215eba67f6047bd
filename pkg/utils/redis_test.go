package utils

import (
	"context"
	"testing"
	"time"
)

func TestRedisConfigDefaults(t *testing.T) {
	got := RedisConfig{}.withDefaults()
	if got.DialTimeout != 3*time.Second || got.ReadTimeout != 2*time.Second || got.WriteTimeout != 2*time.Second {
		t.Fatalf("timeout defaults = %+v", got)
	}
	if got.PoolSize != 20 || got.PoolTimeout != 4*time.Second {
		t.Fatalf("pool defaults = %+v", got)
	}
	if got.PingTimeout != 2*time.Second {
		t.Fatalf("ping timeout default = %v", got.PingTimeout)
	}

	explicit := RedisConfig{PoolSize: 5, DialTimeout: time.Second}.withDefaults()
	if explicit.PoolSize != 5 || explicit.DialTimeout != time.Second {
		t.Fatalf("explicit values overridden: %+v", explicit)
	}
}

func TestOpenRedisRequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatal("expected error for missing addr")
	}
}
