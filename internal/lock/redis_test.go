package lock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, wait time.Duration) *Redis {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return NewRedis(client, RedisOptions{Prefix: "test:" + uuid.NewString() + ":", TTL: 5 * time.Second, Retry: 10 * time.Millisecond, Wait: wait}, nil)
}

func TestRedis_ExclusiveUntilReleased(t *testing.T) {
	l := newTestRedis(t, 100*time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "cart:1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := l.Lock(ctx, "cart:1"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}

	unlock()
	unlock2, err := l.Lock(ctx, "cart:1")
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	unlock2()
}

func TestRedis_ReleaseKeepsForeignLease(t *testing.T) {
	l := newTestRedis(t, 100*time.Millisecond)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "buy:1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	name := l.prefix + "buy:1"
	if err := l.client.Set(ctx, name, "someone-else", time.Minute).Err(); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	unlock()
	got, err := l.client.Get(ctx, name).Result()
	if err != nil || got != "someone-else" {
		t.Fatalf("foreign lease released: %q %v", got, err)
	}
	_ = l.client.Del(ctx, name).Err()
}
