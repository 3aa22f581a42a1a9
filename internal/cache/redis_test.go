package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c, err := NewRedisCacheWithClient(client)
	if err != nil {
		t.Fatalf("wrap redis client failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}
}

func TestRedisCacheMissingKey(t *testing.T) {
	c, _ := newTestCache(t)
	got, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("missing key must not error: %v", err)
	}
	if got != "" {
		t.Errorf("missing key: got %q, want empty", got)
	}
}

func TestRedisCacheDel(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "" {
		t.Errorf("key survived delete: %q, %v", got, err)
	}
	// Deleting nothing is fine.
	if err := c.Del(ctx); err != nil {
		t.Errorf("empty delete errored: %v", err)
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != "" {
		t.Errorf("expired key still present: %q", got)
	}
}

func TestRedisCacheDownErrors(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Error("ping should fail once the backend is down")
	}
	if _, err := c.Get(context.Background(), "k"); err == nil {
		t.Error("get should fail once the backend is down")
	}
}
