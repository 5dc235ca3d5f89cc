package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheExpiresLazily(t *testing.T) {
	now := time.Unix(1760000000, 0)
	c := NewMemoryCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	if err := c.Set(ctx, "GET:/categories:", []byte(`[]`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "GET:/categories:"); !ok {
		t.Fatalf("expected cache hit before expiry")
	}

	now = now.Add(61 * time.Second)
	if c.Len() != 1 {
		t.Fatalf("expired entry should stay until next lookup")
	}
	if _, ok, _ := c.Get(ctx, "GET:/categories:"); ok {
		t.Fatalf("expected cache miss after expiry")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be evicted on lookup")
	}
}

func TestMemoryCacheKeepsEmptyValues(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	_ = c.Set(ctx, "GET:/empty:", nil, time.Minute)
	value, ok, err := c.Get(ctx, "GET:/empty:")
	if err != nil || !ok {
		t.Fatalf("empty value should be cached, ok=%v err=%v", ok, err)
	}
	if len(value) != 0 {
		t.Fatalf("unexpected value: %q", value)
	}
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	_ = c.Set(ctx, "GET:/products:", []byte(`[]`), time.Minute)
	_ = c.Set(ctx, "GET:/products/1:", []byte(`{}`), time.Minute)
	_ = c.Set(ctx, "GET:/categories:", []byte(`[]`), time.Minute)

	removed, err := c.DeletePrefix(ctx, "GET:/products")
	if err != nil {
		t.Fatalf("delete prefix failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok, _ := c.Get(ctx, "GET:/categories:"); !ok {
		t.Fatalf("unrelated entry should survive")
	}
}
