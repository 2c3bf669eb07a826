package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New(mr.Addr(), "", 0, "test:")
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	if err := c.Set(ctx, "decision", true, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found := c.Get(ctx, "decision")
	if !found {
		t.Fatal("Get did not find the stored value")
	}
	allowed, ok := value.(bool)
	if !ok || !allowed {
		t.Errorf("Get returned %v (%T), want true (bool)", value, value)
	}

	if _, found := c.Get(ctx, "absent"); found {
		t.Error("Get found a value that was never stored")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	if err := c.Set(ctx, "decision", false, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, found := c.Get(ctx, "decision"); found {
		t.Error("value should expire after its TTL")
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, true, time.Minute); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(ctx, "a"); found {
		t.Error("deleted key still present")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	for _, key := range []string{"b", "c"} {
		if _, found := c.Get(ctx, key); found {
			t.Errorf("key %q survived Clear", key)
		}
	}
}

func TestCache_Metrics(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	if err := c.Set(ctx, "k", true, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	c.Get(ctx, "k")
	c.Get(ctx, "missing")

	m := c.Metrics()
	if m.Hits != 1 {
		t.Errorf("Hits = %d, want 1", m.Hits)
	}
	if m.Misses != 1 {
		t.Errorf("Misses = %d, want 1", m.Misses)
	}
	if rate := m.HitRate(); rate != 0.5 {
		t.Errorf("HitRate() = %v, want 0.5", rate)
	}
}
