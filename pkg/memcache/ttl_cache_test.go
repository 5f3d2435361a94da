package mem

import (
	"context"
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "weather:paris", []byte("sunny"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(ctx, "weather:paris")
	if err != nil || !ok || string(got) != "sunny" {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "weather:paris"); ok {
		t.Fatal("expired entry returned")
	}
	if len(c.data) != 0 {
		t.Errorf("expired entry not cleaned up")
	}
}

func TestTTLCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache()
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, time.Hour)
	buf[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}
	got[1] = 'y'
	again, _, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("returned value aliased cache: %q", again)
	}
}

func TestTTLCachePurgeAndDelete(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("1"), time.Second)
	_ = c.Set(ctx, "long", []byte("2"), time.Hour)
	_ = c.Set(ctx, "gone", []byte("3"), time.Hour)
	_ = c.Delete(ctx, "gone")

	now = now.Add(time.Minute)
	if n := c.Purge(); n != 1 {
		t.Fatalf("Purge removed %d, want 1", n)
	}
	if _, ok, _ := c.Get(ctx, "long"); !ok {
		t.Error("live entry purged")
	}
	if _, ok, _ := c.Get(ctx, "gone"); ok {
		t.Error("deleted entry still present")
	}
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	if got := NewRedisCache(nil, "tripmate").key("weather:goa"); got != "tripmate:weather:goa" {
		t.Errorf("key = %q", got)
	}
	if got := NewRedisCache(nil, "").key("weather:goa"); got != "weather:goa" {
		t.Errorf("key = %q", got)
	}
}
