package aiqueue

import (
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("hello")
	if len(a) != 32 {
		t.Fatalf("expected 32 char key, got %d", len(a))
	}
	if a != CacheKey("hello") {
		t.Fatalf("expected deterministic key")
	}

	prefix := strings.Repeat("x", 200)
	if CacheKey(prefix+"a") == CacheKey(prefix+"b") {
		t.Fatalf("prompts sharing a long prefix must not collide")
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	clock := newFakeClock()
	c := NewMemoryCache(time.Minute, 10, clock.Now)

	c.Set("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	clock.Advance(time.Minute)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("entry exactly at ttl should still be served")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expected expired entry removed, len=%d", c.Len())
	}
}

func TestMemoryCache_EvictsOldestInserted(t *testing.T) {
	c := NewMemoryCache(time.Hour, 2, newFakeClock().Now)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "1b")
	c.Set("c", "3")

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a evicted: overwrite keeps its original slot")
	}
	if v, ok := c.Get("b"); !ok || v != "2" {
		t.Fatalf("expected b kept, got %q %v", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Fatalf("expected c kept, got %q %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("expected len 2, got %d", c.Len())
	}
}

func TestQueue_CapacityEvictionRedispatches(t *testing.T) {
	up := &fakeUpstream{}
	cfg := testConfig()
	cfg.CacheCapacity = 1
	q := New(up, cfg, WithClock(newFakeClock()))
	q.Start()
	t.Cleanup(q.Close)

	for _, p := range []string{"one", "two", "one"} {
		if _, err := q.Generate(t.Context(), p); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	if got := len(up.Calls()); got != 3 {
		t.Fatalf("expected evicted prompt to be dispatched again, got %d calls", got)
	}
}
