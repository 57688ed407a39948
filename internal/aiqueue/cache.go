package aiqueue

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

const cacheKeyLen = 32

// CacheKey hashes the whole prompt and keeps a prefix of the digest. Near
// duplicate prompts that share a long prefix still get distinct keys.
func CacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])[:cacheKeyLen]
}

type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Len() int
}

type cacheEntry struct {
	text     string
	storedAt time.Time
}

// MemoryCache expires entries on read once older than ttl and, past capacity,
// drops the oldest-inserted key. Overwriting a key keeps its original slot.
type MemoryCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	now      func() time.Time

	entries map[string]cacheEntry
	order   []string
}

func NewMemoryCache(ttl time.Duration, capacity int, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryCache{
		ttl:      ttl,
		capacity: capacity,
		now:      now,
		entries:  make(map[string]cacheEntry, capacity+1),
		order:    make([]string, 0, capacity+1),
	}
}

func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		c.removeLocked(key)
		return "", false
	}
	return e.text, true
}

func (c *MemoryCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{text: value, storedAt: c.now()}

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
