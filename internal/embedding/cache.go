package embedding

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"sync"
)

// memCache is a bounded FIFO cache of vectors keyed by sha1(model|text).
type memCache struct {
	mu    sync.RWMutex
	limit int
	items map[string][]float32
	// order is a ring of keys in insertion order; next is the oldest slot once full.
	order []string
	next  int
}

func newMemCache(limit int) *memCache {
	if limit <= 0 {
		return nil
	}
	return &memCache{
		limit: limit,
		items: make(map[string][]float32, limit),
		order: make([]string, 0, limit),
	}
}

func cacheKey(model, text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, model)
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *memCache) get(key string) ([]float32, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return cloneVector(vec), true
}

func (c *memCache) put(key string, vec []float32) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return
	}
	c.items[key] = cloneVector(vec)
	if len(c.order) < c.limit {
		c.order = append(c.order, key)
		return
	}
	delete(c.items, c.order[c.next])
	c.order[c.next] = key
	c.next = (c.next + 1) % c.limit
}

func (c *memCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
