package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is an in-memory key-value store with sliding expiration: every
// successful Get extends the entry lifetime by the ttl.
type Cache struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]*entry
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]*entry),
	}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	now := c.now()
	if now.After(e.expiresAt) {
		delete(c.m, key)
		return nil, false
	}
	e.expiresAt = now.Add(c.ttl)
	return e.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = &entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}
