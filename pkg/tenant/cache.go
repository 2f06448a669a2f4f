package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache keeps validated tenant records off the registry hot path.
type Cache interface {
	// Get retrieves a tenant from cache by identifier.
	Get(ctx context.Context, key string) (*Tenant, bool)

	// Set stores a tenant with the given TTL.
	Set(ctx context.Context, key string, t *Tenant, ttl time.Duration)

	// Delete removes an entry, e.g. after deactivation.
	Delete(ctx context.Context, key string)

	// Close releases resources held by the cache.
	Close() error
}

// DefaultCacheSize bounds the in-memory cache.
const DefaultCacheSize = 1000

type cacheItem struct {
	tenant    *Tenant
	expiresAt time.Time
}

// inMemoryCache is the default single-process cache with TTL expiry and
// size-bounded eviction.
type inMemoryCache struct {
	mu      sync.Mutex
	items   map[string]cacheItem
	order   []string // insertion order, oldest first
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewInMemoryCache creates an in-memory cache with the default size.
func NewInMemoryCache() Cache {
	return NewInMemoryCacheWithSize(DefaultCacheSize)
}

// NewInMemoryCacheWithSize creates an in-memory cache bounded to maxSize
// entries. A background goroutine sweeps expired entries until Close.
func NewInMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	c := &inMemoryCache{
		items:   make(map[string]cacheItem),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		delete(c.items, key)
		c.dropOrder(key)
		return nil, false
	}
	return item.tenant, true
}

func (c *inMemoryCache) Set(ctx context.Context, key string, t *Tenant, ttl time.Duration) {
	if t == nil || ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if _, exists := c.items[key]; !exists {
		if len(c.items) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
		c.order = append(c.order, key)
	}
	c.items[key] = cacheItem{tenant: t, expiresAt: time.Now().Add(ttl)}
}

func (c *inMemoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.dropOrder(key)
}

func (c *inMemoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

func (c *inMemoryCache) dropOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *inMemoryCache) sweep() {
	defer close(c.done)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
					c.dropOrder(key)
				}
			}
			c.mu.Unlock()
		}
	}
}
