package memory

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = 5 * time.Minute

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache - in-memory кеш с TTL. Хранит состояние страниц и сессии без redis.
type Cache[V any] struct {
	mu       sync.RWMutex
	items    map[string]item[V]
	stopChan chan struct{}
	stopped  bool
}

func New[V any]() *Cache[V] {
	return NewWithContext[V](context.Background(), defaultCleanupInterval)
}

func NewWithContext[V any](ctx context.Context, cleanupEvery time.Duration) *Cache[V] {
	if cleanupEvery <= 0 {
		cleanupEvery = defaultCleanupInterval
	}
	c := &Cache[V]{
		items:    make(map[string]item[V]),
		stopChan: make(chan struct{}),
	}
	go c.cleanup(ctx, cleanupEvery)
	return c
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || time.Now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// GetOrSet возвращает живое значение (продлевая TTL) или кладет новое из create.
// created=true если значение было создано.
func (c *Cache[V]) GetOrSet(key string, ttl time.Duration, create func() V) (value V, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if it, ok := c.items[key]; ok && now.Before(it.expiresAt) {
		it.expiresAt = now.Add(ttl)
		c.items[key] = it
		return it.value, false
	}

	value = create()
	c.items[key] = item[V]{value: value, expiresAt: now.Add(ttl)}
	return value, true
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[V]) Stop() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		close(c.stopChan)
	}
	c.mu.Unlock()
}

func (c *Cache[V]) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache[V]) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
