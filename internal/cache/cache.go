package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache stores values by key and answers reads only while the stored value
// is younger than the max age given by the caller.
type Cache interface {
	Get(key string, maxAge time.Duration) (interface{}, bool)
	Set(key string, value interface{})
	Delete(key string)
	Clear()
}

type Item struct {
	Key      string
	Value    interface{}
	StoredAt time.Time
}

type LRUCache struct {
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
	mu        sync.Mutex
	now       func() time.Time
}

// Option customizes an LRUCache.
type Option func(*LRUCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *LRUCache) {
		c.now = now
	}
}

func New(capacity int, opts ...Option) *LRUCache {
	if capacity <= 0 {
		capacity = 1
	}
	c := &LRUCache{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if it was stored less than maxAge ago.
// An expired entry is left in place; the next Set overwrites it.
func (c *LRUCache) Get(key string, maxAge time.Duration) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	item := elem.Value.(*Item)
	if c.now().Sub(item.StoredAt) >= maxAge {
		return nil, false
	}

	c.evictList.MoveToFront(elem)
	return item.Value, true
}

// Set stores value under key, replacing any previous entry as a whole.
func (c *LRUCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &Item{
		Key:      key,
		Value:    value,
		StoredAt: c.now(),
	}

	if elem, ok := c.items[key]; ok {
		elem.Value = item
		c.evictList.MoveToFront(elem)
		return
	}

	elem := c.evictList.PushFront(item)
	c.items[key] = elem

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.evictList.Init()
}

func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictList.Len()
}

func (c *LRUCache) removeOldest() {
	elem := c.evictList.Back()
	if elem != nil {
		c.removeElement(elem)
	}
}

func (c *LRUCache) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	item := elem.Value.(*Item)
	delete(c.items, item.Key)
}

// CleanExpired drops entries older than maxAge and returns how many went.
func (c *LRUCache) CleanExpired(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var toRemove []*list.Element

	for elem := c.evictList.Back(); elem != nil; elem = elem.Prev() {
		item := elem.Value.(*Item)
		if now.Sub(item.StoredAt) >= maxAge {
			toRemove = append(toRemove, elem)
		}
	}

	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

// StartCleanup sweeps entries older than maxAge every interval until ctx ends.
// Reads never depend on it; it only bounds memory held by stale entries.
func (c *LRUCache) StartCleanup(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.CleanExpired(maxAge)
			case <-ctx.Done():
				return
			}
		}
	}()
}
