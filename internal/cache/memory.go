package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryCache keeps recently played sounds in memory, bounded by payload
// bytes. Evicting an entry here never touches the persistent copy on disk.
type MemoryCache struct {
	mu sync.Mutex

	capacity int64
	used     int64

	// recency holds *sound values, most recently used at the front.
	recency *list.List
	sounds  map[string]*list.Element

	stats Stats
}

type sound struct {
	key     string
	payload []byte
}

// NewMemoryCache creates a memory cache holding at most capacity bytes.
func NewMemoryCache(capacity int64) *MemoryCache {
	return &MemoryCache{
		capacity: capacity,
		recency:  list.New(),
		sounds:   make(map[string]*list.Element),
	}
}

// Get returns the payload for key and marks it as recently used.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.sounds[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.recency.MoveToFront(elem)

	c.stats.Hits++
	c.stats.LastAccess = time.Now()
	return elem.Value.(*sound).payload, true
}

// Put stores payload under key, dropping the least recently used sounds
// until it fits. A payload larger than the whole cache is refused.
func (c *MemoryCache) Put(key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.sounds[key]; ok {
		c.drop(old)
	}

	n := int64(len(payload))
	if n > c.capacity {
		return ErrItemTooLarge
	}
	for c.used+n > c.capacity {
		oldest := c.recency.Back()
		if oldest == nil {
			break
		}
		c.drop(oldest)
		c.stats.Evictions++
	}

	c.sounds[key] = c.recency.PushFront(&sound{key: key, payload: payload})
	c.used += n
	return nil
}

// Delete forgets key.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.sounds[key]; ok {
		c.drop(elem)
	}
}

// Clear forgets every sound. Counters are kept.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sounds = make(map[string]*list.Element)
	c.recency.Init()
	c.used = 0
}

// Contains reports whether key is cached without touching its recency.
func (c *MemoryCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.sounds[key]
	return ok
}

// Stats returns a snapshot of the memory tier.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.used
	stats.ItemCount = int64(len(c.sounds))
	stats.computeHitRate()
	return stats
}

// drop removes elem; c.mu must be held.
func (c *MemoryCache) drop(elem *list.Element) {
	s := c.recency.Remove(elem).(*sound)
	delete(c.sounds, s.key)
	c.used -= int64(len(s.payload))
}
