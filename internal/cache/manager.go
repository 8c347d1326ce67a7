package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// SoundCache maps normalized words to encoded audio payloads. It is
// best-effort: Get and Put never fail the caller, storage problems are logged
// and surface as a miss or a dropped write.
//
// The disk store is opened lazily on first use and reused afterwards.
type SoundCache struct {
	config Config
	logger *log.Logger

	// open builds the backing store; overridable in tests.
	open func(Config) (Store, error)

	once    sync.Once
	store   Store
	openErr error

	memory *MemoryCache
}

// New creates a sound cache. Nothing touches the disk until the first call.
func New(config Config, logger *log.Logger) *SoundCache {
	if logger == nil {
		logger = log.Default()
	}

	c := &SoundCache{
		config: config,
		logger: logger.WithPrefix("cache"),
		open: func(cfg Config) (Store, error) {
			return NewDiskStore(cfg.Dir, cfg.CompressionLevel)
		},
	}
	if config.MemoryCapacity > 0 {
		c.memory = NewMemoryCache(config.MemoryCapacity)
	}
	return c
}

// NewWithStore creates a sound cache over an already opened store.
func NewWithStore(store Store, logger *log.Logger) *SoundCache {
	c := New(Config{}, logger)
	c.open = func(Config) (Store, error) { return store, nil }
	return c
}

// backend returns the lazily opened store or the error from opening it.
func (c *SoundCache) backend() (Store, error) {
	c.once.Do(func() {
		c.store, c.openErr = c.open(c.config)
		if c.openErr != nil {
			c.logger.Error("failed to open sound cache, caching disabled", "dir", c.config.Dir, "err", c.openErr)
			return
		}
		c.logger.Debug("sound cache opened", "dir", c.config.Dir)
	})
	return c.store, c.openErr
}

// Get looks up the payload cached for word.
func (c *SoundCache) Get(ctx context.Context, word string) (string, bool) {
	key := Key(word)
	if key == "" || ctx.Err() != nil {
		return "", false
	}

	if c.memory != nil {
		if data, ok := c.memory.Get(key); ok {
			return string(data), true
		}
	}

	store, err := c.backend()
	if err != nil {
		return "", false
	}

	data, ok, err := store.Get(key)
	if err != nil {
		c.logger.Warn("cache retrieval failed", "word", key, "err", err)
		return "", false
	}
	if !ok {
		return "", false
	}

	c.promote(key, data)
	return string(data), true
}

// Put stores payload for word, overwriting any previous entry.
func (c *SoundCache) Put(ctx context.Context, word, payload string) {
	key := Key(word)
	if key == "" || ctx.Err() != nil {
		return
	}

	store, err := c.backend()
	if err != nil {
		return
	}

	if err := store.Put(key, []byte(payload)); err != nil {
		c.logger.Warn("cache storage failed", "word", key, "err", err)
		return
	}

	c.promote(key, []byte(payload))
}

// Keys lists the cached words.
func (c *SoundCache) Keys() ([]string, error) {
	store, err := c.backend()
	if err != nil {
		return nil, err
	}
	return store.Keys(), nil
}

// Delete removes the entry for word from both tiers.
func (c *SoundCache) Delete(word string) error {
	key := Key(word)
	if c.memory != nil {
		c.memory.Delete(key)
	}

	store, err := c.backend()
	if err != nil {
		return err
	}
	return store.Delete(key)
}

// Clear removes every cached sound.
func (c *SoundCache) Clear() error {
	if c.memory != nil {
		c.memory.Clear()
	}

	store, err := c.backend()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Stats reports the disk tier and memory tier statistics.
func (c *SoundCache) Stats() (disk, memory Stats, err error) {
	if c.memory != nil {
		memory = c.memory.Stats()
	}

	store, err := c.backend()
	if err != nil {
		return Stats{}, memory, err
	}
	return store.Stats(), memory, nil
}

// Close flushes the store if it was ever opened.
func (c *SoundCache) Close() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close sound cache: %w", err)
	}
	return nil
}

// promote copies an entry into the memory tier; failures are ignored.
func (c *SoundCache) promote(key string, data []byte) {
	if c.memory == nil {
		return
	}
	_ = c.memory.Put(key, data)
}
