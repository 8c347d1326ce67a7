package cache

import (
	"errors"
	"strings"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the memory cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheCorrupted is returned when a stored entry cannot be read back
	ErrCacheCorrupted = errors.New("cache data corrupted")

	// ErrClosed is returned by stores used after Close
	ErrClosed = errors.New("cache is closed")
)

// Key normalizes a word into its cache key: surrounding whitespace is trimmed
// and the result is lowercased. Key(Key(w)) == Key(w) for every w.
func Key(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Stats holds cache performance metrics
type Stats struct {
	// Current state
	Size      int64 // Current size in bytes
	ItemCount int64 // Number of items in cache

	// Performance metrics
	Hits      int64
	Misses    int64
	Evictions int64 // memory tier only; the disk tier never evicts
	HitRate   float64

	LastAccess time.Time
}

func (s *Stats) computeHitRate() {
	if s.Hits+s.Misses > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Hits+s.Misses)
	}
}

// Config holds configuration for the sound cache.
type Config struct {
	// Dir is the directory holding the disk store.
	Dir string

	// MemoryCapacity bounds the in-memory front in bytes. Zero disables it.
	MemoryCapacity int64

	// CompressionLevel is the zstd level (1-22). Zero disables compression.
	CompressionLevel int
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MemoryCapacity:   16 * 1024 * 1024, // 16MB
		CompressionLevel: 3,                // Balanced compression
	}
}

// Store is the contract of a raw key-value store used by the sound cache.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Clear() error
	Keys() []string
	Stats() Stats
	Close() error
}
