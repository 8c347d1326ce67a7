// Package cache provides the persistent sound cache: a device-local store
// mapping a normalized word to the encoded audio payload synthesized for it.
// A bounded in-memory LRU sits in front of a zstd-compressed disk store.
package cache
