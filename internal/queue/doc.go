// Package queue orders the words waiting to be fetched into the sound cache.
// Words asked for by name jump ahead of the rest of the catalog.
package queue
