// Package cache provides generic, thread-safe cache implementations used by
// the vocabulary engine for memoizing pure lookups: query translations and
// derived value types.
//
// Two implementations are offered: Simple (no eviction, for bounded
// memoization tables keyed by term id) and LRU (capacity-bounded, for
// query-shaped keys that grow with caller input). All caches collect
// statistics unconditionally and can additionally export Prometheus metrics
// via the WithMetrics option.
package cache

import (
	"github.com/c360/semvocab/errors"
)

// Cache is the contract every cache implementation satisfies, parameterized
// by value type V.
type Cache[V any] interface {
	// Get retrieves a value by key. Returns the value and true if found,
	// zero value and false otherwise.
	Get(key string) (V, bool)

	// Set stores a value with the given key. Returns true if a new entry
	// was created, false if an existing one was updated.
	Set(key string, value V) (bool, error)

	// Delete removes an entry by key. Returns true if the key existed.
	Delete(key string) (bool, error)

	// Clear removes all entries from the cache.
	Clear() error

	// Size returns the current number of entries.
	Size() int

	// Keys returns a slice of all keys currently in the cache.
	Keys() []string

	// Stats returns the cache's statistics tracker.
	Stats() *Statistics
}

// NewSimple creates a cache with no eviction policy. Entries remain until
// explicitly deleted or cleared.
func NewSimple[V any](options ...Option[V]) (Cache[V], error) {
	return newSimpleCache(applyOptions(options...))
}

// NewLRU creates a capacity-bounded cache evicting the least recently used
// entry when maxSize is exceeded. maxSize must be positive.
func NewLRU[V any](maxSize int, options ...Option[V]) (Cache[V], error) {
	if maxSize <= 0 {
		return nil, errors.WrapInvalid(
			errors.ErrInvalidData, "cache", "NewLRU", "validate capacity")
	}
	return newLRUCache[V](maxSize, applyOptions(options...))
}

// validateKey rejects keys that cannot be stored.
func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrInvalidData, "cache", "validateKey", "key cannot be empty")
	}
	return nil
}
