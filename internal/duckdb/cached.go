package duckdb

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// VariantLookup is the read side of the store.
type VariantLookup interface {
	Lookup(id string) (*VariantRecord, error)
}

// CachedStore wraps a VariantLookup with an LRU cache. Records are immutable
// once written (the id is derived from the content), so entries never expire
// and writes need no invalidation hook. Missing ids are not cached; a later
// ingest may fill them in.
type CachedStore struct {
	store VariantLookup
	cache *lru.Cache[string, *VariantRecord]
}

// NewCachedStore creates a caching wrapper around a store.
func NewCachedStore(store VariantLookup, size int) (*CachedStore, error) {
	cache, err := lru.New[string, *VariantRecord](size)
	if err != nil {
		return nil, fmt.Errorf("create lookup cache: %w", err)
	}

	return &CachedStore{
		store: store,
		cache: cache,
	}, nil
}

// Lookup fetches a record, serving repeats from the cache. Callers get a
// copy, so mutating the result cannot poison later hits.
func (c *CachedStore) Lookup(id string) (*VariantRecord, error) {
	if r, ok := c.cache.Get(id); ok {
		copied := *r
		return &copied, nil
	}

	r, err := c.store.Lookup(id)
	if err != nil || r == nil {
		return r, err
	}

	stored := *r
	c.cache.Add(id, &stored)

	copied := *r
	return &copied, nil
}

// Len returns the number of cached records.
func (c *CachedStore) Len() int {
	return c.cache.Len()
}
