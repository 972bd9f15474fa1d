// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

// Package cache is a small TTL cache for results that are expensive to
// compute and may be slightly stale, such as the unfiltered species index.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSweepInterval caps how long expired entries linger between sweeps.
const DefaultSweepInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache of V values. Expired entries
// are dropped on read and by Serve's periodic sweep.
type Cache[V any] struct {
	name string
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]entry[V]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Stats is a snapshot of the counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Keys      int
}

// New creates a cache whose entries live for ttl. name shows up in
// supervisor logs.
//
//	species := cache.New[models.SpeciesIndex]("species-cache", 10*time.Minute)
func New[V any](name string, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		name:    name,
		ttl:     ttl,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		// Another goroutine may have refreshed it in between.
		if cur, still := c.entries[key]; still && !time.Now().Before(cur.expiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
		ok = false
	}

	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key for the cache's TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.evictions.Add(1)
	}
	c.mu.Unlock()
}

// Clear drops every entry, e.g. after the seed loader changes the dataset.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.evictions.Add(int64(len(c.entries)))
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	keys := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Keys:      keys,
	}
}

// Serve sweeps expired entries until ctx is done. It satisfies
// suture.Service so the sweep runs under the supervisor tree.
func (c *Cache[V]) Serve(ctx context.Context) error {
	interval := c.ttl
	if interval <= 0 || interval > DefaultSweepInterval {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

func (c *Cache[V]) String() string {
	return c.name
}

func (c *Cache[V]) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
	}
}
