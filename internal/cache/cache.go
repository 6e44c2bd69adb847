// Package cache is the TTL- and size-bounded store of record payloads
// fetched from the remote store, plus the in-flight request coalescing that
// keeps concurrent match cycles from issuing duplicate outbound queries.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// Config bounds the cache.
type Config struct {
	// DefaultTTL applies when Set is called with ttl <= 0. Heuristic
	// constant, deliberately configurable.
	DefaultTTL time.Duration

	// MaxEntries is the hard entry-count bound. Cleanup enforces it after
	// every Set.
	MaxEntries int
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTTL: 5 * time.Minute,
		MaxEntries: 64,
	}
}

// Entry is one cached payload. Equality is by key only; entries are refreshed
// in place on every successful fetch for the same key.
type Entry struct {
	Key       string         `json:"key"`
	Records   []model.Record `json:"records"`
	Timestamp time.Time      `json:"timestamp"`
	TTL       time.Duration  `json:"ttl"`
}

func (e *Entry) expiredAt(now time.Time) bool {
	return now.Sub(e.Timestamp) > e.TTL
}

// Cache is a mutex-guarded TTL cache. All mutations happen synchronously,
// never across an await point, so overlapping match cycles cannot interleave
// half-applied updates.
type Cache struct {
	mu      sync.Mutex
	cfg     Config
	logger  logging.Logger
	entries map[string]*Entry
	now     func() time.Time
}

// New creates an empty cache.
func New(cfg Config, logger logging.Logger) *Cache {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultConfig().DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}
	return &Cache{
		cfg:     cfg,
		logger:  logger.With(logging.Field{Key: "component", Value: "cache"}),
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the cached records for key. Expired entries count as a miss
// and are evicted lazily.
func (c *Cache) Get(key string) ([]model.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.expiredAt(c.now()) {
		delete(c.entries, key)
		return nil, false
	}
	return e.Records, true
}

// Has reports whether key holds a fresh entry, evicting it lazily when
// expired.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if e.expiredAt(c.now()) {
		delete(c.entries, key)
		return false
	}
	return true
}

// Set inserts or refreshes an entry, then enforces the size bound.
func (c *Cache) Set(key string, records []model.Record, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &Entry{
		Key:       key,
		Records:   records,
		Timestamp: c.now(),
		TTL:       ttl,
	}

	if len(c.entries) > c.cfg.MaxEntries {
		c.cleanupLocked()
	}
}

// Cleanup removes expired entries, then the oldest remaining entries until
// the cache is at or under its size bound.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked()
}

func (c *Cache) cleanupLocked() {
	now := c.now()
	for k, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, k)
		}
	}

	if len(c.entries) <= c.cfg.MaxEntries {
		return
	}

	// Still over the limit: evict oldest by insertion timestamp.
	remaining := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		remaining = append(remaining, e)
	}
	sort.Slice(remaining, func(i, j int) bool {
		return remaining[i].Timestamp.Before(remaining[j].Timestamp)
	})
	for _, e := range remaining[:len(remaining)-c.cfg.MaxEntries] {
		delete(c.entries, e.Key)
	}
}

// Clear drops everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// Len reports the current entry count, expired entries included until their
// lazy eviction.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// MaxEntries reports the configured bound.
func (c *Cache) MaxEntries() int {
	return c.cfg.MaxEntries
}
