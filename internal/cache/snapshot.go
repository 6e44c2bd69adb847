package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KennethLeeJE8/datadam-sub000/internal/kvstore"
	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
)

// SnapshotKey is where the serialized cache lives in the kv store.
const SnapshotKey = "cache_snapshot"

// Snapshot writes the entire cache map to the kv store. A kv failure is
// returned but callers treat it as a skipped snapshot, not a fatal error.
func (c *Cache) Snapshot(ctx context.Context, kv kvstore.Store) error {
	c.mu.Lock()
	payload, err := json.Marshal(c.entries)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("cache: marshal snapshot: %w", err)
	}

	if err := kv.Set(ctx, SnapshotKey, string(payload)); err != nil {
		return fmt.Errorf("cache: persist snapshot: %w", err)
	}

	c.logger.Debug("cache snapshot persisted",
		logging.Field{Key: "bytes", Value: len(payload)})
	return nil
}

// Restore loads a previously persisted snapshot, dropping entries already
// expired by wall-clock time. An absent snapshot is a no-op.
func (c *Cache) Restore(ctx context.Context, kv kvstore.Store) error {
	payload, ok, err := kv.Get(ctx, SnapshotKey)
	if err != nil {
		return fmt.Errorf("cache: load snapshot: %w", err)
	}
	if !ok {
		return nil
	}

	var entries map[string]*Entry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return fmt.Errorf("cache: decode snapshot: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := 0
	for k, e := range entries {
		if e == nil || e.expiredAt(now) {
			continue
		}
		c.entries[k] = e
		kept++
	}
	c.cleanupLocked()

	c.logger.Info("cache snapshot restored",
		logging.Field{Key: "kept", Value: kept},
		logging.Field{Key: "dropped", Value: len(entries) - kept})
	return nil
}
