// internal/domain/cart/sync.go
package cart

import (
	"context"
	"time"
)

// SyncFunc pushes a full cart snapshot to the remote store
type SyncFunc func(ctx context.Context, items map[string]int) error

const syncTimeout = 10 * time.Second

// EnableSync turns on remote mirroring. Every mutation from here on
// schedules a push of the full snapshot. The current contents are
// pushed immediately so the remote copy converges after a seed.
func (c *Cart) EnableSync(fn SyncFunc) {
	c.mu.Lock()
	c.syncFn = fn
	c.lastSyncErr = nil
	c.bumpLocked()
	c.mu.Unlock()
}

// DisableSync turns off remote mirroring, for anonymous sessions and
// after logout
func (c *Cart) DisableSync() {
	c.mu.Lock()
	c.syncFn = nil
	c.lastSyncErr = nil
	c.mu.Unlock()
}

// LastSyncError returns the error from the most recent failed push,
// nil once a push succeeds again. Sync failures never roll back local
// state.
func (c *Cart) LastSyncError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSyncErr
}

// Synced reports whether the remote store has seen the latest mutation
func (c *Cart) Synced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncFn == nil || (c.syncedVersion == c.version && !c.syncing)
}

// bumpLocked records a mutation and starts the sync worker if mirroring
// is on and no push is in flight. At most one push runs at a time; each
// push reads the latest snapshot under lock, so a stale snapshot can
// never overwrite a newer one regardless of network reordering.
func (c *Cart) bumpLocked() {
	c.version++
	if c.syncFn == nil || c.syncing {
		return
	}
	c.syncing = true
	go c.syncLoop()
}

func (c *Cart) syncLoop() {
	for {
		c.mu.Lock()
		fn := c.syncFn
		version := c.version
		snapshot := make(map[string]int, len(c.items))
		for id, qty := range c.items {
			snapshot[id] = qty
		}
		c.mu.Unlock()

		var err error
		if fn != nil {
			ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
			err = fn(ctx, snapshot)
			cancel()
		}

		c.mu.Lock()
		c.lastSyncErr = err
		if err == nil {
			c.syncedVersion = version
		} else if c.log != nil {
			c.log.WithError(err).Warn("Cart sync failed, local state kept")
		}
		// another mutation arrived while the push was in flight
		if c.syncFn != nil && c.version != version && err == nil {
			c.mu.Unlock()
			continue
		}
		c.syncing = false
		c.mu.Unlock()
		return
	}
}
