package cache

import (
	"context"
	"sync"
	"time"

	appfinance "github.com/wms/backend/internal/application/finance"
)

// resultEntry holds a cached reconciliation result with its expiration.
type resultEntry struct {
	result    *appfinance.ReconciliationResult
	expiresAt time.Time
}

// InMemoryResultCache implements ResultCache using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryResultCache struct {
	mu        sync.RWMutex
	entries   map[string]resultEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryResultCache creates a new in-memory result cache.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryResultCache() *InMemoryResultCache {
	c := &InMemoryResultCache{
		entries:  make(map[string]resultEntry),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached result for key, if present and not expired.
func (c *InMemoryResultCache) Get(ctx context.Context, key string) (*appfinance.ReconciliationResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		return nil, false, nil // Expired, treat as miss
	}

	return e.result, true, nil
}

// Set stores a result under key with the given TTL.
func (c *InMemoryResultCache) Set(ctx context.Context, key string, result *appfinance.ReconciliationResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = resultEntry{
		result:    result,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (c *InMemoryResultCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries.
func (c *InMemoryResultCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryResultCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring).
func (c *InMemoryResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryResultCache implements ResultCache
var _ appfinance.ResultCache = (*InMemoryResultCache)(nil)
