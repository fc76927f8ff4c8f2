// Package cache provides the memoization store for weekly forecast results.
// Entries are keyed by the forecast request and are immutable once computed;
// they never expire within a process lifetime, which is acceptable because the
// model and the coordinates behind a key are fixed.
package cache

import (
	"context"
	"sync"

	"github.com/crimesight/crime-risk-service/internal/models"
)

// Cache defines the interface for forecast result memoization backends.
// Get returns the cached result if present; Set stores a computed result.
type Cache interface {
	Get(ctx context.Context, key string) (*models.ForecastResult, bool, error)
	Set(ctx context.Context, key string, value *models.ForecastResult) error
}

// InMemoryCache implements Cache with an unbounded in-memory map. The key
// space is naturally small (distinct start-date/location/mode combinations),
// so no eviction policy is applied. Safe for concurrent use; the cache is
// shared by every session holding the same forecast engine.
type InMemoryCache struct {
	mu   sync.RWMutex
	data map[string]*models.ForecastResult
}

// NewInMemoryCache creates a new in-memory cache instance.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string]*models.ForecastResult),
	}
}

// Get retrieves the cached forecast for the key if present.
func (c *InMemoryCache) Get(ctx context.Context, key string) (*models.ForecastResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.data[key]
	return result, ok, nil
}

// Set stores a computed forecast. Insert-once by convention: recomputing the
// same key yields an identical value, so overwrites are harmless.
func (c *InMemoryCache) Set(ctx context.Context, key string, value *models.ForecastResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

// Len reports the number of cached entries.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
