package services

import (
	"sync"
	"time"
)

// Cache is a key-value store with per-entry expiry. Implementations may be
// backed by an external store; callers must treat any error as a miss so an
// unavailable cache never takes the application down with it.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// CacheService is the in-process Cache implementation
type CacheService struct {
	mu    sync.RWMutex
	items map[string]*cacheItem
}

type cacheItem struct {
	value      []byte
	expiration time.Time
}

// NewCacheService creates a new cache service
func NewCacheService() *CacheService {
	cs := &CacheService{
		items: make(map[string]*cacheItem),
	}

	// Start cleanup goroutine
	go cs.cleanupExpired()

	return cs
}

// Get retrieves a value from cache
func (cs *CacheService) Get(key string) ([]byte, bool, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	item, exists := cs.items[key]
	if !exists {
		return nil, false, nil
	}

	if time.Now().After(item.expiration) {
		return nil, false, nil
	}

	return item.value, true, nil
}

// Set stores a value in cache with TTL
func (cs *CacheService) Set(key string, value []byte, ttl time.Duration) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.items[key] = &cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value from cache
func (cs *CacheService) Delete(key string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.items, key)
	return nil
}

// cleanupExpired periodically removes expired items
func (cs *CacheService) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cs.mu.Lock()
		now := time.Now()
		for key, item := range cs.items {
			if now.After(item.expiration) {
				delete(cs.items, key)
			}
		}
		cs.mu.Unlock()
	}
}
