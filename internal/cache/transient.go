// Package cache holds session-local state that never touches durable storage.
package cache

import (
	"sync"

	"github.com/google/uuid"
)

// TransientScheme prefixes every URL handed out by the cache.
const TransientScheme = "transient://"

// TransientCache maps session-local URLs to raw media bytes. It is the
// in-process equivalent of an object URL: entries vanish with the session
// unless the media manager also persisted them under a durable key.
type TransientCache struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewTransientCache creates an empty TransientCache.
func NewTransientCache() *TransientCache {
	return &TransientCache{
		blobs: make(map[string][]byte),
	}
}

// Put stores data and returns the generated transient URL for it.
func (c *TransientCache) Put(data []byte) string {
	url := TransientScheme + uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blobs[url] = data
	return url
}

// Get retrieves the bytes behind a transient URL.
func (c *TransientCache) Get(url string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.blobs[url]
	return data, ok
}

// Delete revokes a transient URL.
func (c *TransientCache) Delete(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.blobs, url)
}

// Len returns the number of live transient entries.
func (c *TransientCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blobs)
}

// Reset drops all transient entries.
func (c *TransientCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blobs = make(map[string][]byte)
}
