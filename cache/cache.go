package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is the key-value collaborator used for link-title lookups. Keys are
// opaque strings and values expire after the TTL passed to Set.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
}

type memoryCache struct {
	store *gocache.Cache
}

// NewMemory returns an in-process Cache backed by go-cache.
func NewMemory() Cache {
	return &memoryCache{store: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (c *memoryCache) Get(key string) (string, bool) {
	value, ok := c.store.Get(key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

func (c *memoryCache) Set(key, value string, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}
