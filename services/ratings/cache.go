package ratings

import (
	"fmt"
	"sync"
	"time"

	"curatarr/models"
)

// DefaultCacheTTL bounds how long a resolved certification is reused before
// the upstream is asked again.
const DefaultCacheTTL = 24 * time.Hour

type cacheEntry struct {
	certification string
	storedAt      time.Time
}

// CertificationCache is an in-memory TTL cache of US certifications keyed by
// media kind and TMDB ID. The empty string is a valid cached value: it
// records that the upstream was asked and had no US certification, which
// saves refetching titles that will never resolve.
type CertificationCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCertificationCache returns a cache with the given TTL. A zero ttl
// falls back to DefaultCacheTTL.
func NewCertificationCache(ttl time.Duration) *CertificationCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CertificationCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(kind models.MediaType, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// Get returns the cached certification for (kind, id). The second return
// value distinguishes a cached empty certification from a miss. Expired
// entries are treated as absent and dropped.
func (c *CertificationCache) Get(kind models.MediaType, id int64) (string, bool) {
	key := cacheKey(kind, id)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := c.entries[key]; ok && c.now().Sub(cur.storedAt) > c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}
	return entry.certification, true
}

// Set stores a certification for (kind, id), resetting its TTL. Concurrent
// writers race benignly: the last write wins.
func (c *CertificationCache) Set(kind models.MediaType, id int64, certification string) {
	c.mu.Lock()
	c.entries[cacheKey(kind, id)] = cacheEntry{
		certification: certification,
		storedAt:      c.now(),
	}
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *CertificationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
