package ratings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"curatarr/models"
)

func TestCertificationCacheRoundTrip(t *testing.T) {
	cache := NewCertificationCache(0)

	_, ok := cache.Get(models.MediaTypeMovie, 603)
	assert.False(t, ok)

	cache.Set(models.MediaTypeMovie, 603, "R")
	cert, ok := cache.Get(models.MediaTypeMovie, 603)
	assert.True(t, ok)
	assert.Equal(t, "R", cert)

	// Same ID under a different kind is a separate entry.
	_, ok = cache.Get(models.MediaTypeTv, 603)
	assert.False(t, ok)
}

func TestCertificationCacheEmptyValueIsAHit(t *testing.T) {
	cache := NewCertificationCache(0)
	cache.Set(models.MediaTypeTv, 42, "")

	cert, ok := cache.Get(models.MediaTypeTv, 42)
	assert.True(t, ok)
	assert.Equal(t, "", cert)
}

func TestCertificationCacheTTLExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCertificationCache(24 * time.Hour)
	cache.now = func() time.Time { return now }

	cache.Set(models.MediaTypeMovie, 550, "R")

	now = now.Add(23 * time.Hour)
	_, ok := cache.Get(models.MediaTypeMovie, 550)
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok = cache.Get(models.MediaTypeMovie, 550)
	assert.False(t, ok)

	// A fresh Set after expiry restarts the TTL.
	cache.Set(models.MediaTypeMovie, 550, "PG-13")
	cert, ok := cache.Get(models.MediaTypeMovie, 550)
	assert.True(t, ok)
	assert.Equal(t, "PG-13", cert)
}

func TestCertificationCacheLastWriteWins(t *testing.T) {
	cache := NewCertificationCache(0)
	cache.Set(models.MediaTypeMovie, 11, "PG")
	cache.Set(models.MediaTypeMovie, 11, "PG-13")

	cert, _ := cache.Get(models.MediaTypeMovie, 11)
	assert.Equal(t, "PG-13", cert)
	assert.Equal(t, 1, cache.Len())
}
