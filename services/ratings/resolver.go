package ratings

import (
	"context"
	"log"

	"curatarr/models"
)

// CertificationFetcher looks up US certifications from the metadata
// upstream. An empty string with a nil error means the upstream was reached
// and the title has no US certification.
type CertificationFetcher interface {
	MovieCertification(ctx context.Context, id int64) (string, error)
	TvContentRating(ctx context.Context, id int64) (string, error)
}

// Resolver answers certification lookups from the cache first and falls
// back to the fetcher on a miss.
type Resolver struct {
	cache   *CertificationCache
	fetcher CertificationFetcher
}

func NewResolver(cache *CertificationCache, fetcher CertificationFetcher) *Resolver {
	if cache == nil {
		cache = NewCertificationCache(0)
	}
	return &Resolver{cache: cache, fetcher: fetcher}
}

// Resolve returns the US certification for (kind, id). The second return
// value reports whether a definitive answer exists: a confirmed absence
// (empty certification) is definitive and cached, while a fetch failure is
// not cached so the next request retries the upstream.
func (r *Resolver) Resolve(ctx context.Context, kind models.MediaType, id int64) (string, bool) {
	if cert, ok := r.cache.Get(kind, id); ok {
		return cert, true
	}

	var (
		cert string
		err  error
	)
	switch kind {
	case models.MediaTypeMovie:
		cert, err = r.fetcher.MovieCertification(ctx, id)
	case models.MediaTypeTv:
		cert, err = r.fetcher.TvContentRating(ctx, id)
	default:
		return "", false
	}
	if err != nil {
		log.Printf("[ratings] certification lookup failed for %s %d: %v", kind, id, err)
		return "", false
	}

	r.cache.Set(kind, id, cert)
	return cert, true
}
