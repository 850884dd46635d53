package ratings

import (
	"context"

	"github.com/sourcegraph/conc"

	"curatarr/models"
)

// certificationBatchSize bounds how many certification lookups run against
// the upstream at once. Batches complete fully before the next one starts.
const certificationBatchSize = 10

// Filter removes candidates a profile's certification limits do not allow.
// Lookups go through the resolver, so repeat traffic is served from cache.
type Filter struct {
	resolver *Resolver
}

func NewFilter(resolver *Resolver) *Filter {
	return &Filter{resolver: resolver}
}

// FilterMovies returns the candidates a profile limited to maxRating may
// see, preserving input order. An unset or unrecognized maximum returns the
// input unchanged without any lookups. MaxRatingAdult drops adult-flagged
// titles only. Otherwise candidates whose certification cannot be resolved
// are excluded.
func (f *Filter) FilterMovies(ctx context.Context, candidates []models.MovieResult, maxRating string) []models.MovieResult {
	if maxRating == "" {
		return candidates
	}
	if maxRating == MaxRatingAdult {
		out := make([]models.MovieResult, 0, len(candidates))
		for _, c := range candidates {
			if !c.Adult {
				out = append(out, c)
			}
		}
		return out
	}

	allowed := AllowedMovieCertifications(maxRating)
	if allowed == nil {
		return candidates
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	keep := f.keepMask(ctx, models.MediaTypeMovie, ids, allowed)

	out := make([]models.MovieResult, 0, len(candidates))
	for i, c := range candidates {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// FilterTv is the series counterpart of FilterMovies. TV listings carry no
// adult flag, so MaxRatingAdult imposes no filtering.
func (f *Filter) FilterTv(ctx context.Context, candidates []models.TvResult, maxRating string) []models.TvResult {
	if maxRating == "" || maxRating == MaxRatingAdult {
		return candidates
	}

	allowed := AllowedTvRatings(maxRating)
	if allowed == nil {
		return candidates
	}

	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	keep := f.keepMask(ctx, models.MediaTypeTv, ids, allowed)

	out := make([]models.TvResult, 0, len(candidates))
	for i, c := range candidates {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// FilterMixed filters a mixed-media listing. Movie and series entries are
// checked against their respective limits, person entries always pass, and
// input order is preserved.
func (f *Filter) FilterMixed(ctx context.Context, results []models.MixedResult, settings models.UserSettings) []models.MixedResult {
	allowedMovie := AllowedMovieCertifications(settings.MaxMovieRating)
	allowedTv := AllowedTvRatings(settings.MaxTvRating)
	dropAdult := settings.MaxMovieRating != "" && allowedMovie == nil

	var movieIdx, tvIdx []int
	var movieIDs, tvIDs []int64
	for i, r := range results {
		switch r.MediaType {
		case models.MediaTypeMovie:
			if allowedMovie != nil {
				movieIdx = append(movieIdx, i)
				movieIDs = append(movieIDs, r.ID)
			}
		case models.MediaTypeTv:
			if allowedTv != nil {
				tvIdx = append(tvIdx, i)
				tvIDs = append(tvIDs, r.ID)
			}
		}
	}

	keep := make([]bool, len(results))
	for i := range keep {
		keep[i] = true
	}
	if len(movieIdx) > 0 {
		mask := f.keepMask(ctx, models.MediaTypeMovie, movieIDs, allowedMovie)
		for n, i := range movieIdx {
			keep[i] = mask[n]
		}
	}
	if len(tvIdx) > 0 {
		mask := f.keepMask(ctx, models.MediaTypeTv, tvIDs, allowedTv)
		for n, i := range tvIdx {
			keep[i] = mask[n]
		}
	}

	out := make([]models.MixedResult, 0, len(results))
	for i, r := range results {
		if !keep[i] {
			continue
		}
		if dropAdult && r.MediaType == models.MediaTypeMovie && r.Adult {
			continue
		}
		out = append(out, r)
	}
	return out
}

// keepMask resolves certifications in fixed-size batches and reports which
// positions fall inside the allow-list. Items within a batch resolve
// concurrently; a new batch starts only after the previous one finished.
// One item's failure never affects its siblings, it just stays excluded.
func (f *Filter) keepMask(ctx context.Context, kind models.MediaType, ids []int64, allowed []string) []bool {
	keep := make([]bool, len(ids))
	for start := 0; start < len(ids); start += certificationBatchSize {
		end := min(start+certificationBatchSize, len(ids))
		wg := conc.NewWaitGroup()
		for i := start; i < end; i++ {
			i := i
			wg.Go(func() {
				cert, ok := f.resolver.Resolve(ctx, kind, ids[i])
				keep[i] = ok && certAllowed(allowed, cert)
			})
		}
		wg.Wait()
	}
	return keep
}

func certAllowed(allowed []string, cert string) bool {
	for _, c := range allowed {
		if c == cert {
			return true
		}
	}
	return false
}
