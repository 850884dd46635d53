package ratings

import (
	"context"
	"testing"

	"curatarr/models"
)

func newMovieFilter(fetcher *fakeFetcher) *Filter {
	return NewFilter(NewResolver(NewCertificationCache(0), fetcher))
}

func movieCandidates(ids ...int64) []models.MovieResult {
	out := make([]models.MovieResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.MovieResult{ID: id, MediaType: models.MediaTypeMovie})
	}
	return out
}

func movieIDs(results []models.MovieResult) []int64 {
	out := make([]int64, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterMoviesUnsetMaximumSkipsLookups(t *testing.T) {
	fetcher := &fakeFetcher{}
	filter := newMovieFilter(fetcher)

	in := movieCandidates(1, 2, 3)
	out := filter.FilterMovies(context.Background(), in, "")
	if !equalIDs(movieIDs(out), []int64{1, 2, 3}) {
		t.Fatalf("unexpected ids: %v", movieIDs(out))
	}
	if fetcher.callCount() != 0 {
		t.Fatalf("no lookups expected, got %d", fetcher.callCount())
	}
}

func TestFilterMoviesAdultMaximumDropsFlaggedOnly(t *testing.T) {
	fetcher := &fakeFetcher{}
	filter := newMovieFilter(fetcher)

	in := []models.MovieResult{
		{ID: 1},
		{ID: 2, Adult: true},
		{ID: 3},
	}
	out := filter.FilterMovies(context.Background(), in, MaxRatingAdult)
	if !equalIDs(movieIDs(out), []int64{1, 3}) {
		t.Fatalf("unexpected ids: %v", movieIDs(out))
	}
	if fetcher.callCount() != 0 {
		t.Fatalf("adult filtering needs no lookups, got %d", fetcher.callCount())
	}
}

func TestFilterMoviesFailsClosed(t *testing.T) {
	fetcher := &fakeFetcher{
		movieCerts: map[int64]string{
			1: "G",
			2: "R",     // above the limit
			3: "",      // confirmed unrated
			5: "PG-13", // exactly the limit
		},
		failMovies: map[int64]bool{4: true}, // lookup error
	}
	filter := newMovieFilter(fetcher)

	out := filter.FilterMovies(context.Background(), movieCandidates(1, 2, 3, 4, 5), "PG-13")
	if !equalIDs(movieIDs(out), []int64{1, 5}) {
		t.Fatalf("unexpected ids: %v", movieIDs(out))
	}
}

func TestFilterMoviesPreservesInputOrder(t *testing.T) {
	certs := map[int64]string{}
	ids := make([]int64, 0, 25)
	for i := int64(1); i <= 25; i++ {
		ids = append(ids, i)
		certs[i] = "PG"
	}
	fetcher := &fakeFetcher{movieCerts: certs}
	filter := newMovieFilter(fetcher)

	out := filter.FilterMovies(context.Background(), movieCandidates(ids...), "R")
	if !equalIDs(movieIDs(out), ids) {
		t.Fatalf("order not preserved: %v", movieIDs(out))
	}
}

func TestFilterMoviesBatchesLookups(t *testing.T) {
	certs := map[int64]string{}
	ids := make([]int64, 0, 25)
	for i := int64(1); i <= 25; i++ {
		ids = append(ids, i)
		certs[i] = "G"
	}
	fetcher := &fakeFetcher{movieCerts: certs}
	filter := newMovieFilter(fetcher)

	filter.FilterMovies(context.Background(), movieCandidates(ids...), "G")
	if fetcher.callCount() != 25 {
		t.Fatalf("expected 25 lookups, got %d", fetcher.callCount())
	}
	if fetcher.maxInFlight > certificationBatchSize {
		t.Fatalf("concurrency %d exceeds batch size %d", fetcher.maxInFlight, certificationBatchSize)
	}
}

func TestFilterTvLegacyMaximum(t *testing.T) {
	fetcher := &fakeFetcher{tvRatings: map[int64]string{
		1: "TV-G",
		2: "TV-14",
		3: "TV-MA",
		4: "",
	}}
	filter := newMovieFilter(fetcher)

	in := []models.TvResult{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	// Legacy movie maximum "PG-13" maps to TV-14.
	out := filter.FilterTv(context.Background(), in, "PG-13")
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 2 {
		t.Fatalf("unexpected results: %+v", out)
	}
}

func TestFilterTvAdultMaximumIsUnrestricted(t *testing.T) {
	fetcher := &fakeFetcher{}
	filter := newMovieFilter(fetcher)

	in := []models.TvResult{{ID: 1}, {ID: 2}}
	out := filter.FilterTv(context.Background(), in, MaxRatingAdult)
	if len(out) != 2 {
		t.Fatalf("expected passthrough, got %+v", out)
	}
	if fetcher.callCount() != 0 {
		t.Fatalf("no lookups expected, got %d", fetcher.callCount())
	}
}

func TestFilterMixedFiltersPerKind(t *testing.T) {
	fetcher := &fakeFetcher{
		movieCerts: map[int64]string{10: "G", 11: "NC-17"},
		tvRatings:  map[int64]string{20: "TV-Y", 21: "TV-MA"},
	}
	filter := newMovieFilter(fetcher)

	in := []models.MixedResult{
		{ID: 10, MediaType: models.MediaTypeMovie},
		{ID: 20, MediaType: models.MediaTypeTv},
		{ID: 30, MediaType: models.MediaTypePerson},
		{ID: 11, MediaType: models.MediaTypeMovie},
		{ID: 21, MediaType: models.MediaTypeTv},
	}
	settings := models.UserSettings{MaxMovieRating: "PG", MaxTvRating: "TV-PG"}

	out := filter.FilterMixed(context.Background(), in, settings)
	want := []int64{10, 20, 30}
	got := make([]int64, 0, len(out))
	for _, r := range out {
		got = append(got, r.ID)
	}
	if !equalIDs(got, want) {
		t.Fatalf("got ids %v, want %v", got, want)
	}
}

func TestFilterMixedAdultMovieMaximum(t *testing.T) {
	fetcher := &fakeFetcher{}
	filter := newMovieFilter(fetcher)

	in := []models.MixedResult{
		{ID: 1, MediaType: models.MediaTypeMovie},
		{ID: 2, MediaType: models.MediaTypeMovie, Adult: true},
		{ID: 3, MediaType: models.MediaTypeTv},
	}
	settings := models.UserSettings{MaxMovieRating: MaxRatingAdult, MaxTvRating: MaxRatingAdult}

	out := filter.FilterMixed(context.Background(), in, settings)
	got := make([]int64, 0, len(out))
	for _, r := range out {
		got = append(got, r.ID)
	}
	if !equalIDs(got, []int64{1, 3}) {
		t.Fatalf("got ids %v", got)
	}
	if fetcher.callCount() != 0 {
		t.Fatalf("no lookups expected, got %d", fetcher.callCount())
	}
}
