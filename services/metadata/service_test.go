package metadata

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"curatarr/models"
	"curatarr/services/ratings"
)

func newTestService(rt roundTripFunc) *Service {
	svc := NewService("test-key", "en-US", ratings.NewCertificationCache(0), &http.Client{Transport: rt})
	svc.now = func() time.Time { return discoverNow }
	return svc
}

// routeByPath dispatches requests to canned bodies keyed by path suffix.
func routeByPath(t *testing.T, routes map[string]string) roundTripFunc {
	return func(r *http.Request) (*http.Response, error) {
		for suffix, body := range routes {
			if strings.HasSuffix(r.URL.Path, suffix) {
				return jsonResponse(http.StatusOK, body), nil
			}
		}
		t.Errorf("unexpected request: %s", r.URL.Path)
		return jsonResponse(http.StatusNotFound, `{}`), nil
	}
}

func usMovieCert(cert string) string {
	return `{"results":[{"iso_3166_1":"US","release_dates":[{"certification":"` + cert + `"}]}]}`
}

func usTvRating(rating string) string {
	return `{"results":[{"iso_3166_1":"US","rating":"` + rating + `"}]}`
}

func TestSearchMultiFiltersPerKindAndKeepsOrder(t *testing.T) {
	routes := map[string]string{
		"/search/multi": `{"page":1,"total_pages":1,"total_results":5,"results":[
			{"id":10,"media_type":"movie","title":"Safe Movie","popularity":9},
			{"id":20,"media_type":"tv","name":"Safe Show","popularity":8},
			{"id":30,"media_type":"person","name":"Someone","popularity":7},
			{"id":11,"media_type":"movie","title":"Harsh Movie","popularity":6},
			{"id":21,"media_type":"tv","name":"Harsh Show","popularity":5}
		]}`,
		"/movie/10/release_dates": usMovieCert("G"),
		"/movie/11/release_dates": usMovieCert("NC-17"),
		"/tv/20/content_ratings":  usTvRating("TV-Y"),
		"/tv/21/content_ratings":  usTvRating("TV-MA"),
	}
	svc := newTestService(routeByPath(t, routes))
	settings := models.UserSettings{MaxMovieRating: "PG", MaxTvRating: "TV-PG"}

	page, err := svc.SearchMulti(context.Background(), "safe", 1, settings)
	if err != nil {
		t.Fatalf("SearchMulti: %v", err)
	}
	if page.TotalResults != 5 {
		t.Fatalf("totals describe the upstream set, got %d", page.TotalResults)
	}
	if len(page.Results) != 3 {
		t.Fatalf("expected 3 results, got %d: %+v", len(page.Results), page.Results)
	}
	for i, wantID := range []int64{10, 20, 30} {
		if page.Results[i].ID != wantID {
			t.Fatalf("result %d: got id %d, want %d", i, page.Results[i].ID, wantID)
		}
	}
}

func TestListingFailureDegradesToEmptyPage(t *testing.T) {
	svc := newTestService(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("upstream down")
	})

	page, err := svc.SearchMovies(context.Background(), "anything", 1, models.UserSettings{})
	if err != nil {
		t.Fatalf("listings must not propagate upstream errors, got %v", err)
	}
	if page.Page != 1 || page.TotalPages != 0 || page.TotalResults != 0 {
		t.Fatalf("unexpected empty page shape: %+v", page)
	}
	if page.Results == nil || len(page.Results) != 0 {
		t.Fatalf("results must be an empty non-nil slice: %#v", page.Results)
	}
}

func TestDetailErrorPropagates(t *testing.T) {
	svc := newTestService(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	if _, err := svc.MovieDetails(context.Background(), 603); err == nil {
		t.Fatal("detail lookups must propagate errors")
	}
}

func TestTrendingAllMergesByPopularity(t *testing.T) {
	routes := map[string]string{
		"/trending/movie/week": `{"page":1,"total_pages":4,"total_results":40,"results":[
			{"id":1,"title":"A","popularity":50},
			{"id":2,"title":"B","popularity":10}
		]}`,
		"/trending/tv/week": `{"page":1,"total_pages":7,"total_results":20,"results":[
			{"id":3,"name":"C","popularity":30},
			{"id":4,"name":"D","popularity":10}
		]}`,
	}
	svc := newTestService(routeByPath(t, routes))

	page, err := svc.TrendingAll(context.Background(), 1, models.UserSettings{})
	if err != nil {
		t.Fatalf("TrendingAll: %v", err)
	}
	if page.Page != 1 || page.TotalPages != 7 || page.TotalResults != 60 {
		t.Fatalf("unexpected merged totals: %+v", page)
	}
	// Popularity descending; the tie at 10 keeps movies ahead of series.
	wantIDs := []int64{1, 3, 2, 4}
	for i, want := range wantIDs {
		if page.Results[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d", i, page.Results[i].ID, want)
		}
	}
}

func TestCollectionFiltersParts(t *testing.T) {
	routes := map[string]string{
		"/collection/2344": `{"id":2344,"name":"A Collection","parts":[
			{"id":1,"title":"Mild"},
			{"id":2,"title":"Rough"}
		]}`,
		"/movie/1/release_dates": usMovieCert("G"),
		"/movie/2/release_dates": usMovieCert("R"),
	}
	svc := newTestService(routeByPath(t, routes))

	col, err := svc.Collection(context.Background(), 2344, models.UserSettings{MaxMovieRating: "PG"})
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	if len(col.Parts) != 1 || col.Parts[0].ID != 1 {
		t.Fatalf("unexpected parts: %+v", col.Parts)
	}
}

func TestByNetworkUnknownFallsBackToTvOnly(t *testing.T) {
	var sawMovieDiscover bool
	var tvQuery string
	svc := newTestService(func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/discover/movie"):
			sawMovieDiscover = true
			return jsonResponse(http.StatusOK, `{"page":1,"results":[]}`), nil
		case strings.HasSuffix(r.URL.Path, "/discover/tv"):
			tvQuery = r.URL.RawQuery
			return jsonResponse(http.StatusOK, `{"page":1,"total_pages":1,"total_results":1,"results":[{"id":5,"name":"E","popularity":2}]}`), nil
		}
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	page, err := svc.ByNetwork(context.Background(), 99999, 1, models.UserSettings{})
	if err != nil {
		t.Fatalf("ByNetwork: %v", err)
	}
	if sawMovieDiscover {
		t.Fatal("unknown networks must not trigger movie discovery")
	}
	if !strings.Contains(tvQuery, "with_networks=99999") {
		t.Fatalf("missing network filter: %s", tvQuery)
	}
	if len(page.Results) != 1 || page.Results[0].MediaType != models.MediaTypeTv {
		t.Fatalf("unexpected results: %+v", page.Results)
	}
}

func TestByNetworkKnownProviderMergesBothKinds(t *testing.T) {
	var movieQuery, tvQuery string
	svc := newTestService(func(r *http.Request) (*http.Response, error) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/discover/movie"):
			movieQuery = r.URL.RawQuery
			return jsonResponse(http.StatusOK, `{"page":1,"total_pages":2,"total_results":11,"results":[{"id":1,"title":"M","popularity":9}]}`), nil
		case strings.HasSuffix(r.URL.Path, "/discover/tv"):
			tvQuery = r.URL.RawQuery
			return jsonResponse(http.StatusOK, `{"page":1,"total_pages":3,"total_results":12,"results":[{"id":2,"name":"S","popularity":20}]}`), nil
		}
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	// 213 is Netflix; its watch provider is 8.
	page, err := svc.ByNetwork(context.Background(), 213, 1, models.UserSettings{})
	if err != nil {
		t.Fatalf("ByNetwork: %v", err)
	}
	for _, q := range []string{movieQuery, tvQuery} {
		if !strings.Contains(q, "with_watch_providers=8") || !strings.Contains(q, "watch_region=US") {
			t.Fatalf("missing provider params: %s", q)
		}
	}
	if page.TotalResults != 23 || page.TotalPages != 3 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if page.Results[0].ID != 2 || page.Results[1].ID != 1 {
		t.Fatalf("results not sorted by popularity: %+v", page.Results)
	}
}

func TestUpcomingSkipsCuratedKeepsCertification(t *testing.T) {
	var query string
	svc := newTestService(func(r *http.Request) (*http.Response, error) {
		query = r.URL.RawQuery
		return jsonResponse(http.StatusOK, `{"page":1,"results":[]}`), nil
	})
	settings := models.UserSettings{
		MaxMovieRating:   "PG-13",
		CuratedMinVotes:  3000,
		CuratedMinRating: 7.5,
	}

	if _, err := svc.UpcomingMovies(context.Background(), 1, settings); err != nil {
		t.Fatalf("UpcomingMovies: %v", err)
	}
	if !strings.Contains(query, "primary_release_date.gte=2026-03-01") {
		t.Fatalf("missing release floor: %s", query)
	}
	if strings.Contains(query, "vote_count.gte") || strings.Contains(query, "vote_average.gte") {
		t.Fatalf("curated params must be skipped for upcoming: %s", query)
	}
	if !strings.Contains(query, "certification_country=US") {
		t.Fatalf("certification limit must still apply: %s", query)
	}
}

func TestTrendingMoviesAppliesQualityFloor(t *testing.T) {
	routes := map[string]string{
		"/trending/movie/week": `{"page":1,"total_pages":2,"total_results":25,"results":[
			{"id":1,"title":"Established","popularity":50,"vote_count":5000,"vote_average":8.1},
			{"id":2,"title":"Obscure","popularity":40,"vote_count":3,"vote_average":9.9}
		]}`,
	}
	svc := newTestService(routeByPath(t, routes))
	settings := models.UserSettings{CuratedMinVotes: 3000}

	page, err := svc.TrendingMovies(context.Background(), 1, settings)
	if err != nil {
		t.Fatalf("TrendingMovies: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].ID != 1 {
		t.Fatalf("expected only the established title, got %+v", page.Results)
	}
	if page.TotalResults != 25 {
		t.Fatalf("totals describe the upstream set, got %d", page.TotalResults)
	}
}

func TestTrendingTvAppliesRatingFloor(t *testing.T) {
	routes := map[string]string{
		"/trending/tv/week": `{"page":1,"total_pages":1,"total_results":2,"results":[
			{"id":7,"name":"Acclaimed","popularity":30,"vote_count":4000,"vote_average":8.4},
			{"id":8,"name":"Panned","popularity":20,"vote_count":4000,"vote_average":5.1}
		]}`,
	}
	svc := newTestService(routeByPath(t, routes))
	settings := models.UserSettings{CuratedMinRating: 7.5}

	page, err := svc.TrendingTv(context.Background(), 1, settings)
	if err != nil {
		t.Fatalf("TrendingTv: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].ID != 7 {
		t.Fatalf("expected only the acclaimed show, got %+v", page.Results)
	}
}

func TestTrendingStandardSortingSkipsQualityFloor(t *testing.T) {
	routes := map[string]string{
		"/trending/movie/week": `{"page":1,"total_pages":1,"total_results":2,"results":[
			{"id":1,"title":"Established","popularity":50,"vote_count":5000,"vote_average":8.1},
			{"id":2,"title":"Obscure","popularity":40,"vote_count":3,"vote_average":4.0}
		]}`,
	}
	svc := newTestService(routeByPath(t, routes))
	settings := models.UserSettings{
		CuratedMinVotes:  3000,
		CuratedMinRating: 7.5,
		SortingMode:      "standard",
	}

	page, err := svc.TrendingMovies(context.Background(), 1, settings)
	if err != nil {
		t.Fatalf("TrendingMovies: %v", err)
	}
	if len(page.Results) != 2 {
		t.Fatalf("standard sorting must not drop low-vote titles, got %+v", page.Results)
	}
}
