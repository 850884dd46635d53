package metadata

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"curatarr/models"
	"curatarr/services/ratings"
)

// The TMDB client doubles as the certification source for the ratings
// resolver.
var _ ratings.CertificationFetcher = (*tmdbClient)(nil)

const trendingWindow = "week"

// networkToProvider maps TV network IDs onto the matching watch-provider
// IDs so a network page can include movies as well.
var networkToProvider = map[int64]string{
	213:  "8",    // Netflix
	2739: "337",  // Disney+
	2552: "350",  // Apple TV+
	1024: "9",    // Amazon Prime Video
	3186: "1899", // Max
	4330: "531",  // Paramount+
	3353: "386",  // Peacock
	453:  "15",   // Hulu
}

// Service answers discovery, search, and detail requests against TMDB and
// applies per-profile certification filtering to every listing.
//
// Listing operations degrade to a well-formed empty page when the upstream
// fails; detail operations propagate their errors.
type Service struct {
	tmdb   *tmdbClient
	filter *ratings.Filter
	now    func() time.Time
}

// NewService wires a metadata service around a single TMDB key. The
// certification cache is shared with the ratings resolver so filter
// lookups are reused across requests.
func NewService(apiKey, language string, certCache *ratings.CertificationCache, httpc *http.Client) *Service {
	client := newTMDBClient(apiKey, language, httpc)
	resolver := ratings.NewResolver(certCache, client)
	return &Service{
		tmdb:   client,
		filter: ratings.NewFilter(resolver),
		now:    time.Now,
	}
}

// IsConfigured reports whether a TMDB key is present.
func (s *Service) IsConfigured() bool {
	return s.tmdb.isConfigured()
}

// DiscoverMovies runs a movie discovery query. Certification and curation
// limits are enforced upstream through query parameters, so results come
// back already filtered.
func (s *Service) DiscoverMovies(ctx context.Context, opts DiscoverMovieOptions, settings models.UserSettings) (models.MoviePage, error) {
	query := buildDiscoverMovieQuery(opts, settings, s.now())
	page, err := s.tmdb.discoverMovies(ctx, query)
	if err != nil {
		log.Printf("[metadata] discover movies failed: %v", err)
		return models.EmptyMoviePage(), nil
	}
	return page, nil
}

// DiscoverTv runs a series discovery query.
func (s *Service) DiscoverTv(ctx context.Context, opts DiscoverTvOptions, settings models.UserSettings) (models.TvPage, error) {
	query := buildDiscoverTvQuery(opts, settings, s.now())
	page, err := s.tmdb.discoverTv(ctx, query)
	if err != nil {
		log.Printf("[metadata] discover tv failed: %v", err)
		return models.EmptyTvPage(), nil
	}
	return page, nil
}

// UpcomingMovies lists not-yet-released movies. The curated quality floor
// is skipped because unreleased titles have no votes yet; certification
// limits still apply.
func (s *Service) UpcomingMovies(ctx context.Context, listPage int, settings models.UserSettings) (models.MoviePage, error) {
	opts := DiscoverMovieOptions{
		Page:                  listPage,
		PrimaryReleaseDateGte: s.now().Format("2006-01-02"),
		SkipCuratedFilters:    true,
	}
	return s.DiscoverMovies(ctx, opts, settings)
}

// SearchMulti searches movies, series, and people at once. Movie and series
// hits are filtered by certification, person hits pass through, and the
// upstream ordering is preserved.
func (s *Service) SearchMulti(ctx context.Context, term string, listPage int, settings models.UserSettings) (models.MixedPage, error) {
	page, err := s.tmdb.searchMulti(ctx, term, listPage, ratings.IncludeAdult(settings.MaxMovieRating), "")
	if err != nil {
		log.Printf("[metadata] search %q failed: %v", term, err)
		return models.EmptyMixedPage(), nil
	}
	page.Results = s.filter.FilterMixed(ctx, page.Results, settings)
	return page, nil
}

// SearchMovies searches movies only.
func (s *Service) SearchMovies(ctx context.Context, term string, listPage int, settings models.UserSettings) (models.MoviePage, error) {
	page, err := s.tmdb.searchMovies(ctx, term, listPage, ratings.IncludeAdult(settings.MaxMovieRating), "")
	if err != nil {
		log.Printf("[metadata] movie search %q failed: %v", term, err)
		return models.EmptyMoviePage(), nil
	}
	page.Results = s.filter.FilterMovies(ctx, page.Results, settings.MaxMovieRating)
	return page, nil
}

// SearchTv searches series only.
func (s *Service) SearchTv(ctx context.Context, term string, listPage int, settings models.UserSettings) (models.TvPage, error) {
	page, err := s.tmdb.searchTv(ctx, term, listPage, ratings.IncludeAdult(settings.MaxMovieRating), "")
	if err != nil {
		log.Printf("[metadata] tv search %q failed: %v", term, err)
		return models.EmptyTvPage(), nil
	}
	page.Results = s.filter.FilterTv(ctx, page.Results, settings.MaxTvRating)
	return page, nil
}

// TrendingMovies lists this week's trending movies. The trending endpoint
// ignores vote threshold query params, so the profile's quality floor is
// applied after the fetch, like certification.
func (s *Service) TrendingMovies(ctx context.Context, listPage int, settings models.UserSettings) (models.MoviePage, error) {
	page, err := s.tmdb.trendingMovies(ctx, trendingWindow, listPage)
	if err != nil {
		log.Printf("[metadata] trending movies failed: %v", err)
		return models.EmptyMoviePage(), nil
	}
	page.Results = curatedMovies(page.Results, settings)
	page.Results = s.filter.FilterMovies(ctx, page.Results, settings.MaxMovieRating)
	return page, nil
}

// TrendingTv lists this week's trending series.
func (s *Service) TrendingTv(ctx context.Context, listPage int, settings models.UserSettings) (models.TvPage, error) {
	page, err := s.tmdb.trendingTv(ctx, trendingWindow, listPage)
	if err != nil {
		log.Printf("[metadata] trending tv failed: %v", err)
		return models.EmptyTvPage(), nil
	}
	page.Results = curatedTv(page.Results, settings)
	page.Results = s.filter.FilterTv(ctx, page.Results, settings.MaxTvRating)
	return page, nil
}

// TrendingAll merges trending movies and series into one page. The two
// fetches run concurrently and either side failing degrades to an empty
// contribution instead of failing the whole listing.
func (s *Service) TrendingAll(ctx context.Context, listPage int, settings models.UserSettings) (models.MixedPage, error) {
	var (
		movies models.MoviePage
		tv     models.TvPage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movies, _ = s.TrendingMovies(gctx, listPage, settings)
		return nil
	})
	g.Go(func() error {
		tv, _ = s.TrendingTv(gctx, listPage, settings)
		return nil
	})
	_ = g.Wait()

	return mergeMixed(listPage, movies, tv), nil
}

// ByNetwork lists what a network or streaming service offers. Known
// networks map to a watch provider so movies are included; unknown ones
// fall back to a series-only listing by network ID.
func (s *Service) ByNetwork(ctx context.Context, networkID int64, listPage int, settings models.UserSettings) (models.MixedPage, error) {
	provider, ok := networkToProvider[networkID]
	if !ok {
		tv, err := s.DiscoverTv(ctx, DiscoverTvOptions{
			Page:    listPage,
			Network: strconv.FormatInt(networkID, 10),
		}, settings)
		if err != nil {
			return models.EmptyMixedPage(), nil
		}
		return mergeMixed(listPage, models.EmptyMoviePage(), tv), nil
	}

	var (
		movies models.MoviePage
		tv     models.TvPage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movies, _ = s.DiscoverMovies(gctx, DiscoverMovieOptions{
			Page:           listPage,
			WatchRegion:    "US",
			WatchProviders: provider,
		}, settings)
		return nil
	})
	g.Go(func() error {
		tv, _ = s.DiscoverTv(gctx, DiscoverTvOptions{
			Page:           listPage,
			WatchRegion:    "US",
			WatchProviders: provider,
		}, settings)
		return nil
	})
	_ = g.Wait()

	return mergeMixed(listPage, movies, tv), nil
}

// MovieRecommendations lists movies recommended alongside the given one.
func (s *Service) MovieRecommendations(ctx context.Context, movieID int64, listPage int, settings models.UserSettings) (models.MoviePage, error) {
	page, err := s.tmdb.movieRecommendations(ctx, movieID, listPage)
	if err != nil {
		log.Printf("[metadata] movie recommendations for %d failed: %v", movieID, err)
		return models.EmptyMoviePage(), nil
	}
	page.Results = s.filter.FilterMovies(ctx, page.Results, settings.MaxMovieRating)
	return page, nil
}

// SimilarMovies lists movies similar to the given one.
func (s *Service) SimilarMovies(ctx context.Context, movieID int64, listPage int, settings models.UserSettings) (models.MoviePage, error) {
	page, err := s.tmdb.similarMovies(ctx, movieID, listPage)
	if err != nil {
		log.Printf("[metadata] similar movies for %d failed: %v", movieID, err)
		return models.EmptyMoviePage(), nil
	}
	page.Results = s.filter.FilterMovies(ctx, page.Results, settings.MaxMovieRating)
	return page, nil
}

// TvRecommendations lists series recommended alongside the given one.
func (s *Service) TvRecommendations(ctx context.Context, tvID int64, listPage int, settings models.UserSettings) (models.TvPage, error) {
	page, err := s.tmdb.tvRecommendations(ctx, tvID, listPage)
	if err != nil {
		log.Printf("[metadata] tv recommendations for %d failed: %v", tvID, err)
		return models.EmptyTvPage(), nil
	}
	page.Results = s.filter.FilterTv(ctx, page.Results, settings.MaxTvRating)
	return page, nil
}

// SimilarTv lists series similar to the given one.
func (s *Service) SimilarTv(ctx context.Context, tvID int64, listPage int, settings models.UserSettings) (models.TvPage, error) {
	page, err := s.tmdb.similarTv(ctx, tvID, listPage)
	if err != nil {
		log.Printf("[metadata] similar tv for %d failed: %v", tvID, err)
		return models.EmptyTvPage(), nil
	}
	page.Results = s.filter.FilterTv(ctx, page.Results, settings.MaxTvRating)
	return page, nil
}

// MovieDetails fetches a single movie. Unlike listings, a failure here is
// the caller's problem.
func (s *Service) MovieDetails(ctx context.Context, movieID int64) (models.MovieDetails, error) {
	return s.tmdb.movieDetails(ctx, movieID)
}

// TvDetails fetches a single series.
func (s *Service) TvDetails(ctx context.Context, tvID int64) (models.TvDetails, error) {
	return s.tmdb.tvDetails(ctx, tvID)
}

// Collection fetches a movie collection with its parts filtered by the
// profile's movie limit.
func (s *Service) Collection(ctx context.Context, collectionID int64, settings models.UserSettings) (models.Collection, error) {
	col, err := s.tmdb.collection(ctx, collectionID)
	if err != nil {
		return models.Collection{}, err
	}
	col.Parts = s.filter.FilterMovies(ctx, col.Parts, settings.MaxMovieRating)
	return col, nil
}

// PersonDetails fetches a single person.
func (s *Service) PersonDetails(ctx context.Context, personID int64) (models.PersonDetails, error) {
	return s.tmdb.personDetails(ctx, personID)
}

// PersonCombinedCredits fetches a person's movie and series credits with
// both lists filtered by the profile's limits.
func (s *Service) PersonCombinedCredits(ctx context.Context, personID int64, settings models.UserSettings) (models.PersonCombinedCredits, error) {
	credits, err := s.tmdb.personCombinedCredits(ctx, personID)
	if err != nil {
		return models.PersonCombinedCredits{}, err
	}
	credits.Cast = s.filter.FilterMixed(ctx, credits.Cast, settings)
	credits.Crew = s.filter.FilterMixed(ctx, credits.Crew, settings)
	return credits, nil
}

// belowQualityFloor reports whether an entry falls short of the profile's
// curated vote thresholds. Standard sorting opts out of the floor.
func belowQualityFloor(voteCount int, voteAverage float64, settings models.UserSettings) bool {
	if settings.SortingMode == "standard" {
		return false
	}
	if settings.CuratedMinVotes > 0 && voteCount < settings.CuratedMinVotes {
		return true
	}
	if settings.CuratedMinRating > 0 && voteAverage < settings.CuratedMinRating {
		return true
	}
	return false
}

func curatedMovies(results []models.MovieResult, settings models.UserSettings) []models.MovieResult {
	kept := make([]models.MovieResult, 0, len(results))
	for _, r := range results {
		if belowQualityFloor(r.VoteCount, r.VoteAverage, settings) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func curatedTv(results []models.TvResult, settings models.UserSettings) []models.TvResult {
	kept := make([]models.TvResult, 0, len(results))
	for _, r := range results {
		if belowQualityFloor(r.VoteCount, r.VoteAverage, settings) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// mergeMixed combines per-kind pages into one, ordered by popularity with
// ties keeping their original relative order (movies before series).
// Result totals sum while page totals take the larger side, so clients can
// keep paging as long as either side has more.
func mergeMixed(listPage int, movies models.MoviePage, tv models.TvPage) models.MixedPage {
	if listPage < 1 {
		listPage = 1
	}

	results := make([]models.MixedResult, 0, len(movies.Results)+len(tv.Results))
	for _, m := range movies.Results {
		results = append(results, m.Mixed())
	}
	for _, t := range tv.Results {
		results = append(results, t.Mixed())
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Popularity > results[j].Popularity
	})

	return models.MixedPage{
		Page:         listPage,
		TotalPages:   max(movies.TotalPages, tv.TotalPages),
		TotalResults: movies.TotalResults + tv.TotalResults,
		Results:      results,
	}
}
