package metadata

import (
	"net/url"
	"strconv"
	"time"

	"curatarr/models"
	"curatarr/services/ratings"
)

const (
	// releaseDateFloor stands in for "no lower bound" when only an upper
	// release date is requested; TMDB needs both ends of the range.
	releaseDateFloor = "1900-01-01"
	// releaseHorizonDays caps open-ended ranges roughly 18 months out so
	// far-future placeholder entries stay off listing pages.
	releaseHorizonDays = 547

	defaultSortBy = "popularity.desc"
)

// DiscoverMovieOptions are the caller-controlled knobs of a movie discovery
// query. Zero values are omitted from the request.
type DiscoverMovieOptions struct {
	Page                  int
	SortBy                string
	Language              string
	PrimaryReleaseDateGte string
	PrimaryReleaseDateLte string
	WithRuntimeGte        int
	WithRuntimeLte        int
	VoteAverageGte        float64
	VoteAverageLte        float64
	VoteCountGte          int
	VoteCountLte          int
	OriginalLanguage      string
	Genre                 string
	Studio                string
	Keywords              string
	WatchRegion           string
	WatchProviders        string

	// SkipCuratedFilters leaves the profile's quality floor out, for
	// surfaces like upcoming where low vote counts are expected.
	SkipCuratedFilters bool
}

// DiscoverTvOptions is the series counterpart of DiscoverMovieOptions.
type DiscoverTvOptions struct {
	Page               int
	SortBy             string
	Language           string
	FirstAirDateGte    string
	FirstAirDateLte    string
	WithRuntimeGte     int
	WithRuntimeLte     int
	VoteAverageGte     float64
	VoteAverageLte     float64
	VoteCountGte       int
	VoteCountLte       int
	OriginalLanguage   string
	Genre              string
	Network            string
	Keywords           string
	WatchRegion        string
	WatchProviders     string
	SkipCuratedFilters bool
}

func setIfPositiveInt(query url.Values, key string, v int) {
	if v > 0 {
		query.Set(key, strconv.Itoa(v))
	}
}

func setIfPositiveFloat(query url.Values, key string, v float64) {
	if v > 0 {
		query.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
	}
}

func setIfNotEmpty(query url.Values, key, v string) {
	if v != "" {
		query.Set(key, v)
	}
}

// originalLanguageParam resolves with_original_language: an explicit
// request value wins, "all" clears the profile default, and an empty
// request falls back to the profile's preference.
func originalLanguageParam(requested, profile string) string {
	switch requested {
	case "":
		return profile
	case "all":
		return ""
	default:
		return requested
	}
}

// dateRange fills in the missing end of a half-open date range: a lone
// upper bound extends back to the floor, a lone lower bound extends to the
// horizon. A fully empty range emits nothing.
func dateRange(query url.Values, gteKey, lteKey, gte, lte string, now time.Time) {
	switch {
	case gte == "" && lte == "":
		return
	case gte == "":
		gte = releaseDateFloor
	case lte == "":
		lte = now.AddDate(0, 0, releaseHorizonDays).Format("2006-01-02")
	}
	query.Set(gteKey, gte)
	query.Set(lteKey, lte)
}

// buildDiscoverMovieQuery assembles the discover/movie parameters for the
// given options under the profile's certification and curation limits.
// Explicit vote bounds in the options take precedence over the curated
// defaults.
func buildDiscoverMovieQuery(opts DiscoverMovieOptions, settings models.UserSettings, now time.Time) url.Values {
	query := url.Values{}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	query.Set("sort_by", sortBy)

	query.Set("include_adult", strconv.FormatBool(ratings.IncludeAdult(settings.MaxMovieRating)))

	for key, value := range ratings.MovieCertificationParams(settings.MaxMovieRating) {
		query.Set(key, value)
	}
	if !opts.SkipCuratedFilters {
		for key, value := range ratings.CuratedQueryParams(settings.CuratedMinVotes, settings.CuratedMinRating) {
			query.Set(key, value)
		}
	}

	dateRange(query, "primary_release_date.gte", "primary_release_date.lte",
		opts.PrimaryReleaseDateGte, opts.PrimaryReleaseDateLte, now)

	setIfNotEmpty(query, "language", opts.Language)
	setIfNotEmpty(query, "region", settings.Region)
	setIfNotEmpty(query, "with_original_language", originalLanguageParam(opts.OriginalLanguage, settings.OriginalLanguage))
	setIfNotEmpty(query, "with_genres", opts.Genre)
	setIfNotEmpty(query, "with_companies", opts.Studio)
	setIfNotEmpty(query, "with_keywords", opts.Keywords)
	setIfNotEmpty(query, "watch_region", opts.WatchRegion)
	setIfNotEmpty(query, "with_watch_providers", opts.WatchProviders)

	setIfPositiveInt(query, "with_runtime.gte", opts.WithRuntimeGte)
	setIfPositiveInt(query, "with_runtime.lte", opts.WithRuntimeLte)
	setIfPositiveFloat(query, "vote_average.gte", opts.VoteAverageGte)
	setIfPositiveFloat(query, "vote_average.lte", opts.VoteAverageLte)
	setIfPositiveInt(query, "vote_count.gte", opts.VoteCountGte)
	setIfPositiveInt(query, "vote_count.lte", opts.VoteCountLte)

	return query
}

// buildDiscoverTvQuery is the series counterpart of
// buildDiscoverMovieQuery. TV discovery has no include_adult parameter.
func buildDiscoverTvQuery(opts DiscoverTvOptions, settings models.UserSettings, now time.Time) url.Values {
	query := url.Values{}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	query.Set("sort_by", sortBy)

	for key, value := range ratings.TvCertificationParams(settings.MaxTvRating) {
		query.Set(key, value)
	}
	if !opts.SkipCuratedFilters {
		for key, value := range ratings.CuratedQueryParams(settings.CuratedMinVotes, settings.CuratedMinRating) {
			query.Set(key, value)
		}
	}

	dateRange(query, "first_air_date.gte", "first_air_date.lte",
		opts.FirstAirDateGte, opts.FirstAirDateLte, now)

	setIfNotEmpty(query, "language", opts.Language)
	setIfNotEmpty(query, "region", settings.Region)
	setIfNotEmpty(query, "with_original_language", originalLanguageParam(opts.OriginalLanguage, settings.OriginalLanguage))
	setIfNotEmpty(query, "with_genres", opts.Genre)
	setIfNotEmpty(query, "with_networks", opts.Network)
	setIfNotEmpty(query, "with_keywords", opts.Keywords)
	setIfNotEmpty(query, "watch_region", opts.WatchRegion)
	setIfNotEmpty(query, "with_watch_providers", opts.WatchProviders)

	setIfPositiveInt(query, "with_runtime.gte", opts.WithRuntimeGte)
	setIfPositiveInt(query, "with_runtime.lte", opts.WithRuntimeLte)
	setIfPositiveFloat(query, "vote_average.gte", opts.VoteAverageGte)
	setIfPositiveFloat(query, "vote_average.lte", opts.VoteAverageLte)
	setIfPositiveInt(query, "vote_count.gte", opts.VoteCountGte)
	setIfPositiveInt(query, "vote_count.lte", opts.VoteCountLte)

	return query
}
