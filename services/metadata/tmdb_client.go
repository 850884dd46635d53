package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"curatarr/models"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

var errTMDBNotConfigured = errors.New("tmdb api key not configured")

type tmdbClient struct {
	apiKey   string
	language string
	httpc    *http.Client
	limiter  *rate.Limiter
}

func newTMDBClient(apiKey, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &tmdbClient{
		apiKey:   strings.TrimSpace(apiKey),
		language: strings.TrimSpace(language),
		httpc:    httpc,
		// TMDB allows roughly 50 req/s per key; stay under it.
		limiter: rate.NewLimiter(rate.Limit(40), 10),
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

// get performs a rate-limited GET against the TMDB v3 API and decodes the
// JSON body into v. Rate-limit responses and server errors are retried with
// exponential backoff; client errors fail immediately.
func (c *tmdbClient) get(ctx context.Context, parts []string, query url.Values, v any) error {
	if !c.isConfigured() {
		return errTMDBNotConfigured
	}

	endpoint, err := url.JoinPath(tmdbBaseURL, parts...)
	if err != nil {
		return err
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	if query.Get("language") == "" {
		if c.language != "" {
			query.Set("language", c.language)
		} else {
			query.Set("language", "en-US")
		}
	}
	endpoint += "?" + query.Encode()

	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return fmt.Errorf("tmdb request failed: %s", resp.Status)
			}
			if resp.StatusCode >= 400 {
				return retry.Unrecoverable(fmt.Errorf("tmdb request failed: %s", resp.Status))
			}

			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode tmdb response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// Raw TMDB wire structures. Only the fields the service consumes are
// decoded.

type tmdbMovieResult struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int   `json:"genre_ids"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Adult            bool    `json:"adult"`
}

type tmdbTvResult struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	OriginalLanguage string   `json:"original_language"`
	Overview         string   `json:"overview"`
	FirstAirDate     string   `json:"first_air_date"`
	GenreIDs         []int    `json:"genre_ids"`
	OriginCountry    []string `json:"origin_country"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	Popularity       float64  `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
}

type tmdbMixedResult struct {
	ID               int64   `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	GenreIDs         []int   `json:"genre_ids"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ProfilePath      string  `json:"profile_path"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Adult            bool    `json:"adult"`
}

type tmdbMoviePage struct {
	Page         int               `json:"page"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
	Results      []tmdbMovieResult `json:"results"`
}

type tmdbTvPage struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []tmdbTvResult `json:"results"`
}

type tmdbMixedPage struct {
	Page         int               `json:"page"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
	Results      []tmdbMixedResult `json:"results"`
}

func (r tmdbMovieResult) toModel() models.MovieResult {
	return models.MovieResult{
		ID:               r.ID,
		MediaType:        models.MediaTypeMovie,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		OriginalLanguage: r.OriginalLanguage,
		Overview:         r.Overview,
		ReleaseDate:      r.ReleaseDate,
		GenreIDs:         r.GenreIDs,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		Popularity:       r.Popularity,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Adult:            r.Adult,
	}
}

func (r tmdbTvResult) toModel() models.TvResult {
	return models.TvResult{
		ID:               r.ID,
		MediaType:        models.MediaTypeTv,
		Name:             r.Name,
		OriginalName:     r.OriginalName,
		OriginalLanguage: r.OriginalLanguage,
		Overview:         r.Overview,
		FirstAirDate:     r.FirstAirDate,
		GenreIDs:         r.GenreIDs,
		OriginCountry:    r.OriginCountry,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		Popularity:       r.Popularity,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
	}
}

func (r tmdbMixedResult) toModel() models.MixedResult {
	return models.MixedResult{
		ID:               r.ID,
		MediaType:        models.MediaType(r.MediaType),
		Title:            r.Title,
		Name:             r.Name,
		OriginalLanguage: r.OriginalLanguage,
		Overview:         r.Overview,
		ReleaseDate:      r.ReleaseDate,
		FirstAirDate:     r.FirstAirDate,
		GenreIDs:         r.GenreIDs,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		ProfilePath:      r.ProfilePath,
		Popularity:       r.Popularity,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Adult:            r.Adult,
	}
}

func (p tmdbMoviePage) toModel() models.MoviePage {
	out := models.MoviePage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      make([]models.MovieResult, 0, len(p.Results)),
	}
	for _, r := range p.Results {
		out.Results = append(out.Results, r.toModel())
	}
	return out
}

func (p tmdbTvPage) toModel() models.TvPage {
	out := models.TvPage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      make([]models.TvResult, 0, len(p.Results)),
	}
	for _, r := range p.Results {
		out.Results = append(out.Results, r.toModel())
	}
	return out
}

func (p tmdbMixedPage) toModel() models.MixedPage {
	out := models.MixedPage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      make([]models.MixedResult, 0, len(p.Results)),
	}
	for _, r := range p.Results {
		out.Results = append(out.Results, r.toModel())
	}
	return out
}

func (c *tmdbClient) discoverMovies(ctx context.Context, query url.Values) (models.MoviePage, error) {
	var page tmdbMoviePage
	if err := c.get(ctx, []string{"discover", "movie"}, query, &page); err != nil {
		return models.MoviePage{}, fmt.Errorf("tmdb discover movies: %w", err)
	}
	return page.toModel(), nil
}

func (c *tmdbClient) discoverTv(ctx context.Context, query url.Values) (models.TvPage, error) {
	var page tmdbTvPage
	if err := c.get(ctx, []string{"discover", "tv"}, query, &page); err != nil {
		return models.TvPage{}, fmt.Errorf("tmdb discover tv: %w", err)
	}
	return page.toModel(), nil
}

func searchQuery(term string, searchPage int, includeAdult bool, language string) url.Values {
	query := url.Values{}
	query.Set("query", term)
	query.Set("page", strconv.Itoa(searchPage))
	query.Set("include_adult", strconv.FormatBool(includeAdult))
	if language != "" {
		query.Set("language", language)
	}
	return query
}

func (c *tmdbClient) searchMulti(ctx context.Context, term string, searchPage int, includeAdult bool, language string) (models.MixedPage, error) {
	var page tmdbMixedPage
	if err := c.get(ctx, []string{"search", "multi"}, searchQuery(term, searchPage, includeAdult, language), &page); err != nil {
		return models.MixedPage{}, fmt.Errorf("tmdb search multi: %w", err)
	}
	return page.toModel(), nil
}

func (c *tmdbClient) searchMovies(ctx context.Context, term string, searchPage int, includeAdult bool, language string) (models.MoviePage, error) {
	var page tmdbMoviePage
	if err := c.get(ctx, []string{"search", "movie"}, searchQuery(term, searchPage, includeAdult, language), &page); err != nil {
		return models.MoviePage{}, fmt.Errorf("tmdb search movies: %w", err)
	}
	return page.toModel(), nil
}

func (c *tmdbClient) searchTv(ctx context.Context, term string, searchPage int, includeAdult bool, language string) (models.TvPage, error) {
	var page tmdbTvPage
	if err := c.get(ctx, []string{"search", "tv"}, searchQuery(term, searchPage, includeAdult, language), &page); err != nil {
		return models.TvPage{}, fmt.Errorf("tmdb search tv: %w", err)
	}
	return page.toModel(), nil
}

func pageQuery(listPage int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(listPage))
	return query
}

func (c *tmdbClient) trendingMovies(ctx context.Context, window string, listPage int) (models.MoviePage, error) {
	var page tmdbMoviePage
	if err := c.get(ctx, []string{"trending", "movie", window}, pageQuery(listPage), &page); err != nil {
		return models.MoviePage{}, fmt.Errorf("tmdb trending movies: %w", err)
	}
	return page.toModel(), nil
}

func (c *tmdbClient) trendingTv(ctx context.Context, window string, listPage int) (models.TvPage, error) {
	var page tmdbTvPage
	if err := c.get(ctx, []string{"trending", "tv", window}, pageQuery(listPage), &page); err != nil {
		return models.TvPage{}, fmt.Errorf("tmdb trending tv: %w", err)
	}
	return page.toModel(), nil
}

func (c *tmdbClient) movieRecommendations(ctx context.Context, movieID int64, listPage int) (models.MoviePage, error) {
	var page tmdbMoviePage
	if err := c.get(ctx, []string{"movie", strconv.FormatInt(movieID, 10), "recommendations"}, pageQuery(listPage), &page); err != nil {
		return models.MoviePage{}, fmt.Errorf("tmdb movie recommendations: %w", err)
	}
	return page.toModel(), nil
}

func (c *tmdbClient) similarMovies(ctx context.Context, movieID int64, listPage int) (models.MoviePage, error) {
	var page tmdbMoviePage
	if err := c.get(ctx, []string{"movie", strconv.FormatInt(movieID, 10), "similar"}, pageQuery(listPage), &page); err != nil {
		return models.MoviePage{}, fmt.Errorf("tmdb similar movies: %w", err)
	}
	return page.toModel(), nil
}

func (c *tmdbClient) tvRecommendations(ctx context.Context, tvID int64, listPage int) (models.TvPage, error) {
	var page tmdbTvPage
	if err := c.get(ctx, []string{"tv", strconv.FormatInt(tvID, 10), "recommendations"}, pageQuery(listPage), &page); err != nil {
		return models.TvPage{}, fmt.Errorf("tmdb tv recommendations: %w", err)
	}
	return page.toModel(), nil
}

func (c *tmdbClient) similarTv(ctx context.Context, tvID int64, listPage int) (models.TvPage, error) {
	var page tmdbTvPage
	if err := c.get(ctx, []string{"tv", strconv.FormatInt(tvID, 10), "similar"}, pageQuery(listPage), &page); err != nil {
		return models.TvPage{}, fmt.Errorf("tmdb similar tv: %w", err)
	}
	return page.toModel(), nil
}

type tmdbReleaseDatesResponse struct {
	Results []tmdbReleaseCountry `json:"results"`
}

type tmdbReleaseCountry struct {
	ISO31661     string             `json:"iso_3166_1"`
	ReleaseDates []tmdbReleaseEntry `json:"release_dates"`
}

type tmdbReleaseEntry struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

func usCertification(countries []tmdbReleaseCountry) string {
	for _, country := range countries {
		if strings.TrimSpace(country.ISO31661) != "US" {
			continue
		}
		if len(country.ReleaseDates) == 0 {
			return ""
		}
		return strings.TrimSpace(country.ReleaseDates[0].Certification)
	}
	return ""
}

// MovieCertification returns the US certification of a movie. An empty
// string with a nil error means the upstream was reached and the movie has
// no US certification.
func (c *tmdbClient) MovieCertification(ctx context.Context, movieID int64) (string, error) {
	var payload tmdbReleaseDatesResponse
	err := c.get(ctx, []string{"movie", strconv.FormatInt(movieID, 10), "release_dates"}, nil, &payload)
	if err != nil {
		return "", fmt.Errorf("tmdb movie release dates: %w", err)
	}
	return usCertification(payload.Results), nil
}

type tmdbContentRatingsResponse struct {
	Results []tmdbContentRating `json:"results"`
}

type tmdbContentRating struct {
	ISO31661 string `json:"iso_3166_1"`
	Rating   string `json:"rating"`
}

func usContentRating(entries []tmdbContentRating) string {
	for _, entry := range entries {
		if strings.TrimSpace(entry.ISO31661) == "US" {
			return strings.TrimSpace(entry.Rating)
		}
	}
	return ""
}

// TvContentRating returns the US content rating of a series, empty when the
// series has none.
func (c *tmdbClient) TvContentRating(ctx context.Context, tvID int64) (string, error) {
	var payload tmdbContentRatingsResponse
	err := c.get(ctx, []string{"tv", strconv.FormatInt(tvID, 10), "content_ratings"}, nil, &payload)
	if err != nil {
		return "", fmt.Errorf("tmdb tv content ratings: %w", err)
	}
	return usContentRating(payload.Results), nil
}

type tmdbMovieDetails struct {
	tmdbMovieResult
	Tagline             string         `json:"tagline"`
	Runtime             int            `json:"runtime"`
	Genres              []models.Genre `json:"genres"`
	Status              string         `json:"status"`
	IMDBID              string         `json:"imdb_id"`
	BelongsToCollection *tmdbBelongsTo `json:"belongs_to_collection"`

	ReleaseDates *tmdbReleaseDatesResponse `json:"release_dates"`
}

type tmdbBelongsTo struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PosterPath string `json:"poster_path"`
}

func (c *tmdbClient) movieDetails(ctx context.Context, movieID int64) (models.MovieDetails, error) {
	query := url.Values{}
	query.Set("append_to_response", "release_dates")

	var payload tmdbMovieDetails
	if err := c.get(ctx, []string{"movie", strconv.FormatInt(movieID, 10)}, query, &payload); err != nil {
		return models.MovieDetails{}, fmt.Errorf("tmdb movie details: %w", err)
	}

	details := models.MovieDetails{
		ID:               payload.ID,
		MediaType:        models.MediaTypeMovie,
		Title:            payload.Title,
		OriginalTitle:    payload.OriginalTitle,
		OriginalLanguage: payload.OriginalLanguage,
		Overview:         payload.Overview,
		Tagline:          payload.Tagline,
		ReleaseDate:      payload.ReleaseDate,
		RuntimeMinutes:   payload.Runtime,
		Genres:           payload.Genres,
		PosterPath:       payload.PosterPath,
		BackdropPath:     payload.BackdropPath,
		Popularity:       payload.Popularity,
		VoteAverage:      payload.VoteAverage,
		VoteCount:        payload.VoteCount,
		Adult:            payload.Adult,
		Status:           payload.Status,
		IMDBID:           payload.IMDBID,
	}
	if payload.ReleaseDates != nil {
		details.Certification = usCertification(payload.ReleaseDates.Results)
	}
	if payload.BelongsToCollection != nil {
		details.Collection = &models.CollectionRef{
			ID:         payload.BelongsToCollection.ID,
			Name:       payload.BelongsToCollection.Name,
			PosterPath: payload.BelongsToCollection.PosterPath,
		}
	}
	return details, nil
}

type tmdbTvDetails struct {
	tmdbTvResult
	Tagline          string         `json:"tagline"`
	LastAirDate      string         `json:"last_air_date"`
	NumberOfSeasons  int            `json:"number_of_seasons"`
	NumberOfEpisodes int            `json:"number_of_episodes"`
	Genres           []models.Genre `json:"genres"`
	Status           string         `json:"status"`

	ContentRatings *tmdbContentRatingsResponse `json:"content_ratings"`
}

func (c *tmdbClient) tvDetails(ctx context.Context, tvID int64) (models.TvDetails, error) {
	query := url.Values{}
	query.Set("append_to_response", "content_ratings")

	var payload tmdbTvDetails
	if err := c.get(ctx, []string{"tv", strconv.FormatInt(tvID, 10)}, query, &payload); err != nil {
		return models.TvDetails{}, fmt.Errorf("tmdb tv details: %w", err)
	}

	details := models.TvDetails{
		ID:               payload.ID,
		MediaType:        models.MediaTypeTv,
		Name:             payload.Name,
		OriginalName:     payload.OriginalName,
		OriginalLanguage: payload.OriginalLanguage,
		Overview:         payload.Overview,
		Tagline:          payload.Tagline,
		FirstAirDate:     payload.FirstAirDate,
		LastAirDate:      payload.LastAirDate,
		NumberOfSeasons:  payload.NumberOfSeasons,
		NumberOfEpisodes: payload.NumberOfEpisodes,
		Genres:           payload.Genres,
		OriginCountry:    payload.OriginCountry,
		PosterPath:       payload.PosterPath,
		BackdropPath:     payload.BackdropPath,
		Popularity:       payload.Popularity,
		VoteAverage:      payload.VoteAverage,
		VoteCount:        payload.VoteCount,
		Status:           payload.Status,
	}
	if payload.ContentRatings != nil {
		details.ContentRating = usContentRating(payload.ContentRatings.Results)
	}
	return details, nil
}

type tmdbCollection struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Overview     string            `json:"overview"`
	PosterPath   string            `json:"poster_path"`
	BackdropPath string            `json:"backdrop_path"`
	Parts        []tmdbMovieResult `json:"parts"`
}

func (c *tmdbClient) collection(ctx context.Context, collectionID int64) (models.Collection, error) {
	var payload tmdbCollection
	if err := c.get(ctx, []string{"collection", strconv.FormatInt(collectionID, 10)}, nil, &payload); err != nil {
		return models.Collection{}, fmt.Errorf("tmdb collection: %w", err)
	}

	out := models.Collection{
		ID:           payload.ID,
		Name:         payload.Name,
		Overview:     payload.Overview,
		PosterPath:   payload.PosterPath,
		BackdropPath: payload.BackdropPath,
		Parts:        make([]models.MovieResult, 0, len(payload.Parts)),
	}
	for _, part := range payload.Parts {
		out.Parts = append(out.Parts, part.toModel())
	}
	return out, nil
}

type tmdbPersonDetails struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Biography   string  `json:"biography"`
	Birthday    string  `json:"birthday"`
	Deathday    string  `json:"deathday"`
	ProfilePath string  `json:"profile_path"`
	Popularity  float64 `json:"popularity"`
}

func (c *tmdbClient) personDetails(ctx context.Context, personID int64) (models.PersonDetails, error) {
	var payload tmdbPersonDetails
	if err := c.get(ctx, []string{"person", strconv.FormatInt(personID, 10)}, nil, &payload); err != nil {
		return models.PersonDetails{}, fmt.Errorf("tmdb person details: %w", err)
	}
	return models.PersonDetails{
		ID:          payload.ID,
		MediaType:   models.MediaTypePerson,
		Name:        payload.Name,
		Biography:   payload.Biography,
		Birthday:    payload.Birthday,
		Deathday:    payload.Deathday,
		ProfilePath: payload.ProfilePath,
		Popularity:  payload.Popularity,
	}, nil
}

type tmdbCombinedCredits struct {
	ID   int64             `json:"id"`
	Cast []tmdbMixedResult `json:"cast"`
	Crew []tmdbMixedResult `json:"crew"`
}

func (c *tmdbClient) personCombinedCredits(ctx context.Context, personID int64) (models.PersonCombinedCredits, error) {
	var payload tmdbCombinedCredits
	err := c.get(ctx, []string{"person", strconv.FormatInt(personID, 10), "combined_credits"}, nil, &payload)
	if err != nil {
		return models.PersonCombinedCredits{}, fmt.Errorf("tmdb combined credits: %w", err)
	}

	out := models.PersonCombinedCredits{
		ID:   payload.ID,
		Cast: make([]models.MixedResult, 0, len(payload.Cast)),
		Crew: make([]models.MixedResult, 0, len(payload.Crew)),
	}
	for _, credit := range payload.Cast {
		out.Cast = append(out.Cast, credit.toModel())
	}
	for _, credit := range payload.Crew {
		out.Crew = append(out.Crew, credit.toModel())
	}
	return out, nil
}
