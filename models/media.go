package models

// Discovery and search result structures returned by the metadata service.

type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeTv     MediaType = "tv"
	MediaTypePerson MediaType = "person"
)

type MovieResult struct {
	ID               int64     `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"originalTitle,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	ReleaseDate      string    `json:"releaseDate,omitempty"`
	GenreIDs         []int     `json:"genreIds,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"voteAverage"`
	VoteCount        int       `json:"voteCount"`
	Adult            bool      `json:"adult"`
}

type TvResult struct {
	ID               int64     `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Name             string    `json:"name"`
	OriginalName     string    `json:"originalName,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	FirstAirDate     string    `json:"firstAirDate,omitempty"`
	GenreIDs         []int     `json:"genreIds,omitempty"`
	OriginCountry    []string  `json:"originCountry,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"voteAverage"`
	VoteCount        int       `json:"voteCount"`
}

type PersonResult struct {
	ID          int64     `json:"id"`
	MediaType   MediaType `json:"mediaType"`
	Name        string    `json:"name"`
	ProfilePath string    `json:"profilePath,omitempty"`
	Popularity  float64   `json:"popularity"`
}

// MixedResult is the flattened union used by multi search and combined
// listings. MediaType discriminates which fields are meaningful.
type MixedResult struct {
	ID               int64     `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title,omitempty"`
	Name             string    `json:"name,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	ReleaseDate      string    `json:"releaseDate,omitempty"`
	FirstAirDate     string    `json:"firstAirDate,omitempty"`
	GenreIDs         []int     `json:"genreIds,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	ProfilePath      string    `json:"profilePath,omitempty"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"voteAverage,omitempty"`
	VoteCount        int       `json:"voteCount,omitempty"`
	Adult            bool      `json:"adult,omitempty"`
}

func (m MovieResult) Mixed() MixedResult {
	return MixedResult{
		ID:               m.ID,
		MediaType:        MediaTypeMovie,
		Title:            m.Title,
		OriginalLanguage: m.OriginalLanguage,
		Overview:         m.Overview,
		ReleaseDate:      m.ReleaseDate,
		GenreIDs:         m.GenreIDs,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		Popularity:       m.Popularity,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Adult:            m.Adult,
	}
}

func (t TvResult) Mixed() MixedResult {
	return MixedResult{
		ID:               t.ID,
		MediaType:        MediaTypeTv,
		Name:             t.Name,
		OriginalLanguage: t.OriginalLanguage,
		Overview:         t.Overview,
		FirstAirDate:     t.FirstAirDate,
		GenreIDs:         t.GenreIDs,
		PosterPath:       t.PosterPath,
		BackdropPath:     t.BackdropPath,
		Popularity:       t.Popularity,
		VoteAverage:      t.VoteAverage,
		VoteCount:        t.VoteCount,
	}
}

// Movie reconstructs the movie view of a mixed entry.
func (r MixedResult) Movie() MovieResult {
	return MovieResult{
		ID:               r.ID,
		MediaType:        MediaTypeMovie,
		Title:            r.Title,
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

// Tv reconstructs the series view of a mixed entry.
func (r MixedResult) Tv() TvResult {
	return TvResult{
		ID:               r.ID,
		MediaType:        MediaTypeTv,
		Name:             r.Name,
		OriginalLanguage: r.OriginalLanguage,
		Overview:         r.Overview,
		FirstAirDate:     r.FirstAirDate,
		GenreIDs:         r.GenreIDs,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		Popularity:       r.Popularity,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
	}
}

type MoviePage struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"totalPages"`
	TotalResults int           `json:"totalResults"`
	Results      []MovieResult `json:"results"`
}

type TvPage struct {
	Page         int        `json:"page"`
	TotalPages   int        `json:"totalPages"`
	TotalResults int        `json:"totalResults"`
	Results      []TvResult `json:"results"`
}

type MixedPage struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"totalPages"`
	TotalResults int           `json:"totalResults"`
	Results      []MixedResult `json:"results"`
}

// Empty pages keep the wire shape stable when an upstream listing fails:
// page 1, zero totals, and a non-nil results slice.

func EmptyMoviePage() MoviePage {
	return MoviePage{Page: 1, Results: []MovieResult{}}
}

func EmptyTvPage() TvPage {
	return TvPage{Page: 1, Results: []TvResult{}}
}

func EmptyMixedPage() MixedPage {
	return MixedPage{Page: 1, Results: []MixedResult{}}
}
