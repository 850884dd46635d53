package models

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type MovieDetails struct {
	ID               int64     `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"originalTitle,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	Tagline          string    `json:"tagline,omitempty"`
	ReleaseDate      string    `json:"releaseDate,omitempty"`
	RuntimeMinutes   int       `json:"runtimeMinutes,omitempty"`
	Genres           []Genre   `json:"genres,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"voteAverage"`
	VoteCount        int       `json:"voteCount"`
	Adult            bool      `json:"adult"`
	Status           string    `json:"status,omitempty"`
	IMDBID           string    `json:"imdbId,omitempty"`
	Certification    string    `json:"certification,omitempty"`

	Collection *CollectionRef `json:"collection,omitempty"`
}

// CollectionRef is the lightweight collection pointer embedded in movie
// details.
type CollectionRef struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PosterPath string `json:"posterPath,omitempty"`
}

type TvDetails struct {
	ID               int64     `json:"id"`
	MediaType        MediaType `json:"mediaType"`
	Name             string    `json:"name"`
	OriginalName     string    `json:"originalName,omitempty"`
	OriginalLanguage string    `json:"originalLanguage,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	Tagline          string    `json:"tagline,omitempty"`
	FirstAirDate     string    `json:"firstAirDate,omitempty"`
	LastAirDate      string    `json:"lastAirDate,omitempty"`
	NumberOfSeasons  int       `json:"numberOfSeasons,omitempty"`
	NumberOfEpisodes int       `json:"numberOfEpisodes,omitempty"`
	Genres           []Genre   `json:"genres,omitempty"`
	OriginCountry    []string  `json:"originCountry,omitempty"`
	PosterPath       string    `json:"posterPath,omitempty"`
	BackdropPath     string    `json:"backdropPath,omitempty"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"voteAverage"`
	VoteCount        int       `json:"voteCount"`
	Status           string    `json:"status,omitempty"`
	ContentRating    string    `json:"contentRating,omitempty"`
}

type Collection struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Overview     string        `json:"overview,omitempty"`
	PosterPath   string        `json:"posterPath,omitempty"`
	BackdropPath string        `json:"backdropPath,omitempty"`
	Parts        []MovieResult `json:"parts"`
}

type PersonDetails struct {
	ID          int64     `json:"id"`
	MediaType   MediaType `json:"mediaType"`
	Name        string    `json:"name"`
	Biography   string    `json:"biography,omitempty"`
	Birthday    string    `json:"birthday,omitempty"`
	Deathday    string    `json:"deathday,omitempty"`
	ProfilePath string    `json:"profilePath,omitempty"`
	Popularity  float64   `json:"popularity"`
}

// PersonCombinedCredits lists a person's movie and series credits as mixed
// entries discriminated by MediaType.
type PersonCombinedCredits struct {
	ID   int64         `json:"id"`
	Cast []MixedResult `json:"cast"`
	Crew []MixedResult `json:"crew"`
}
