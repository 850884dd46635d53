package ratings

import (
	"strconv"
	"strings"
)

// MaxRatingAdult keeps certification checks off while still excluding
// adult-flagged titles. An empty maximum means no restriction at all.
const MaxRatingAdult = "Adult"

// US certification ladders, least to most restricted.
var (
	movieCertOrder = []string{"G", "PG", "PG-13", "R", "NC-17"}
	tvRatingOrder  = []string{"TV-Y", "TV-Y7", "TV-G", "TV-PG", "TV-14", "TV-MA"}
)

// Profiles created before separate TV limits existed stored a movie
// certification for both kinds. Map those onto the closest TV rating.
var legacyTvRating = map[string]string{
	"G":     "TV-G",
	"PG":    "TV-PG",
	"PG-13": "TV-14",
	"R":     "TV-14",
}

// AllowedMovieCertifications returns the certifications a profile with the
// given maximum may see, ordered least to most restricted. A nil result
// means no certification restriction applies: the maximum is unset, is
// MaxRatingAdult, or is not a known US certification.
func AllowedMovieCertifications(max string) []string {
	if max == "" || max == MaxRatingAdult {
		return nil
	}
	for i, cert := range movieCertOrder {
		if cert == max {
			return movieCertOrder[:i+1]
		}
	}
	return nil
}

// AllowedTvRatings is the TV counterpart of AllowedMovieCertifications.
// Legacy movie-certification maximums are accepted and mapped.
func AllowedTvRatings(max string) []string {
	if max == "" || max == MaxRatingAdult {
		return nil
	}
	if mapped, ok := legacyTvRating[max]; ok {
		max = mapped
	}
	for i, rating := range tvRatingOrder {
		if rating == max {
			return tvRatingOrder[:i+1]
		}
	}
	return nil
}

// MovieCertificationParams returns the discover query parameters enforcing
// the movie certification limit, or an empty map when unrestricted.
func MovieCertificationParams(max string) map[string]string {
	allowed := AllowedMovieCertifications(max)
	if len(allowed) == 0 {
		return map[string]string{}
	}
	return map[string]string{
		"certification_country": "US",
		"certification":         strings.Join(allowed, "|"),
	}
}

// TvCertificationParams is the TV counterpart of MovieCertificationParams.
func TvCertificationParams(max string) map[string]string {
	allowed := AllowedTvRatings(max)
	if len(allowed) == 0 {
		return map[string]string{}
	}
	return map[string]string{
		"certification_country": "US",
		"certification":         strings.Join(allowed, "|"),
	}
}

// CuratedQueryParams returns the quality-floor discover parameters.
// Thresholds that are zero or negative are omitted entirely.
func CuratedQueryParams(minVotes int, minRating float64) map[string]string {
	params := map[string]string{}
	if minVotes > 0 {
		params["vote_count.gte"] = strconv.Itoa(minVotes)
	}
	if minRating > 0 {
		params["vote_average.gte"] = strconv.FormatFloat(minRating, 'f', -1, 64)
	}
	return params
}

// ValidMovieMaximum reports whether max is storable as a movie limit:
// unset, MaxRatingAdult, or a known US certification.
func ValidMovieMaximum(max string) bool {
	if max == "" || max == MaxRatingAdult {
		return true
	}
	for _, cert := range movieCertOrder {
		if cert == max {
			return true
		}
	}
	return false
}

// ValidTvMaximum reports whether max is storable as a TV limit. Legacy
// movie certifications remain accepted.
func ValidTvMaximum(max string) bool {
	if max == "" || max == MaxRatingAdult {
		return true
	}
	if _, ok := legacyTvRating[max]; ok {
		return true
	}
	for _, rating := range tvRatingOrder {
		if rating == max {
			return true
		}
	}
	return false
}

// IncludeAdult reports whether adult-flagged titles may appear in results.
// Only a fully unset movie maximum permits them; MaxRatingAdult and every
// concrete certification exclude them.
func IncludeAdult(maxMovieRating string) bool {
	return maxMovieRating == ""
}
