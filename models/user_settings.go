package models

// UserSettings contains per-profile content preferences.
// These override global defaults when set.
//
// MaxMovieRating and MaxTvRating name the most permissive certification the
// profile may see ("PG-13", "TV-14", ...). The special value "Adult" keeps
// certification checks off while still excluding adult-flagged titles, and
// an empty string removes the restriction entirely.
type UserSettings struct {
	MaxMovieRating   string  `json:"maxMovieRating"`
	MaxTvRating      string  `json:"maxTvRating"`
	CuratedMinVotes  int     `json:"curatedMinVotes"`            // minimum vote count for curated discovery, 0 = off
	CuratedMinRating float64 `json:"curatedMinRating"`           // minimum vote average for curated discovery, 0 = off
	SortingMode      string  `json:"sortingMode,omitempty"`      // "curated" (default) or "standard"
	Region           string  `json:"region,omitempty"`           // watch region override for provider listings
	OriginalLanguage string  `json:"originalLanguage,omitempty"` // discovery language filter
}

// DefaultUserSettings returns the default settings for a new profile.
// "Adult" is the historical default: everything visible except
// adult-flagged titles.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		MaxMovieRating: "Adult",
		MaxTvRating:    "Adult",
	}
}

// Unrestricted reports whether neither certification limit is set.
func (s UserSettings) Unrestricted() bool {
	return s.MaxMovieRating == "" && s.MaxTvRating == ""
}
