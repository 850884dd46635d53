package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"curatarr/models"
	metadatapkg "curatarr/services/metadata"
)

type metadataService interface {
	DiscoverMovies(context.Context, metadatapkg.DiscoverMovieOptions, models.UserSettings) (models.MoviePage, error)
	DiscoverTv(context.Context, metadatapkg.DiscoverTvOptions, models.UserSettings) (models.TvPage, error)
	UpcomingMovies(context.Context, int, models.UserSettings) (models.MoviePage, error)
	SearchMulti(context.Context, string, int, models.UserSettings) (models.MixedPage, error)
	SearchMovies(context.Context, string, int, models.UserSettings) (models.MoviePage, error)
	SearchTv(context.Context, string, int, models.UserSettings) (models.TvPage, error)
	TrendingMovies(context.Context, int, models.UserSettings) (models.MoviePage, error)
	TrendingTv(context.Context, int, models.UserSettings) (models.TvPage, error)
	TrendingAll(context.Context, int, models.UserSettings) (models.MixedPage, error)
	ByNetwork(context.Context, int64, int, models.UserSettings) (models.MixedPage, error)
	MovieRecommendations(context.Context, int64, int, models.UserSettings) (models.MoviePage, error)
	SimilarMovies(context.Context, int64, int, models.UserSettings) (models.MoviePage, error)
	TvRecommendations(context.Context, int64, int, models.UserSettings) (models.TvPage, error)
	SimilarTv(context.Context, int64, int, models.UserSettings) (models.TvPage, error)
	MovieDetails(context.Context, int64) (models.MovieDetails, error)
	TvDetails(context.Context, int64) (models.TvDetails, error)
	Collection(context.Context, int64, models.UserSettings) (models.Collection, error)
	PersonDetails(context.Context, int64) (models.PersonDetails, error)
	PersonCombinedCredits(context.Context, int64, models.UserSettings) (models.PersonCombinedCredits, error)
}

var _ metadataService = (*metadatapkg.Service)(nil)

// userSettingsProvider retrieves per-profile settings.
type userSettingsProvider interface {
	Get(userID string) (models.UserSettings, error)
}

type MetadataHandler struct {
	Service      metadataService
	UserSettings userSettingsProvider
}

func NewMetadataHandler(s metadataService) *MetadataHandler {
	return &MetadataHandler{Service: s}
}

// SetUserSettingsProvider sets the provider used to look up the requesting
// profile's limits.
func (h *MetadataHandler) SetUserSettingsProvider(provider userSettingsProvider) {
	h.UserSettings = provider
}

// settingsFor resolves the requesting profile's settings from the userId
// query parameter, falling back to the defaults when absent or unknown.
func (h *MetadataHandler) settingsFor(r *http.Request) models.UserSettings {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" || h.UserSettings == nil {
		return models.DefaultUserSettings()
	}
	settings, err := h.UserSettings.Get(userID)
	if err != nil {
		return models.DefaultUserSettings()
	}
	return settings
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func pageParam(r *http.Request) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 1
}

func idVar(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(mux.Vars(r)[name])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func intParam(r *http.Request, name string) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 0
}

func floatParam(r *http.Request, name string) float64 {
	if raw := r.URL.Query().Get(name); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 0
}

func (h *MetadataHandler) DiscoverMovies(w http.ResponseWriter, r *http.Request) {
	settings := h.settingsFor(r)
	q := r.URL.Query()

	opts := metadatapkg.DiscoverMovieOptions{
		Page:                  pageParam(r),
		SortBy:                q.Get("sortBy"),
		Language:              q.Get("language"),
		PrimaryReleaseDateGte: q.Get("primaryReleaseDateGte"),
		PrimaryReleaseDateLte: q.Get("primaryReleaseDateLte"),
		WithRuntimeGte:        intParam(r, "withRuntimeGte"),
		WithRuntimeLte:        intParam(r, "withRuntimeLte"),
		VoteAverageGte:        floatParam(r, "voteAverageGte"),
		VoteAverageLte:        floatParam(r, "voteAverageLte"),
		VoteCountGte:          intParam(r, "voteCountGte"),
		VoteCountLte:          intParam(r, "voteCountLte"),
		OriginalLanguage:      q.Get("originalLanguage"),
		Genre:                 q.Get("genre"),
		Studio:                q.Get("studio"),
		Keywords:              q.Get("keywords"),
		WatchRegion:           q.Get("watchRegion"),
		WatchProviders:        q.Get("watchProviders"),
		SkipCuratedFilters:    settings.SortingMode == "standard",
	}

	page, err := h.Service.DiscoverMovies(r.Context(), opts, settings)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, page)
}

func (h *MetadataHandler) DiscoverTv(w http.ResponseWriter, r *http.Request) {
	settings := h.settingsFor(r)
	q := r.URL.Query()

	opts := metadatapkg.DiscoverTvOptions{
		Page:               pageParam(r),
		SortBy:             q.Get("sortBy"),
		Language:           q.Get("language"),
		FirstAirDateGte:    q.Get("firstAirDateGte"),
		FirstAirDateLte:    q.Get("firstAirDateLte"),
		WithRuntimeGte:     intParam(r, "withRuntimeGte"),
		WithRuntimeLte:     intParam(r, "withRuntimeLte"),
		VoteAverageGte:     floatParam(r, "voteAverageGte"),
		VoteAverageLte:     floatParam(r, "voteAverageLte"),
		VoteCountGte:       intParam(r, "voteCountGte"),
		VoteCountLte:       intParam(r, "voteCountLte"),
		OriginalLanguage:   q.Get("originalLanguage"),
		Genre:              q.Get("genre"),
		Network:            q.Get("network"),
		Keywords:           q.Get("keywords"),
		WatchRegion:        q.Get("watchRegion"),
		WatchProviders:     q.Get("watchProviders"),
		SkipCuratedFilters: settings.SortingMode == "standard",
	}

	page, err := h.Service.DiscoverTv(r.Context(), opts, settings)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, page)
}

func (h *MetadataHandler) UpcomingMovies(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.UpcomingMovies(r.Context(), pageParam(r), h.settingsFor(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, page)
}

// Search dispatches on the type parameter: multi (default), movie, or tv.
func (h *MetadataHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("query"))
	if term == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}
	settings := h.settingsFor(r)
	listPage := pageParam(r)

	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))) {
	case "movie":
		page, err := h.Service.SearchMovies(r.Context(), term, listPage, settings)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, page)
	case "tv":
		page, err := h.Service.SearchTv(r.Context(), term, listPage, settings)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, page)
	default:
		page, err := h.Service.SearchMulti(r.Context(), term, listPage, settings)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, page)
	}
}

// Trending dispatches on the type parameter: all (default), movie, or tv.
func (h *MetadataHandler) Trending(w http.ResponseWriter, r *http.Request) {
	settings := h.settingsFor(r)
	listPage := pageParam(r)

	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))) {
	case "movie":
		page, err := h.Service.TrendingMovies(r.Context(), listPage, settings)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, page)
	case "tv":
		page, err := h.Service.TrendingTv(r.Context(), listPage, settings)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, page)
	default:
		page, err := h.Service.TrendingAll(r.Context(), listPage, settings)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, page)
	}
}

func (h *MetadataHandler) Network(w http.ResponseWriter, r *http.Request) {
	networkID, ok := idVar(r, "networkID")
	if !ok {
		http.Error(w, "invalid network id", http.StatusBadRequest)
		return
	}

	page, err := h.Service.ByNetwork(r.Context(), networkID, pageParam(r), h.settingsFor(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, page)
}

func (h *MetadataHandler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	movieID, ok := idVar(r, "movieID")
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	details, err := h.Service.MovieDetails(r.Context(), movieID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, details)
}

func (h *MetadataHandler) MovieRecommendations(w http.ResponseWriter, r *http.Request) {
	movieID, ok := idVar(r, "movieID")
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	page, err := h.Service.MovieRecommendations(r.Context(), movieID, pageParam(r), h.settingsFor(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, page)
}

func (h *MetadataHandler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	movieID, ok := idVar(r, "movieID")
	if !ok {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	page, err := h.Service.SimilarMovies(r.Context(), movieID, pageParam(r), h.settingsFor(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, page)
}

func (h *MetadataHandler) TvDetails(w http.ResponseWriter, r *http.Request) {
	tvID, ok := idVar(r, "tvID")
	if !ok {
		http.Error(w, "invalid tv id", http.StatusBadRequest)
		return
	}

	details, err := h.Service.TvDetails(r.Context(), tvID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, details)
}

func (h *MetadataHandler) TvRecommendations(w http.ResponseWriter, r *http.Request) {
	tvID, ok := idVar(r, "tvID")
	if !ok {
		http.Error(w, "invalid tv id", http.StatusBadRequest)
		return
	}

	page, err := h.Service.TvRecommendations(r.Context(), tvID, pageParam(r), h.settingsFor(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, page)
}

func (h *MetadataHandler) SimilarTv(w http.ResponseWriter, r *http.Request) {
	tvID, ok := idVar(r, "tvID")
	if !ok {
		http.Error(w, "invalid tv id", http.StatusBadRequest)
		return
	}

	page, err := h.Service.SimilarTv(r.Context(), tvID, pageParam(r), h.settingsFor(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, page)
}

func (h *MetadataHandler) Collection(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := idVar(r, "collectionID")
	if !ok {
		http.Error(w, "invalid collection id", http.StatusBadRequest)
		return
	}

	col, err := h.Service.Collection(r.Context(), collectionID, h.settingsFor(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, col)
}

func (h *MetadataHandler) PersonDetails(w http.ResponseWriter, r *http.Request) {
	personID, ok := idVar(r, "personID")
	if !ok {
		http.Error(w, "invalid person id", http.StatusBadRequest)
		return
	}

	details, err := h.Service.PersonDetails(r.Context(), personID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, details)
}

func (h *MetadataHandler) PersonCombinedCredits(w http.ResponseWriter, r *http.Request) {
	personID, ok := idVar(r, "personID")
	if !ok {
		http.Error(w, "invalid person id", http.StatusBadRequest)
		return
	}

	credits, err := h.Service.PersonCombinedCredits(r.Context(), personID, h.settingsFor(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, credits)
}
