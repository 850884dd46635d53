package api

import (
	"net/http"
	"net/http/pprof"

	"curatarr/handlers"

	"github.com/gorilla/mux"
)

// localhostOnlyMiddleware restricts access to localhost requests only
func localhostOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		// Strip port if present
		for i := len(host) - 1; i >= 0; i-- {
			if host[i] == ':' {
				host = host[:i]
				break
			}
		}
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			http.Error(w, "Debug endpoints only accessible from localhost", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	metadataHandler *handlers.MetadataHandler,
	usersHandler *handlers.UsersHandler,
	userSettingsHandler *handlers.UserSettingsHandler,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Discovery listings
	api.HandleFunc("/discover/movies", metadataHandler.DiscoverMovies).Methods(http.MethodGet)
	api.HandleFunc("/discover/movies", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/discover/movies/upcoming", metadataHandler.UpcomingMovies).Methods(http.MethodGet)
	api.HandleFunc("/discover/movies/upcoming", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/discover/tv", metadataHandler.DiscoverTv).Methods(http.MethodGet)
	api.HandleFunc("/discover/tv", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/trending", metadataHandler.Trending).Methods(http.MethodGet)
	api.HandleFunc("/trending", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/search", metadataHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/search", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/network/{networkID}", metadataHandler.Network).Methods(http.MethodGet)
	api.HandleFunc("/network/{networkID}", handleOptions).Methods(http.MethodOptions)

	// Titles
	api.HandleFunc("/movie/{movieID}", metadataHandler.MovieDetails).Methods(http.MethodGet)
	api.HandleFunc("/movie/{movieID}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/movie/{movieID}/recommendations", metadataHandler.MovieRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/movie/{movieID}/recommendations", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/movie/{movieID}/similar", metadataHandler.SimilarMovies).Methods(http.MethodGet)
	api.HandleFunc("/movie/{movieID}/similar", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/tv/{tvID}", metadataHandler.TvDetails).Methods(http.MethodGet)
	api.HandleFunc("/tv/{tvID}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/tv/{tvID}/recommendations", metadataHandler.TvRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/tv/{tvID}/recommendations", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/tv/{tvID}/similar", metadataHandler.SimilarTv).Methods(http.MethodGet)
	api.HandleFunc("/tv/{tvID}/similar", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/collection/{collectionID}", metadataHandler.Collection).Methods(http.MethodGet)
	api.HandleFunc("/collection/{collectionID}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/person/{personID}", metadataHandler.PersonDetails).Methods(http.MethodGet)
	api.HandleFunc("/person/{personID}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/person/{personID}/combined_credits", metadataHandler.PersonCombinedCredits).Methods(http.MethodGet)
	api.HandleFunc("/person/{personID}/combined_credits", handleOptions).Methods(http.MethodOptions)

	// Profiles and per-profile settings
	api.HandleFunc("/users", usersHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/users", usersHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/users", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/users/{userID}", usersHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/users/{userID}", usersHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/users/{userID}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/users/{userID}/settings", userSettingsHandler.GetSettings).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/settings", userSettingsHandler.PutSettings).Methods(http.MethodPut)
	api.HandleFunc("/users/{userID}/settings", userSettingsHandler.DeleteSettings).Methods(http.MethodDelete)
	api.HandleFunc("/users/{userID}/settings", handleOptions).Methods(http.MethodOptions)

	// Pprof debug endpoints for profiling (localhost only)
	pprofRouter := api.PathPrefix("/debug/pprof").Subrouter()
	pprofRouter.Use(localhostOnlyMiddleware)
	pprofRouter.HandleFunc("/", pprof.Index)
	pprofRouter.HandleFunc("/cmdline", pprof.Cmdline)
	pprofRouter.HandleFunc("/profile", pprof.Profile)
	pprofRouter.HandleFunc("/symbol", pprof.Symbol)
	pprofRouter.HandleFunc("/trace", pprof.Trace)
	pprofRouter.HandleFunc("/allocs", pprof.Handler("allocs").ServeHTTP)
	pprofRouter.HandleFunc("/goroutine", pprof.Handler("goroutine").ServeHTTP)
	pprofRouter.HandleFunc("/heap", pprof.Handler("heap").ServeHTTP)
}
