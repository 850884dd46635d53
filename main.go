package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"curatarr/api"
	"curatarr/config"
	"curatarr/handlers"
	"curatarr/services/metadata"
	"curatarr/services/ratings"
	user_settings "curatarr/services/user_settings"
	"curatarr/services/users"

	"github.com/gorilla/mux"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("curatarr backend starting...")

	// Determine config path (env or default)
	configPath := os.Getenv("CURATARR_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("data", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			// Redirect standard log to both console and file
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	if settings.TMDB.APIKey == "" {
		log.Printf("[main] TMDB API key not configured, discovery endpoints will return errors until it is set in %s", configPath)
	}

	// Shared certification cache feeding the rating filter
	certCache := ratings.NewCertificationCache(time.Duration(settings.Cache.CertificationTTLHours) * time.Hour)

	metadataSvc := metadata.NewService(settings.TMDB.APIKey, settings.TMDB.Language, certCache, nil)

	usersSvc, err := users.NewService(settings.Storage.DataDir)
	if err != nil {
		log.Fatalf("failed to init users service: %v", err)
	}

	userSettingsSvc, err := user_settings.NewService(settings.Storage.DataDir)
	if err != nil {
		log.Fatalf("failed to init user settings service: %v", err)
	}

	metadataHandler := handlers.NewMetadataHandler(metadataSvc)
	metadataHandler.SetUserSettingsProvider(userSettingsSvc)
	usersHandler := handlers.NewUsersHandler(usersSvc)
	userSettingsHandler := handlers.NewUserSettingsHandler(userSettingsSvc, usersSvc)

	r := mux.NewRouter()
	api.Register(r, metadataHandler, usersHandler, userSettingsHandler)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
