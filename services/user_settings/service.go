package user_settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"curatarr/models"
	"curatarr/services/ratings"
)

var (
	ErrStorageDirRequired = errors.New("storage directory not provided")
	ErrUserIDRequired     = errors.New("user id is required")
	ErrInvalidMovieMax    = errors.New("invalid maximum movie rating")
	ErrInvalidTvMax       = errors.New("invalid maximum tv rating")
	ErrInvalidCuration    = errors.New("curation thresholds cannot be negative")
)

// Service manages persistence and retrieval of per-profile content
// preferences.
type Service struct {
	mu       sync.RWMutex
	path     string
	settings map[string]models.UserSettings
}

// NewService creates a settings service storing data inside the provided
// directory.
func NewService(storageDir string) (*Service, error) {
	if strings.TrimSpace(storageDir) == "" {
		return nil, ErrStorageDirRequired
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create user settings dir: %w", err)
	}

	svc := &Service{
		path:     filepath.Join(storageDir, "user_settings.json"),
		settings: make(map[string]models.UserSettings),
	}

	if err := svc.load(); err != nil {
		return nil, err
	}

	return svc, nil
}

// Get returns the profile's settings, falling back to the defaults when
// nothing is stored yet.
func (s *Service) Get(userID string) (models.UserSettings, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.UserSettings{}, ErrUserIDRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if settings, ok := s.settings[userID]; ok {
		return settings, nil
	}
	return models.DefaultUserSettings(), nil
}

// HasOverrides returns true if the profile has custom settings stored.
func (s *Service) HasOverrides(userID string) bool {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.settings[userID]
	return exists
}

// Update validates and saves the profile's settings.
func (s *Service) Update(userID string, settings models.UserSettings) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if err := validate(settings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[userID] = settings

	return s.saveLocked()
}

// Delete removes a profile's settings so it falls back to defaults.
func (s *Service) Delete(userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.settings[userID]; !exists {
		return nil
	}

	delete(s.settings, userID)

	return s.saveLocked()
}

func validate(settings models.UserSettings) error {
	if !ratings.ValidMovieMaximum(settings.MaxMovieRating) {
		return fmt.Errorf("%w: %q", ErrInvalidMovieMax, settings.MaxMovieRating)
	}
	if !ratings.ValidTvMaximum(settings.MaxTvRating) {
		return fmt.Errorf("%w: %q", ErrInvalidTvMax, settings.MaxTvRating)
	}
	if settings.CuratedMinVotes < 0 || settings.CuratedMinRating < 0 {
		return ErrInvalidCuration
	}
	return nil
}

func (s *Service) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.settings = make(map[string]models.UserSettings)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open user settings: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read user settings: %w", err)
	}
	if len(data) == 0 {
		s.settings = make(map[string]models.UserSettings)
		return nil
	}

	var settings map[string]models.UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("decode user settings: %w", err)
	}

	s.settings = settings
	return nil
}

func (s *Service) saveLocked() error {
	tmp := s.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create user settings temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.settings); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode user settings: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync user settings: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close user settings temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace user settings file: %w", err)
	}

	return nil
}
