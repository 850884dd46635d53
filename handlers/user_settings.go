package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"curatarr/models"
	user_settings "curatarr/services/user_settings"
)

type userSettingsService interface {
	Get(userID string) (models.UserSettings, error)
	Update(userID string, settings models.UserSettings) error
	Delete(userID string) error
}

var _ userSettingsService = (*user_settings.Service)(nil)

type UserSettingsHandler struct {
	Service userSettingsService
	Users   usersService
}

func NewUserSettingsHandler(service userSettingsService, users usersService) *UserSettingsHandler {
	return &UserSettingsHandler{Service: service, Users: users}
}

// GetSettings returns the profile's settings, defaults included.
func (h *UserSettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	settings, err := h.Service.Get(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, settings)
}

// PutSettings updates the profile's settings.
func (h *UserSettingsHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var settings models.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.Update(userID, settings); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, user_settings.ErrInvalidMovieMax),
			errors.Is(err, user_settings.ErrInvalidTvMax),
			errors.Is(err, user_settings.ErrInvalidCuration):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, settings)
}

// DeleteSettings resets the profile back to defaults.
func (h *UserSettingsHandler) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(userID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserSettingsHandler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(mux.Vars(r)["userID"])

	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return "", false
	}

	if h.Users != nil && !h.Users.Exists(userID) {
		http.Error(w, "user not found", http.StatusNotFound)
		return "", false
	}

	return userID, true
}
