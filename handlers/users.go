package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"curatarr/models"
	"curatarr/services/users"
)

type usersService interface {
	List() []models.User
	Create(name string) (models.User, error)
	Rename(id, name string) (models.User, error)
	SetColor(id, color string) (models.User, error)
	SetKidsProfile(id string, isKids bool) (models.User, error)
	Delete(id string) error
	Exists(id string) bool
}

var _ usersService = (*users.Service)(nil)

type UsersHandler struct {
	Service usersService
}

func NewUsersHandler(service usersService) *UsersHandler {
	return &UsersHandler{Service: service}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.List())
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Service.Create(body.Name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, users.ErrNameRequired) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["userID"])
	if id == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	var body struct {
		Name          *string `json:"name"`
		Color         *string `json:"color"`
		IsKidsProfile *bool   `json:"isKidsProfile"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		user models.User
		err  error
	)
	if body.Name != nil {
		if user, err = h.Service.Rename(id, *body.Name); err != nil {
			writeUsersError(w, err)
			return
		}
	}
	if body.Color != nil {
		if user, err = h.Service.SetColor(id, *body.Color); err != nil {
			writeUsersError(w, err)
			return
		}
	}
	if body.IsKidsProfile != nil {
		if user, err = h.Service.SetKidsProfile(id, *body.IsKidsProfile); err != nil {
			writeUsersError(w, err)
			return
		}
	}

	writeJSON(w, user)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["userID"])
	if id == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	if err := h.Service.Delete(id); err != nil {
		writeUsersError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeUsersError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, users.ErrNameRequired):
		status = http.StatusBadRequest
	case errors.Is(err, users.ErrUserNotFound):
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
