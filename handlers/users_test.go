package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"curatarr/handlers"
	"curatarr/models"
	"curatarr/services/users"
	user_settings "curatarr/services/user_settings"
)

type fakeUsersService struct {
	users    []models.User
	created  string
	renamed  string
	deleted  string
	existing map[string]bool
}

func (f *fakeUsersService) List() []models.User { return f.users }

func (f *fakeUsersService) Create(name string) (models.User, error) {
	if strings.TrimSpace(name) == "" {
		return models.User{}, users.ErrNameRequired
	}
	f.created = name
	return models.User{ID: "u1", Name: name}, nil
}

func (f *fakeUsersService) Rename(id, name string) (models.User, error) {
	if !f.existing[id] {
		return models.User{}, users.ErrUserNotFound
	}
	f.renamed = name
	return models.User{ID: id, Name: name}, nil
}

func (f *fakeUsersService) SetColor(id, color string) (models.User, error) {
	if !f.existing[id] {
		return models.User{}, users.ErrUserNotFound
	}
	return models.User{ID: id, Color: color}, nil
}

func (f *fakeUsersService) SetKidsProfile(id string, isKids bool) (models.User, error) {
	if !f.existing[id] {
		return models.User{}, users.ErrUserNotFound
	}
	return models.User{ID: id, IsKidsProfile: isKids}, nil
}

func (f *fakeUsersService) Delete(id string) error {
	if !f.existing[id] {
		return users.ErrUserNotFound
	}
	f.deleted = id
	return nil
}

func (f *fakeUsersService) Exists(id string) bool { return f.existing[id] }

func TestUsersHandler_CreateRequiresName(t *testing.T) {
	handler := handlers.NewUsersHandler(&fakeUsersService{})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":""}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUsersHandler_Create(t *testing.T) {
	svc := &fakeUsersService{}
	handler := handlers.NewUsersHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Kids"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.created != "Kids" {
		t.Fatalf("expected create Kids, got %q", svc.created)
	}
}

func TestUsersHandler_UpdateUnknownUser(t *testing.T) {
	handler := handlers.NewUsersHandler(&fakeUsersService{existing: map[string]bool{}})

	req := httptest.NewRequest(http.MethodPut, "/users/ghost", strings.NewReader(`{"name":"X"}`))
	req = mux.SetURLVars(req, map[string]string{"userID": "ghost"})
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUsersHandler_Delete(t *testing.T) {
	svc := &fakeUsersService{existing: map[string]bool{"u2": true}}
	handler := handlers.NewUsersHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/users/u2", nil)
	req = mux.SetURLVars(req, map[string]string{"userID": "u2"})
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.deleted != "u2" {
		t.Fatalf("expected delete u2, got %q", svc.deleted)
	}
}

type fakeUserSettingsService struct {
	settings map[string]models.UserSettings
	updated  map[string]models.UserSettings
	err      error
}

func (f *fakeUserSettingsService) Get(userID string) (models.UserSettings, error) {
	if s, ok := f.settings[userID]; ok {
		return s, nil
	}
	return models.DefaultUserSettings(), nil
}

func (f *fakeUserSettingsService) Update(userID string, settings models.UserSettings) error {
	if f.err != nil {
		return f.err
	}
	if f.updated == nil {
		f.updated = map[string]models.UserSettings{}
	}
	f.updated[userID] = settings
	return nil
}

func (f *fakeUserSettingsService) Delete(userID string) error { return f.err }

func TestUserSettingsHandler_GetUnknownUser(t *testing.T) {
	handler := handlers.NewUserSettingsHandler(&fakeUserSettingsService{}, &fakeUsersService{existing: map[string]bool{}})

	req := httptest.NewRequest(http.MethodGet, "/users/ghost/settings", nil)
	req = mux.SetURLVars(req, map[string]string{"userID": "ghost"})
	rec := httptest.NewRecorder()
	handler.GetSettings(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserSettingsHandler_PutSettings(t *testing.T) {
	svc := &fakeUserSettingsService{}
	handler := handlers.NewUserSettingsHandler(svc, &fakeUsersService{existing: map[string]bool{"kid": true}})

	body := `{"maxMovieRating":"PG","maxTvRating":"TV-PG"}`
	req := httptest.NewRequest(http.MethodPut, "/users/kid/settings", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"userID": "kid"})
	rec := httptest.NewRecorder()
	handler.PutSettings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.updated["kid"].MaxMovieRating != "PG" {
		t.Fatalf("expected PG, got %q", svc.updated["kid"].MaxMovieRating)
	}
}

func TestUserSettingsHandler_PutRejectsInvalidRating(t *testing.T) {
	svc := &fakeUserSettingsService{err: user_settings.ErrInvalidMovieMax}
	handler := handlers.NewUserSettingsHandler(svc, &fakeUsersService{existing: map[string]bool{"kid": true}})

	req := httptest.NewRequest(http.MethodPut, "/users/kid/settings", strings.NewReader(`{"maxMovieRating":"X"}`))
	req = mux.SetURLVars(req, map[string]string{"userID": "kid"})
	rec := httptest.NewRecorder()
	handler.PutSettings(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
