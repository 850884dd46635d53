package user_settings

import (
	"errors"
	"testing"

	"curatarr/models"
)

func TestGetFallsBackToDefaults(t *testing.T) {
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	settings, err := svc.Get("alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.MaxMovieRating != "Adult" || settings.MaxTvRating != "Adult" {
		t.Fatalf("expected defaults, got %+v", settings)
	}
	if svc.HasOverrides("alice") {
		t.Fatal("defaults are not overrides")
	}
}

func TestUpdatePersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	want := models.UserSettings{
		MaxMovieRating:   "PG-13",
		MaxTvRating:      "TV-14",
		CuratedMinVotes:  3000,
		CuratedMinRating: 7.5,
	}
	if err := svc.Update("alice", want); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := NewService(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := reloaded.Get("alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestUpdateRejectsUnknownRatings(t *testing.T) {
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.Update("alice", models.UserSettings{MaxMovieRating: "X"})
	if !errors.Is(err, ErrInvalidMovieMax) {
		t.Fatalf("got %v, want ErrInvalidMovieMax", err)
	}

	err = svc.Update("alice", models.UserSettings{MaxTvRating: "MA15+"})
	if !errors.Is(err, ErrInvalidTvMax) {
		t.Fatalf("got %v, want ErrInvalidTvMax", err)
	}

	// Legacy movie values stay valid as TV limits.
	if err := svc.Update("alice", models.UserSettings{MaxTvRating: "PG-13"}); err != nil {
		t.Fatalf("legacy tv maximum rejected: %v", err)
	}

	err = svc.Update("alice", models.UserSettings{CuratedMinVotes: -1})
	if !errors.Is(err, ErrInvalidCuration) {
		t.Fatalf("got %v, want ErrInvalidCuration", err)
	}
}

func TestDeleteRestoresDefaults(t *testing.T) {
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Update("bob", models.UserSettings{MaxMovieRating: "G"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Delete("bob"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	settings, err := svc.Get("bob")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings != models.DefaultUserSettings() {
		t.Fatalf("expected defaults after delete, got %+v", settings)
	}
}

func TestEmptyUserID(t *testing.T) {
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.Get("  "); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("got %v, want ErrUserIDRequired", err)
	}
	if err := svc.Update("", models.UserSettings{}); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("got %v, want ErrUserIDRequired", err)
	}
}
