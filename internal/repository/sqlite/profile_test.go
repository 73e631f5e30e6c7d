package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
)

func createTestProfile(t *testing.T, db *DB, userID, handle string) *model.Profile {
	t.Helper()
	p := &model.Profile{
		UserID: userID,
		Handle: handle,
		Status: "Developer",
		Skills: []string{"go", "sql"},
		Social: map[string]string{"twitter": "https://twitter.com/" + handle},
	}
	if err := db.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

func TestCreateProfile_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	created := createTestProfile(t, db, "user-1", "jane")

	found, err := db.GetProfileByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfileByUser() error = %v", err)
	}

	if found.ID != created.ID || found.Handle != "jane" || found.UserID != "user-1" {
		t.Errorf("GetProfileByUser() = %+v", found)
	}
	if len(found.Skills) != 2 || found.Skills[0] != "go" {
		t.Errorf("Skills = %v, want [go sql]", found.Skills)
	}
	if found.Social["twitter"] != "https://twitter.com/jane" {
		t.Errorf("Social = %v", found.Social)
	}
	if found.Experience == nil || found.Education == nil {
		t.Error("embedded lists should decode as empty, not nil")
	}
}

func TestCreateProfile_DuplicateHandle(t *testing.T) {
	db := newTestDB(t)
	createTestProfile(t, db, "user-1", "jane")

	err := db.CreateProfile(context.Background(), &model.Profile{UserID: "user-2", Handle: "jane"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateProfile() error = %v, want ErrConflict", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "handle" {
		t.Errorf("Field = %q, want handle", appErr.Field)
	}
}

func TestCreateProfile_OnePerUser(t *testing.T) {
	db := newTestDB(t)
	createTestProfile(t, db, "user-1", "jane")

	err := db.CreateProfile(context.Background(), &model.Profile{UserID: "user-1", Handle: "jane2"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateProfile() error = %v, want ErrConflict", err)
	}
}

func TestGetProfileByHandle(t *testing.T) {
	db := newTestDB(t)
	createTestProfile(t, db, "user-1", "jane")

	found, err := db.GetProfileByHandle(context.Background(), "jane")
	if err != nil {
		t.Fatalf("GetProfileByHandle() error = %v", err)
	}
	if found.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", found.UserID)
	}

	_, err = db.GetProfileByHandle(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetProfileByHandle(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListProfiles(t *testing.T) {
	db := newTestDB(t)

	profiles, err := db.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Errorf("ListProfiles() on empty db = %v, want empty non-nil slice", profiles)
	}

	createTestProfile(t, db, "user-1", "jane")
	createTestProfile(t, db, "user-2", "john")

	profiles, err = db.ListProfiles(context.Background())
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("len(ListProfiles()) = %d, want 2", len(profiles))
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	p := createTestProfile(t, db, "user-1", "jane")

	p.Handle = "jane-doe"
	p.Experience = []model.Experience{{ID: "exp-1", Title: "Dev", Company: "Acme", From: "2020-01-01"}}
	if err := db.UpdateProfile(context.Background(), p); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	found, err := db.GetProfileByHandle(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("GetProfileByHandle() after update error = %v", err)
	}
	if len(found.Experience) != 1 || found.Experience[0].ID != "exp-1" {
		t.Errorf("Experience = %+v", found.Experience)
	}

	missing := &model.Profile{ID: "nope", Handle: "ghost"}
	if err := db.UpdateProfile(context.Background(), missing); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateProfile(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfile_HandleTaken(t *testing.T) {
	db := newTestDB(t)
	createTestProfile(t, db, "user-1", "jane")
	p := createTestProfile(t, db, "user-2", "john")

	p.Handle = "jane"
	if err := db.UpdateProfile(context.Background(), p); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("UpdateProfile() error = %v, want ErrConflict", err)
	}
}

func TestDeleteProfileByUser(t *testing.T) {
	db := newTestDB(t)
	createTestProfile(t, db, "user-1", "jane")

	if err := db.DeleteProfileByUser(context.Background(), "user-1"); err != nil {
		t.Fatalf("DeleteProfileByUser() error = %v", err)
	}
	if _, err := db.GetProfileByUser(context.Background(), "user-1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetProfileByUser() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := db.DeleteProfileByUser(context.Background(), "user-1"); err != nil {
		t.Errorf("DeleteProfileByUser() on missing profile error = %v", err)
	}
}
