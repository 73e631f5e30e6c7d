package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
	"github.com/sakif/devconnector/internal/repository/sqlite"
	"github.com/sakif/devconnector/internal/validation"
)

func newTestProfileService(t *testing.T) (*ProfileService, *sqlite.DB) {
	t.Helper()
	store := newTestStore(t)
	return NewProfileService(store, store, testLogger()), store
}

func TestProfileUpsert_CreateSplitsSkillsAndAttachesAuthor(t *testing.T) {
	svc, store := newTestProfileService(t)
	ctx := context.Background()
	jane := seedUser(t, store, "Jane Doe", "jane@example.com")

	p, err := svc.Upsert(ctx, jane.ID, validation.ProfileInput{
		Handle:  "jane",
		Status:  "Developer",
		Skills:  "a,b,c",
		Twitter: "twitter.com/jane",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, p.Skills)
	assert.Equal(t, map[string]string{"twitter": "twitter.com/jane"}, p.Social)
	require.NotNil(t, p.User)
	assert.Equal(t, model.Author{ID: jane.ID, Name: "Jane Doe", Avatar: jane.Avatar}, *p.User)
	assert.Empty(t, p.Experience)
}

func TestProfileUpsert_UpdateMergesOnlyProvidedFields(t *testing.T) {
	svc, store := newTestProfileService(t)
	ctx := context.Background()
	jane := seedUser(t, store, "Jane Doe", "jane@example.com")

	_, err := svc.Upsert(ctx, jane.ID, validation.ProfileInput{
		Handle:   "jane",
		Status:   "Developer",
		Skills:   "go, sql",
		Company:  "Acme",
		Location: "Berlin",
		YouTube:  "youtube.com/jane",
	})
	require.NoError(t, err)

	p, err := svc.Upsert(ctx, jane.ID, validation.ProfileInput{
		Handle:  "jane",
		Status:  "Senior Developer",
		Skills:  " go , docker ,, ",
		Company: "Globex",
		Twitter: "twitter.com/jane",
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Developer", p.Status)
	assert.Equal(t, "Globex", p.Company)
	assert.Equal(t, "Berlin", p.Location, "omitted field must keep its prior value")
	assert.Equal(t, []string{"go", "docker"}, p.Skills)
	assert.Equal(t, map[string]string{"youtube": "youtube.com/jane", "twitter": "twitter.com/jane"}, p.Social)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "update must not create a second profile")
}

func TestProfileUpsert_HandleTaken(t *testing.T) {
	svc, store := newTestProfileService(t)
	ctx := context.Background()
	jane := seedUser(t, store, "Jane Doe", "jane@example.com")
	john := seedUser(t, store, "John Roe", "john@example.com")

	_, err := svc.Upsert(ctx, jane.ID, validation.ProfileInput{Handle: "jane", Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	// A new profile cannot take an existing handle.
	_, err = svc.Upsert(ctx, john.ID, validation.ProfileInput{Handle: "jane", Status: "Dev", Skills: "go"})
	require.True(t, errors.Is(err, apperror.ErrConflict), "got %v", err)
	assert.Equal(t, map[string]string{"handle": "That handle already exists"}, fieldsOf(t, err))

	// Nor can an existing profile be renamed onto one.
	_, err = svc.Upsert(ctx, john.ID, validation.ProfileInput{Handle: "john", Status: "Dev", Skills: "go"})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, john.ID, validation.ProfileInput{Handle: "jane", Status: "Dev", Skills: "go"})
	assert.True(t, errors.Is(err, apperror.ErrConflict), "got %v", err)

	p, err := svc.ByUser(ctx, john.ID)
	require.NoError(t, err)
	assert.Equal(t, "john", p.Handle)
}

func TestProfileUpsert_Validation(t *testing.T) {
	svc, store := newTestProfileService(t)
	jane := seedUser(t, store, "Jane Doe", "jane@example.com")

	_, err := svc.Upsert(context.Background(), jane.ID, validation.ProfileInput{Website: "not a url"})
	require.True(t, errors.Is(err, apperror.ErrValidation))

	fields := fieldsOf(t, err)
	assert.Equal(t, "Profile handle is required", fields["handle"])
	assert.Equal(t, "Status field is required", fields["status"])
	assert.Equal(t, "Skills field is required", fields["skills"])
	assert.Equal(t, "Not a valid URL", fields["website"])
}

func TestProfileUpsert_HandleLengthCountsStoredForm(t *testing.T) {
	svc, store := newTestProfileService(t)
	ctx := context.Background()
	jane := seedUser(t, store, "Jane Doe", "jane@example.com")

	_, err := svc.Upsert(ctx, jane.ID, validation.ProfileInput{Handle: " a ", Status: "Dev", Skills: "go"})
	require.True(t, errors.Is(err, apperror.ErrValidation), "got %v", err)
	assert.Equal(t, "Handle needs to be between 2 and 40 characters", fieldsOf(t, err)["handle"])

	p, err := svc.Upsert(ctx, jane.ID, validation.ProfileInput{Handle: "  jd  ", Status: "Dev", Skills: "go"})
	require.NoError(t, err)
	assert.Equal(t, "jd", p.Handle)
}

func TestProfileLookups_NoProfile(t *testing.T) {
	svc, _ := newTestProfileService(t)
	ctx := context.Background()
	want := map[string]string{"noprofile": "There is no profile for this user"}

	_, err := svc.Get(ctx, "nobody")
	assert.Equal(t, want, fieldsOf(t, err))

	_, err = svc.ByHandle(ctx, "nobody")
	assert.Equal(t, want, fieldsOf(t, err))

	_, err = svc.ByUser(ctx, "nobody")
	assert.Equal(t, want, fieldsOf(t, err))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestProfileExperienceAndEducation(t *testing.T) {
	svc, store := newTestProfileService(t)
	ctx := context.Background()
	jane := seedUser(t, store, "Jane Doe", "jane@example.com")

	// Entries need a profile first.
	_, err := svc.AddExperience(ctx, jane.ID, validation.ExperienceInput{Title: "Dev", Company: "Acme", From: "2019-01-01"})
	require.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = svc.Upsert(ctx, jane.ID, validation.ProfileInput{Handle: "jane", Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	_, err = svc.AddExperience(ctx, jane.ID, validation.ExperienceInput{Title: "Junior", Company: "Acme", From: "2017-01-01"})
	require.NoError(t, err)
	p, err := svc.AddExperience(ctx, jane.ID, validation.ExperienceInput{Title: "Senior", Company: "Acme", From: "2019-01-01", Current: true})
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Senior", p.Experience[0].Title, "newest entry first")
	assert.NotEmpty(t, p.Experience[0].ID)

	p, err = svc.AddEducation(ctx, jane.ID, validation.EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2013-09-01"})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)

	_, err = svc.AddEducation(ctx, jane.ID, validation.EducationInput{School: "MIT"})
	require.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, "Degree field is required", fieldsOf(t, err)["degree"])

	// Unknown ids are reported and leave the profile untouched.
	_, err = svc.DeleteExperience(ctx, jane.ID, "missing")
	assert.Equal(t, map[string]string{"experiencenotfound": "Experience does not exist"}, fieldsOf(t, err))
	_, err = svc.DeleteEducation(ctx, jane.ID, "missing")
	assert.Equal(t, map[string]string{"educationnotfound": "Education does not exist"}, fieldsOf(t, err))

	p, err = svc.Get(ctx, jane.ID)
	require.NoError(t, err)
	assert.Len(t, p.Experience, 2)
	assert.Len(t, p.Education, 1)

	senior := p.Experience[0].ID
	p, err = svc.DeleteExperience(ctx, jane.ID, senior)
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Junior", p.Experience[0].Title)

	p, err = svc.DeleteEducation(ctx, jane.ID, p.Education[0].ID)
	require.NoError(t, err)
	assert.Empty(t, p.Education)
}

func TestProfileDelete_RemovesProfileAndUser(t *testing.T) {
	svc, store := newTestProfileService(t)
	ctx := context.Background()
	jane := seedUser(t, store, "Jane Doe", "jane@example.com")

	_, err := svc.Upsert(ctx, jane.ID, validation.ProfileInput{Handle: "jane", Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, jane.ID))

	_, err = store.GetProfileByUser(ctx, jane.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	_, err = store.GetUserByID(ctx, jane.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// failingUsers wraps a real repository and fails DeleteUser.
type failingUsers struct {
	repository.UserRepository
	err error
}

func (f failingUsers) DeleteUser(context.Context, string) error { return f.err }

func TestProfileDelete_UserDeleteFailureIsSurfaced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	jane := seedUser(t, store, "Jane Doe", "jane@example.com")

	boom := errors.New("connection reset")
	svc := NewProfileService(store, failingUsers{UserRepository: store, err: boom}, testLogger())

	_, err := svc.Upsert(ctx, jane.ID, validation.ProfileInput{Handle: "jane", Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	err = svc.Delete(ctx, jane.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	var appErr *apperror.AppError
	assert.False(t, errors.As(err, &appErr), "store failures must not look like client errors")
}
