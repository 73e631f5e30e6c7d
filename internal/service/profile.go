package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
	"github.com/sakif/devconnector/internal/validation"
)

var errNoProfile = apperror.NotFound("noprofile", "There is no profile for this user")

// ProfileService manages the one-per-user profile and its embedded
// experience and education entries.
type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService. users is needed to embed the
// owner's name and avatar and to delete the account with its profile.
func NewProfileService(profiles repository.ProfileRepository, users repository.UserRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, logger: logger}
}

// Get returns the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, s.notFoundAsNoProfile(err, "get")
	}
	return s.withAuthor(ctx, p)
}

// ByHandle returns the profile with the given public handle.
func (s *ProfileService) ByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	p, err := s.profiles.GetProfileByHandle(ctx, handle)
	if err != nil {
		return nil, s.notFoundAsNoProfile(err, "by_handle")
	}
	return s.withAuthor(ctx, p)
}

// ByUser returns the profile owned by userID.
func (s *ProfileService) ByUser(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, s.notFoundAsNoProfile(err, "by_user")
	}
	return s.withAuthor(ctx, p)
}

// All returns every profile. No profiles is an empty list, not an error.
func (s *ProfileService) All(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/profile: listing profiles: %w", err)
	}

	out := make([]model.Profile, 0, len(profiles))
	for i := range profiles {
		p, err := s.withAuthor(ctx, &profiles[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// Upsert creates the caller's profile or merges the provided fields into
// the existing one.
//
// Only non-blank fields are applied, so an update that omits "company"
// keeps the stored company. Skills are a comma-separated list; social
// links are merged per platform.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in validation.ProfileInput) (*model.Profile, error) {
	if errs := validation.Profile(in); !errs.Valid() {
		return nil, apperror.Invalid(errs)
	}

	existing, err := s.profiles.GetProfileByUser(ctx, userID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/profile: loading profile: %w", err)
	}

	if existing != nil {
		handle := strings.TrimSpace(in.Handle)
		if handle != existing.Handle {
			if err := s.ensureHandleFree(ctx, handle, existing.ID); err != nil {
				return nil, err
			}
		}

		applyProfileInput(existing, in)
		if err := s.profiles.UpdateProfile(ctx, existing); err != nil {
			return nil, s.handleConflict(err, "updating profile")
		}

		s.logger.Info("profile updated", slog.String("userID", userID), slog.String("profileID", existing.ID))
		return s.withAuthor(ctx, existing)
	}

	p := &model.Profile{UserID: userID}
	applyProfileInput(p, in)

	if err := s.ensureHandleFree(ctx, p.Handle, ""); err != nil {
		return nil, err
	}

	p.Normalize()
	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		return nil, s.handleConflict(err, "creating profile")
	}

	s.logger.Info("profile created", slog.String("userID", userID), slog.String("profileID", p.ID))
	return s.withAuthor(ctx, p)
}

// AddExperience prepends a new experience entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, in validation.ExperienceInput) (*model.Profile, error) {
	if errs := validation.Experience(in); !errs.Valid() {
		return nil, apperror.Invalid(errs)
	}

	p, err := s.profiles.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, s.notFoundAsNoProfile(err, "add_experience")
	}

	entry := model.Experience{
		ID:          xid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        strings.TrimSpace(in.From),
		To:          strings.TrimSpace(in.To),
		Current:     in.Current,
		Description: strings.TrimSpace(in.Description),
	}
	p.Experience = append([]model.Experience{entry}, p.Experience...)

	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("service/profile: adding experience: %w", err)
	}
	return s.withAuthor(ctx, p)
}

// AddEducation prepends a new education entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, in validation.EducationInput) (*model.Profile, error) {
	if errs := validation.Education(in); !errs.Valid() {
		return nil, apperror.Invalid(errs)
	}

	p, err := s.profiles.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, s.notFoundAsNoProfile(err, "add_education")
	}

	entry := model.Education{
		ID:           xid.New().String(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         strings.TrimSpace(in.From),
		To:           strings.TrimSpace(in.To),
		Current:      in.Current,
		Description:  strings.TrimSpace(in.Description),
	}
	p.Education = append([]model.Education{entry}, p.Education...)

	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("service/profile: adding education: %w", err)
	}
	return s.withAuthor(ctx, p)
}

// DeleteExperience removes one experience entry by id. An unknown id is a
// not-found error and the profile is left untouched.
func (s *ProfileService) DeleteExperience(ctx context.Context, userID, expID string) (*model.Profile, error) {
	p, err := s.profiles.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, s.notFoundAsNoProfile(err, "delete_experience")
	}

	if !p.RemoveExperience(expID) {
		return nil, apperror.NotFound("experiencenotfound", "Experience does not exist")
	}

	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("service/profile: deleting experience: %w", err)
	}
	return s.withAuthor(ctx, p)
}

// DeleteEducation removes one education entry by id. An unknown id is a
// not-found error and the profile is left untouched.
func (s *ProfileService) DeleteEducation(ctx context.Context, userID, eduID string) (*model.Profile, error) {
	p, err := s.profiles.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, s.notFoundAsNoProfile(err, "delete_education")
	}

	if !p.RemoveEducation(eduID) {
		return nil, apperror.NotFound("educationnotfound", "Education does not exist")
	}

	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("service/profile: deleting education: %w", err)
	}
	return s.withAuthor(ctx, p)
}

// Delete removes the caller's profile and then the account itself.
// Posts the user wrote are kept.
func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	if err := s.profiles.DeleteProfileByUser(ctx, userID); err != nil {
		return fmt.Errorf("service/profile: deleting profile: %w", err)
	}

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		s.logger.Error("profile deleted but user removal failed",
			slog.String("op", "delete_account"),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("service/profile: deleting user %s: %w", userID, err)
	}

	s.logger.Info("account deleted", slog.String("userID", userID))
	return nil
}

func (s *ProfileService) ensureHandleFree(ctx context.Context, handle, ownID string) error {
	other, err := s.profiles.GetProfileByHandle(ctx, handle)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("service/profile: checking handle: %w", err)
	case other.ID != ownID:
		return apperror.Conflict("handle", "That handle already exists")
	}
	return nil
}

// handleConflict passes through a unique-index violation that slipped past
// ensureHandleFree, e.g. a concurrent writer took the handle.
func (s *ProfileService) handleConflict(err error, op string) error {
	if errors.Is(err, apperror.ErrConflict) {
		return err
	}
	return fmt.Errorf("service/profile: %s: %w", op, err)
}

// notFoundAsNoProfile maps a missing profile to the noprofile error and
// wraps anything else.
func (s *ProfileService) notFoundAsNoProfile(err error, op string) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return errNoProfile
	}
	return fmt.Errorf("service/profile: %s: %w", op, err)
}

// withAuthor attaches the owner's public summary. A profile whose user is
// gone still renders, with only the id filled in.
func (s *ProfileService) withAuthor(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	p.Normalize()

	u, err := s.users.GetUserByID(ctx, p.UserID)
	switch {
	case err == nil:
		p.User = &model.Author{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	case errors.Is(err, apperror.ErrNotFound):
		p.User = &model.Author{ID: p.UserID}
	default:
		return nil, fmt.Errorf("service/profile: loading owner %s: %w", p.UserID, err)
	}
	return p, nil
}

// applyProfileInput copies every non-blank field of in onto p.
func applyProfileInput(p *model.Profile, in validation.ProfileInput) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}

	set(&p.Handle, in.Handle)
	set(&p.Company, in.Company)
	set(&p.Website, in.Website)
	set(&p.Location, in.Location)
	set(&p.Bio, in.Bio)
	set(&p.Status, in.Status)
	set(&p.GitHubUsername, in.GitHubUsername)

	if skills := validation.SplitSkills(in.Skills); len(skills) > 0 {
		p.Skills = skills
	}

	links := in.SocialLinks()
	if len(links) > 0 && p.Social == nil {
		p.Social = make(map[string]string, len(links))
	}
	for platform, url := range links {
		p.Social[platform] = strings.TrimSpace(url)
	}
}
