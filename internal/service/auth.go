// Package service holds the business rules behind each endpoint.
//
// Services sit between the HTTP handlers and the repositories:
//
//	handler (HTTP) → service (validation, ownership, rules) → repository (store)
//
// They never see an http.Request. Errors come back as *apperror.AppError for
// anything the client caused and as wrapped store errors for everything else;
// the handler layer turns them into status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
	"github.com/sakif/devconnector/internal/validation"
)

// AuthService registers users and exchanges credentials for tokens.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → sign JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Register creates a new account.
//
//  1. Validate the payload
//  2. Reject an email that is already registered
//  3. Derive the Gravatar avatar from the email
//  4. Hash the password and store the user
//
// The returned user never carries the password digest on the wire.
func (s *AuthService) Register(ctx context.Context, in validation.RegisterInput) (*model.User, error) {
	if errs := validation.Register(in); !errs.Valid() {
		return nil, apperror.Invalid(errs)
	}

	email := strings.TrimSpace(in.Email)

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("email", "Email already exists")
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	digest, err := s.passwords.Hash(in.Password)
	if err != nil {
		s.logger.Error("hashing password failed", slog.String("op", "register"), slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: digest,
		Avatar:   auth.AvatarURL(email),
	}

	// A concurrent registration can still win the race; the unique email
	// index turns that into the same conflict error.
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("email", "Email already exists")
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return user, nil
}

// Login verifies the credentials and returns a signed "Bearer <jwt>" token
// valid for auth.TokenTTL.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*LoginResult, error) {
	if errs := validation.Login(in); !errs.Valid() {
		return nil, apperror.Invalid(errs)
	}

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("email", "User not found")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.Password, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.Unauthorized("password", "Password incorrect")
		}
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Name, user.Avatar)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return &LoginResult{Success: true, Token: auth.BearerPrefix + token}, nil
}

// CurrentUser is the body of GET /api/users/current.
type CurrentUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Current echoes the identity resolved by the bearer middleware.
func (s *AuthService) Current(identity model.Identity) CurrentUser {
	return CurrentUser{ID: identity.ID, Name: identity.Name, Email: identity.Email}
}
