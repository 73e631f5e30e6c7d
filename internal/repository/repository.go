// Package repository declares the storage interfaces used by the service layer.
//
// Two document stores implement them: repository/mongo (MongoDB) and
// repository/sqlite (embedded SQLite holding BSON documents). Services depend
// only on these interfaces and receive a Store through their constructors.
//
// Lookups that find nothing return an *apperror.AppError wrapping
// apperror.ErrNotFound. Unique-key violations return apperror.ErrConflict.
package repository

import (
	"context"

	"github.com/sakif/devconnector/internal/model"
)

// UserRepository stores accounts. Lookups that miss return apperror.ErrNotFound.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ProfileRepository stores profiles. A user has at most one profile and
// handles are unique; violations come back as apperror.ErrConflict.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfileByUser(ctx context.Context, userID string) (*model.Profile, error)
	GetProfileByHandle(ctx context.Context, handle string) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]model.Profile, error)
	// UpdateProfile replaces the stored document with the same ID.
	UpdateProfile(ctx context.Context, profile *model.Profile) error
	// DeleteProfileByUser removes the caller's profile. Deleting a missing
	// profile is not an error.
	DeleteProfileByUser(ctx context.Context, userID string) error
}

// PostRepository stores posts with their likes and comments embedded.
type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	// ListPosts returns every post, newest first.
	ListPosts(ctx context.Context) ([]model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error
}

// Store is a connected document store.
type Store interface {
	UserRepository
	ProfileRepository
	PostRepository
	Ping(ctx context.Context) error
	Close() error
}
