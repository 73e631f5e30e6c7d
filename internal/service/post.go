package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
	"github.com/sakif/devconnector/internal/validation"
)

var errNotAuthorized = apperror.Forbidden("notauthorized", "User not authorized")

// Each route family reports a missing post under its own key.
var (
	errNoPostToRead   = apperror.NotFound("notfoundpost", "Post not found")
	errNoPostToChange = apperror.NotFound("postnotfound", "Post not found")
	errNoPostToAnswer = apperror.NotFound("nopostfound", "No post found")
)

// PostService manages posts, likes and comments.
//
// Every mutation is read-modify-write of the whole post document; two
// concurrent writers on the same post race and the last one wins.
type PostService struct {
	posts    repository.PostRepository
	profiles repository.ProfileRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewPostService creates a PostService. profiles is only read, to look up
// the caller before a post mutation.
func NewPostService(posts repository.PostRepository, profiles repository.ProfileRepository, logger *slog.Logger) *PostService {
	return &PostService{posts: posts, profiles: profiles, logger: logger, now: time.Now}
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

// Get returns one post.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "get", errNoPostToRead)
	}
	p.Normalize()
	return p, nil
}

// Create publishes a post authored by the caller. Name and avatar are
// copied from the caller's identity.
func (s *PostService) Create(ctx context.Context, author model.Identity, in validation.PostInput) (*model.Post, error) {
	if errs := validation.Post(in); !errs.Valid() {
		return nil, apperror.Invalid(errs)
	}

	p := &model.Post{
		UserID: author.ID,
		Text:   strings.TrimSpace(in.Text),
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   s.now(),
	}
	p.Normalize()

	if err := s.posts.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created", slog.String("postID", p.ID), slog.String("userID", author.ID))
	return p, nil
}

// Delete removes a post. Only its author may delete it.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	p, err := s.loadForCaller(ctx, userID, postID, "delete")
	if err != nil {
		return err
	}

	if p.UserID != userID {
		return errNotAuthorized
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return s.wrap(err, "delete", errNoPostToChange)
	}

	s.logger.Info("post deleted", slog.String("postID", postID), slog.String("userID", userID))
	return nil
}

// Like adds the caller's like. A user can like a post once; a repeat is
// reported as not found, like every other like/unlike failure.
func (s *PostService) Like(ctx context.Context, userID, postID string) (*model.Post, error) {
	p, err := s.loadForCaller(ctx, userID, postID, "like")
	if err != nil {
		return nil, err
	}

	if p.LikedBy(userID) {
		return nil, apperror.NotFound("alreadyliked", "User already liked this post")
	}

	p.Likes = append([]model.Like{{ID: xid.New().String(), UserID: userID}}, p.Likes...)

	if err := s.posts.UpdatePost(ctx, p); err != nil {
		return nil, s.wrap(err, "like", errNoPostToChange)
	}
	return p, nil
}

// Unlike removes the caller's like.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) (*model.Post, error) {
	p, err := s.loadForCaller(ctx, userID, postID, "unlike")
	if err != nil {
		return nil, err
	}

	if !p.RemoveLike(userID) {
		return nil, apperror.NotFound("notliked", "You have not liked this post")
	}

	if err := s.posts.UpdatePost(ctx, p); err != nil {
		return nil, s.wrap(err, "unlike", errNoPostToChange)
	}
	return p, nil
}

// Comment prepends a comment by the caller.
func (s *PostService) Comment(ctx context.Context, author model.Identity, postID string, in validation.PostInput) (*model.Post, error) {
	if errs := validation.Post(in); !errs.Valid() {
		return nil, apperror.Invalid(errs)
	}

	p, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, s.wrap(err, "comment", errNoPostToAnswer)
	}

	c := model.Comment{
		ID:     xid.New().String(),
		UserID: author.ID,
		Text:   strings.TrimSpace(in.Text),
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   s.now(),
	}
	p.Comments = append([]model.Comment{c}, p.Comments...)
	p.Normalize()

	if err := s.posts.UpdatePost(ctx, p); err != nil {
		return nil, s.wrap(err, "comment", errNoPostToAnswer)
	}
	return p, nil
}

// DeleteComment removes a comment. Only the comment's author may delete it.
func (s *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) (*model.Post, error) {
	p, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, s.wrap(err, "delete_comment", errNoPostToAnswer)
	}

	c := p.FindComment(commentID)
	if c == nil {
		return nil, apperror.NotFound("commentnotfound", "Comment not found")
	}
	if c.UserID != userID {
		return nil, errNotAuthorized
	}

	p.RemoveComment(commentID)
	p.Normalize()

	if err := s.posts.UpdatePost(ctx, p); err != nil {
		return nil, s.wrap(err, "delete_comment", errNoPostToAnswer)
	}
	return p, nil
}

// loadForCaller looks up the caller's profile before the post. The profile
// itself is not required; only a failing store aborts the request.
func (s *PostService) loadForCaller(ctx context.Context, userID, postID, op string) (*model.Post, error) {
	if _, err := s.profiles.GetProfileByUser(ctx, userID); err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/post: %s: loading profile: %w", op, err)
	}

	p, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, s.wrap(err, op, errNoPostToChange)
	}
	p.Normalize()
	return p, nil
}

// wrap replaces the store's not-found error with missing and adds context
// to everything else.
func (s *PostService) wrap(err error, op string, missing error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return missing
	}
	return fmt.Errorf("service/post: %s: %w", op, err)
}
