package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
)

func noPost() error {
	return apperror.NotFound("nopostfound", "No post found")
}

// CreatePost inserts a post, assigning ID and Date.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	if post.Date.IsZero() {
		post.Date = time.Now().UTC()
	}
	post.Normalize()

	doc, err := encode(post)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, created_at, doc) VALUES (?, ?, ?, ?)`,
		post.ID, post.UserID, post.Date.UnixNano(), doc,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post for user %s: %w", post.UserID, err)
	}
	return nil
}

// GetPostByID returns apperror.ErrNotFound if no post has that ID.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var doc []byte
	err := db.conn.QueryRowContext(ctx, `SELECT doc FROM posts WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, noPost()
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	var p model.Post
	if err := decode(doc, &p); err != nil {
		return nil, fmt.Errorf("sqlite: post %s: %w", id, err)
	}
	p.Normalize()
	return &p, nil
}

// ListPosts returns all posts, newest first.
func (db *DB) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT doc FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		var p model.Post
		if err := decode(doc, &p); err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		p.Normalize()
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating post rows: %w", err)
	}
	return posts, nil
}

// UpdatePost replaces the stored post document.
func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	post.Normalize()
	doc, err := encode(post)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	result, err := db.conn.ExecContext(ctx, `UPDATE posts SET doc = ? WHERE id = ?`, doc, post.ID)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rows == 0 {
		return noPost()
	}
	return nil
}

// DeletePost returns apperror.ErrNotFound if the post does not exist.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rows == 0 {
		return noPost()
	}
	return nil
}
