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

// CreateUser inserts a new user, assigning ID and Date.
// A taken email returns apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	if user.Date.IsZero() {
		user.Date = time.Now().UTC()
	}

	doc, err := encode(user)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, created_at, doc) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.Date.UnixNano(), doc,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email", "Email already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetUserByID retrieves a user by ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT doc FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email.
// Returns apperror.ErrNotFound if no user has that email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `SELECT doc FROM users WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var doc []byte
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("email", "User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", arg, err)
	}

	var u model.User
	if err := decode(doc, &u); err != nil {
		return nil, fmt.Errorf("sqlite: user %s: %w", arg, err)
	}
	return &u, nil
}

// DeleteUser removes a user by ID.
// Returns apperror.ErrNotFound if nothing was deleted.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("user", "User not found")
	}
	return nil
}
