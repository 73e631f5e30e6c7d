package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
)

func noProfile() error {
	return apperror.NotFound("noprofile", "There is no profile for this user")
}

// profileConflict maps a unique violation on profiles to the offending field.
func profileConflict(err error) error {
	if strings.Contains(err.Error(), "profiles.handle") {
		return apperror.Conflict("handle", "That handle already exists")
	}
	return apperror.Conflict("profile", "Profile already exists for this user")
}

// CreateProfile inserts a profile, assigning ID and Date.
func (db *DB) CreateProfile(ctx context.Context, profile *model.Profile) error {
	profile.ID = xid.New().String()
	if profile.Date.IsZero() {
		profile.Date = time.Now().UTC()
	}
	profile.Normalize()

	doc, err := encode(profile)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, handle, created_at, doc) VALUES (?, ?, ?, ?, ?)`,
		profile.ID, profile.UserID, profile.Handle, profile.Date.UnixNano(), doc,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return profileConflict(err)
		}
		return fmt.Errorf("sqlite: inserting profile for user %s: %w", profile.UserID, err)
	}
	return nil
}

// GetProfileByUser returns the profile owned by userID.
func (db *DB) GetProfileByUser(ctx context.Context, userID string) (*model.Profile, error) {
	return db.getProfile(ctx, `SELECT doc FROM profiles WHERE user_id = ?`, userID)
}

// GetProfileByHandle returns the profile with the given handle.
func (db *DB) GetProfileByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	return db.getProfile(ctx, `SELECT doc FROM profiles WHERE handle = ?`, handle)
}

func (db *DB) getProfile(ctx context.Context, query, arg string) (*model.Profile, error) {
	var doc []byte
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, noProfile()
		}
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", arg, err)
	}

	var p model.Profile
	if err := decode(doc, &p); err != nil {
		return nil, fmt.Errorf("sqlite: profile %s: %w", arg, err)
	}
	p.Normalize()
	return &p, nil
}

// ListProfiles returns every profile in creation order.
func (db *DB) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT doc FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("sqlite: scanning profile row: %w", err)
		}
		var p model.Profile
		if err := decode(doc, &p); err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		p.Normalize()
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating profile rows: %w", err)
	}
	return profiles, nil
}

// UpdateProfile replaces the stored profile document.
func (db *DB) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	profile.Normalize()
	doc, err := encode(profile)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE profiles SET handle = ?, doc = ? WHERE id = ?`,
		profile.Handle, doc, profile.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return profileConflict(err)
		}
		return fmt.Errorf("sqlite: updating profile %s: %w", profile.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rows == 0 {
		return noProfile()
	}
	return nil
}

// DeleteProfileByUser removes userID's profile, if any.
func (db *DB) DeleteProfileByUser(ctx context.Context, userID string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("sqlite: deleting profile of user %s: %w", userID, err)
	}
	return nil
}
