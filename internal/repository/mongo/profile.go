package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
)

func noProfile() error {
	return apperror.NotFound("noprofile", "There is no profile for this user")
}

// profileConflict names the unique index a duplicate key error came from.
func profileConflict(err error) error {
	if duplicateKeyOn(err, "handle") {
		return apperror.Conflict("handle", "That handle already exists")
	}
	return apperror.Conflict("profile", "Profile already exists for this user")
}

// CreateProfile inserts a new profile. The unique indexes on user and
// handle turn a second profile or a taken handle into a Conflict.
func (db *DB) CreateProfile(ctx context.Context, profile *model.Profile) error {
	profile.ID = xid.New().String()
	if profile.Date.IsZero() {
		profile.Date = time.Now().UTC()
	}
	profile.Normalize()

	if _, err := db.profiles.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return profileConflict(err)
		}
		return fmt.Errorf("mongo: inserting profile for user %s: %w", profile.UserID, err)
	}
	return nil
}

// GetProfileByUser returns the profile owned by userID.
func (db *DB) GetProfileByUser(ctx context.Context, userID string) (*model.Profile, error) {
	return db.findProfile(ctx, bson.M{"user": userID})
}

// GetProfileByHandle returns the profile with the given handle.
func (db *DB) GetProfileByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	return db.findProfile(ctx, bson.M{"handle": handle})
}

func (db *DB) findProfile(ctx context.Context, filter bson.M) (*model.Profile, error) {
	var p model.Profile
	if err := db.profiles.FindOne(ctx, filter).Decode(&p); err != nil {
		if isNoDocuments(err) {
			return nil, noProfile()
		}
		return nil, fmt.Errorf("mongo: finding profile %v: %w", filter, err)
	}
	p.Normalize()
	return &p, nil
}

// ListProfiles returns every profile, oldest first.
func (db *DB) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	cur, err := db.profiles.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing profiles: %w", err)
	}

	profiles := []model.Profile{}
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("mongo: decoding profiles: %w", err)
	}
	for i := range profiles {
		profiles[i].Normalize()
	}
	return profiles, nil
}

// UpdateProfile replaces the profile document, experience and education
// included.
func (db *DB) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	profile.Normalize()

	res, err := db.profiles.ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return profileConflict(err)
		}
		return fmt.Errorf("mongo: replacing profile %s: %w", profile.ID, err)
	}
	if res.MatchedCount == 0 {
		return noProfile()
	}
	return nil
}

// DeleteProfileByUser removes the profile owned by userID. Deleting a
// profile that does not exist is not an error.
func (db *DB) DeleteProfileByUser(ctx context.Context, userID string) error {
	if _, err := db.profiles.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return fmt.Errorf("mongo: deleting profile of user %s: %w", userID, err)
	}
	return nil
}
