package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
)

// CreateUser assigns a new ID and inserts the user. The unique email index
// reports an existing account as a Conflict on "email".
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	if user.Date.IsZero() {
		user.Date = time.Now().UTC()
	}

	if _, err := db.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("email", "Email already exists")
		}
		return fmt.Errorf("mongo: inserting user (email=%s): %w", user.Email, err)
	}
	return nil
}

// GetUserByID returns the user with id. The bearer middleware calls it on
// every protected request.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.findUser(ctx, bson.M{"_id": id})
}

// GetUserByEmail returns the user registered with email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.findUser(ctx, bson.M{"email": email})
}

func (db *DB) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	if err := db.users.FindOne(ctx, filter).Decode(&u); err != nil {
		if isNoDocuments(err) {
			return nil, apperror.NotFound("email", "User not found")
		}
		return nil, fmt.Errorf("mongo: finding user %v: %w", filter, err)
	}
	return &u, nil
}

// DeleteUser removes the account with id.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := db.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: deleting user %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("user", "User not found")
	}
	return nil
}
