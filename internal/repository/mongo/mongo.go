// Package mongo implements repository.Store on MongoDB.
//
// Documents map one-to-one onto the model types through their bson tags.
// Collections are "users", "profiles" and "posts"; unique indexes on
// users.email, profiles.user and profiles.handle back the service-level
// uniqueness checks.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/sakif/devconnector/internal/repository"
)

// DefaultDatabase is used when the connection string names no database.
const DefaultDatabase = "devconnector"

var _ repository.Store = (*DB)(nil)

// DB holds a connected client and the collections it serves.
type DB struct {
	client   *mongo.Client
	users    *mongo.Collection
	profiles *mongo.Collection
	posts    *mongo.Collection
}

// New connects to uri, verifies the connection and ensures indexes exist.
// There is no retry: a failed connection is returned to the caller.
func New(ctx context.Context, uri string) (*DB, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("mongo: parsing connection string: %w", err)
	}
	dbName := cs.Database
	if dbName == "" {
		dbName = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	database := client.Database(dbName)
	db := &DB{
		client:   client,
		users:    database.Collection("users"),
		profiles: database.Collection("profiles"),
		posts:    database.Collection("posts"),
	}

	if err := db.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: creating indexes: %w", err)
	}

	return db, nil
}

func (db *DB) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("users.email: %w", err)
	}

	if _, err := db.profiles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "handle", Value: 1}}, Options: unique},
	}); err != nil {
		return fmt.Errorf("profiles: %w", err)
	}

	if _, err := db.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}},
	}); err != nil {
		return fmt.Errorf("posts.date: %w", err)
	}

	return nil
}

// Ping checks that the primary is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (db *DB) Close() error {
	return db.client.Disconnect(context.Background())
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// duplicateKeyOn reports whether err is a duplicate key error mentioning field.
func duplicateKeyOn(err error, field string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), field)
}
