package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
)

// noPost is the store-level miss; the service picks the body each route reports.
func noPost() error {
	return apperror.NotFound("nopostfound", "No post found")
}

// CreatePost assigns a new ID, stamps Date when unset and inserts the post.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	if post.Date.IsZero() {
		post.Date = time.Now().UTC()
	}
	post.Normalize()

	if _, err := db.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("mongo: inserting post for user %s: %w", post.UserID, err)
	}
	return nil
}

// GetPostByID returns the post with id, or a NotFound error.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := db.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if isNoDocuments(err) {
			return nil, noPost()
		}
		return nil, fmt.Errorf("mongo: finding post %s: %w", id, err)
	}
	p.Normalize()
	return &p, nil
}

// ListPosts returns all posts, newest first.
func (db *DB) ListPosts(ctx context.Context) ([]model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := db.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing posts: %w", err)
	}

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("mongo: decoding posts: %w", err)
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

// UpdatePost replaces the whole post document. Likes and comments are
// embedded, so this is how they are added and removed.
func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	post.Normalize()

	res, err := db.posts.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return fmt.Errorf("mongo: replacing post %s: %w", post.ID, err)
	}
	if res.MatchedCount == 0 {
		return noPost()
	}
	return nil
}

// DeletePost removes the post with id, or reports NotFound if there is none.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	res, err := db.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: deleting post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return noPost()
	}
	return nil
}
