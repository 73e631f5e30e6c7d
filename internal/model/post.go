package model

import "time"

// Post is a status update. Name and Avatar are copied from the author at
// creation time so listing posts needs no user lookups.
type Post struct {
	ID       string    `json:"_id"      bson:"_id"`
	UserID   string    `json:"user"     bson:"user"`
	Text     string    `json:"text"     bson:"text"`
	Name     string    `json:"name"     bson:"name"`
	Avatar   string    `json:"avatar"   bson:"avatar"`
	Likes    []Like    `json:"likes"    bson:"likes"`
	Comments []Comment `json:"comments" bson:"comments"`
	Date     time.Time `json:"date"     bson:"date"`
}

// Like records that a user liked a post. A user has at most one per post.
type Like struct {
	ID     string `json:"_id"  bson:"_id"`
	UserID string `json:"user" bson:"user"`
}

// Comment is embedded in its post, newest first.
type Comment struct {
	ID     string    `json:"_id"    bson:"_id"`
	UserID string    `json:"user"   bson:"user"`
	Text   string    `json:"text"   bson:"text"`
	Name   string    `json:"name"   bson:"name"`
	Avatar string    `json:"avatar" bson:"avatar"`
	Date   time.Time `json:"date"   bson:"date"`
}

// LikedBy reports whether userID already liked the post.
func (p *Post) LikedBy(userID string) bool {
	return p.likeIndex(userID) >= 0
}

func (p *Post) likeIndex(userID string) int {
	for i, l := range p.Likes {
		if l.UserID == userID {
			return i
		}
	}
	return -1
}

// RemoveLike drops userID's like and reports whether one was found.
func (p *Post) RemoveLike(userID string) bool {
	i := p.likeIndex(userID)
	if i < 0 {
		return false
	}
	p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
	return true
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// RemoveComment drops the comment with the given id and reports whether it existed.
// An unknown id leaves the list untouched.
func (p *Post) RemoveComment(id string) bool {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}
