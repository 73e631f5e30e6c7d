// Package model defines the documents stored by the application.
//
// Each type carries two sets of tags: `json` for the HTTP wire format and
// `bson` for the document store. Fields that must never leave the server
// (the password digest) are hidden from JSON but kept in BSON.
package model

import "time"

// User is an account created at registration.
//
// Email is unique across users. Password holds the bcrypt digest and is
// never serialized to JSON.
type User struct {
	ID       string    `json:"_id"    bson:"_id"`
	Name     string    `json:"name"   bson:"name"`
	Email    string    `json:"email"  bson:"email"`
	Password string    `json:"-"      bson:"password"`
	Avatar   string    `json:"avatar" bson:"avatar"`
	Date     time.Time `json:"date"   bson:"date"`
}

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
}

// Author is the public summary of a user attached to profiles on read.
type Author struct {
	ID     string `json:"_id"    bson:"_id"`
	Name   string `json:"name"   bson:"name"`
	Avatar string `json:"avatar" bson:"avatar"`
}
