// Package auth provides token issuance, password hashing and the bearer-token
// middleware that resolves the caller's identity.
//
// AUTHENTICATION FLOW:
//  1. POST /api/users/login verifies the password against the stored digest
//  2. The server signs a JWT carrying {id, name, avatar}, valid for one hour
//  3. The client sends it back as "Authorization: Bearer <token>"
//  4. RequireAuth verifies the signature and expiry, loads the user, and puts
//     the Identity in the request context
//
// There is no refresh token: once the hour is up the client logs in again.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of every issued token.
const TokenTTL = 3600 * time.Second

// BearerPrefix precedes the token in login responses and Authorization headers.
const BearerPrefix = "Bearer "

const issuer = "devconnector"

// TokenService signs and verifies HS256 tokens with a shared secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: SECRET_KEY=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: secret key must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// Claims is the token payload. ID duplicates the standard subject claim so
// clients decoding the token see the same {id, name, avatar} shape the
// login endpoint documents.
type Claims struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	jwt.RegisteredClaims
}

// Generate signs a token for the user that expires after TokenTTL.
func (s *TokenService) Generate(id, name, avatar string) (string, error) {
	return s.GenerateWithDuration(id, name, avatar, TokenTTL)
}

// GenerateWithDuration signs a token with a custom lifetime.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(id, name, avatar string, d time.Duration) (string, error) {
	now := s.now()

	c := Claims{
		ID:     id,
		Name:   name,
		Avatar: avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns its claims.
//
// The jwt library checks the signature, the algorithm (HS256 only, which
// rules out "none" tokens), the issuer, and expiry.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.ID == "" {
		return nil, fmt.Errorf("auth: token has no user id")
	}

	return c, nil
}
