package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/devconnector/internal/model"
)

// contextKey is unexported so no other package can read or overwrite the
// identity stored by RequireAuth.
type contextKey string

const identityKey contextKey = "identity"

// UserLookup loads the account behind a token. repository.UserRepository
// satisfies it.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// RequireAuth rejects the request with 401 unless it carries a valid bearer
// token for an existing user. On success the caller's Identity is stored in
// the request context for handlers to read with IdentityFromContext.
//
// Every failure (missing header, bad signature, expired token, deleted
// user) produces the same response; handlers never see unauthenticated
// requests.
func RequireAuth(tokens *TokenService, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolveIdentity(r, tokens, users)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated caller.
// ok is false on routes not behind RequireAuth.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok && id.ID != ""
}

var errNoBearer = errors.New("auth: missing bearer token")

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if len(h) <= len(BearerPrefix) || !strings.EqualFold(h[:len(BearerPrefix)], BearerPrefix) {
		return "", errNoBearer
	}
	return strings.TrimSpace(h[len(BearerPrefix):]), nil
}

func resolveIdentity(r *http.Request, tokens *TokenService, users UserLookup) (model.Identity, error) {
	raw, err := BearerToken(r)
	if err != nil {
		return model.Identity{}, err
	}

	claims, err := tokens.Validate(raw)
	if err != nil {
		return model.Identity{}, err
	}

	user, err := users.GetUserByID(r.Context(), claims.ID)
	if err != nil {
		return model.Identity{}, err
	}

	return model.Identity{
		ID:     user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Email:  user.Email,
	}, nil
}
