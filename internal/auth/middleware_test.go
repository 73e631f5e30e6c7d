package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/devconnector/internal/model"
)

type fakeUsers map[string]*model.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func protectedHandler(t *testing.T, tokens *TokenService, users UserLookup) (http.Handler, *model.Identity) {
	t.Helper()
	var seen model.Identity
	h := RequireAuth(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("identity missing from context")
		}
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &seen
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := newTestTokenService(t)
	users := fakeUsers{"u1": {ID: "u1", Name: "Jane", Email: "jane@example.com", Avatar: "//a"}}
	h, seen := protectedHandler(t, tokens, users)

	token, _ := tokens.Generate("u1", "Jane", "//a")
	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	req.Header.Set("Authorization", BearerPrefix+token)
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, model.Identity{ID: "u1", Name: "Jane", Avatar: "//a", Email: "jane@example.com"}, *seen)
}

func TestRequireAuth_Rejects(t *testing.T) {
	tokens := newTestTokenService(t)
	users := fakeUsers{"u1": {ID: "u1", Name: "Jane"}}

	valid, _ := tokens.Generate("u1", "Jane", "")
	expired, _ := tokens.GenerateWithDuration("u1", "Jane", "", -time.Minute)
	deleted, _ := tokens.Generate("gone", "Ghost", "")
	other, _ := NewTokenService("another-secret-of-16+chars")
	foreign, _ := other.Generate("u1", "Jane", "")

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"missing scheme", valid},
		{"wrong scheme", "Basic " + valid},
		{"expired", BearerPrefix + expired},
		{"deleted user", BearerPrefix + deleted},
		{"foreign signature", BearerPrefix + foreign},
		{"garbage", BearerPrefix + "abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireAuth(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run for unauthenticated requests")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
		})
	}
}

func TestIdentityFromContext_Anonymous(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestBearerToken_CaseInsensitiveScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc.def.ghi")

	tok, err := BearerToken(req)
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)
}
