package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository/sqlite"
)

// =========================================================================
// HELPERS
// =========================================================================

const testSecret = "test-secret-at-least-16-chars!!"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestStore returns a fresh in-memory store closed when the test ends.
func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// newTestAuthService wires an AuthService over store. Cost 4 is the bcrypt
// minimum and keeps tests fast.
func newTestAuthService(t *testing.T, store *sqlite.DB) *AuthService {
	t.Helper()
	return NewAuthService(store, newTestTokens(t), auth.NewPasswordServiceForTest(4), testLogger())
}

// seedUser stores a user directly and returns the identity the bearer
// middleware would resolve for it.
func seedUser(t *testing.T, store *sqlite.DB, name, email string) model.Identity {
	t.Helper()
	u := &model.User{Name: name, Email: email, Password: "digest", Avatar: auth.AvatarURL(email)}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return model.Identity{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Email: u.Email}
}
