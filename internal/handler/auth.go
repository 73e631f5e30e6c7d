package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/devconnector/internal/service"
	"github.com/sakif/devconnector/internal/validation"
)

// AuthHandler serves /api/users: registration, login and the current user.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account, respond with the stored user
//   - HandleLogin    → exchange credentials for a bearer token
//   - HandleCurrent  → echo the caller resolved from the token
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// HandleTest is a smoke route for the users router.
//
// HTTP: GET /api/users/test
func (h *AuthHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "users route works"})
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/users/register
// REQUEST BODY: {"name", "email", "password", "password_2"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in validation.RegisterInput
	if !decodeBody(w, r, &in) {
		return
	}

	user, err := h.svc.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, "register", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogin returns {"success": true, "token": "Bearer <jwt>"}.
//
// HTTP: POST /api/users/login
// REQUEST BODY: {"email", "password"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in validation.LoginInput
	if !decodeBody(w, r, &in) {
		return
	}

	res, err := h.svc.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleCurrent returns {"id", "name", "email"} of the caller.
//
// HTTP: GET /api/users/current (protected)
func (h *AuthHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Current(id))
}
