package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devconnector/internal/service"
	"github.com/sakif/devconnector/internal/validation"
)

// ProfileHandler serves /api/profile.
type ProfileHandler struct {
	svc    *service.ProfileService
	logger *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// HTTP: GET /api/profile/test
func (h *ProfileHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "profile route works"})
}

// HandleGet returns the caller's own profile.
//
// HTTP: GET /api/profile (protected)
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id.ID)
	if err != nil {
		writeError(w, h.logger, "get_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleAll lists every profile.
//
// HTTP: GET /api/profile/all
func (h *ProfileHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.All(r.Context())
	if err != nil {
		writeError(w, h.logger, "list_profiles", err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HTTP: GET /api/profile/handle/{handle}
func (h *ProfileHandler) HandleByHandle(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, h.logger, "profile_by_handle", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: GET /api/profile/user/{user_id}
func (h *ProfileHandler) HandleByUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ByUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, h.logger, "profile_by_user", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpsert creates the caller's profile or updates the provided fields.
//
// HTTP: POST /api/profile (protected)
// REQUEST BODY: {"handle", "status", "skills": "go,sql", "company", ...}
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var in validation.ProfileInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.svc.Upsert(r.Context(), id.ID, in)
	if err != nil {
		writeError(w, h.logger, "upsert_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: POST /api/profile/experience (protected)
func (h *ProfileHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var in validation.ExperienceInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.svc.AddExperience(r.Context(), id.ID, in)
	if err != nil {
		writeError(w, h.logger, "add_experience", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: POST /api/profile/education (protected)
func (h *ProfileHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var in validation.EducationInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.svc.AddEducation(r.Context(), id.ID, in)
	if err != nil {
		writeError(w, h.logger, "add_education", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: DELETE /api/profile/experience/{exp_id} (protected)
func (h *ProfileHandler) HandleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	p, err := h.svc.DeleteExperience(r.Context(), id.ID, chi.URLParam(r, "exp_id"))
	if err != nil {
		writeError(w, h.logger, "delete_experience", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: DELETE /api/profile/education/{edu_id} (protected)
func (h *ProfileHandler) HandleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	p, err := h.svc.DeleteEducation(r.Context(), id.ID, chi.URLParam(r, "edu_id"))
	if err != nil {
		writeError(w, h.logger, "delete_education", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDelete removes the caller's profile and account.
//
// HTTP: DELETE /api/profile (protected)
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id.ID); err != nil {
		writeError(w, h.logger, "delete_account", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
