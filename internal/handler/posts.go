package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/devconnector/internal/service"
	"github.com/sakif/devconnector/internal/validation"
)

// PostHandler serves /api/posts: posts, likes and comments.
type PostHandler struct {
	svc    *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, logger: logger}
}

// HTTP: GET /api/posts/test
func (h *PostHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "posts route works"})
}

// HandleList returns every post, newest first.
//
// HTTP: GET /api/posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, h.logger, "list_posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HTTP: GET /api/posts/{id}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "get_post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleCreate publishes a post as the caller.
//
// HTTP: POST /api/posts (protected)
// REQUEST BODY: {"text": "..."}
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var in validation.PostInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.svc.Create(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, "create_post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: DELETE /api/posts/{id} (protected, author only)
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "delete_post", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HTTP: POST /api/posts/like/{id} (protected)
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Like(r.Context(), id.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "like_post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: POST /api/posts/unlike/{id} (protected)
func (h *PostHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Unlike(r.Context(), id.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, "unlike_post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: POST /api/posts/comment/{id} (protected)
// REQUEST BODY: {"text": "..."}
func (h *PostHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var in validation.PostInput
	if !decodeBody(w, r, &in) {
		return
	}

	p, err := h.svc.Comment(r.Context(), id, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, h.logger, "comment_post", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: DELETE /api/posts/comment/{id}/{comment_id} (protected, comment author only)
func (h *PostHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	p, err := h.svc.DeleteComment(r.Context(), id.ID, chi.URLParam(r, "id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		writeError(w, h.logger, "delete_comment", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
