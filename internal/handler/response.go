package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// ERROR FORMAT:
// Client errors are a map from field to message, the same shape the
// validation layer produces:
//   {"email": "Email already exists"}
//   {"handle": "Profile handle is required", "status": "Status field is required"}
//
// Anything that is not an *apperror.AppError is an internal failure:
//   {"error": "internal_error"}
// and the real cause only goes to the log.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-viper/mapstructure/v2"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/model"
)

// maxBodyBytes caps request bodies. The largest payload (a profile with
// every field filled) is well under this.
const maxBodyBytes = 1 << 20

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be set before the body: once Encode writes, the
// headers are gone and later changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps an error kind to its HTTP status.
//
// Duplicates and bad credentials are 400 and ownership failures are 401,
// which is what existing clients of this API expect.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrConflict),
		errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// errors.As walks the wrap chain, so a service returning
// fmt.Errorf("...: %w", apperror.NotFound(...)) still produces a 404.
func writeError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if status := statusFor(appErr); status != http.StatusInternalServerError {
			writeJSON(w, status, appErr.Body())
			return
		}
	}

	// Never expose internal error details: they may contain queries or paths.
	logger.Error("request failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
}

// decodeBody reads the request body into dst. An empty body decodes to the
// zero value so validation reports the missing fields.
//
// HTML forms post application/x-www-form-urlencoded; those fields are
// matched to dst by the same json tag names. Any other content type is
// read as JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := decodeForm(r, dst); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid form body"})
			return false
		}
		return true
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return false
	}
	return true
}

// decodeForm copies the first value of each posted field into dst. Values
// are strings on the wire, so "true" and "1" fill a bool field.
func decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	fields := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}

// identity returns the caller resolved by auth.RequireAuth. Handlers that
// call it are mounted behind the middleware, so a miss means a wiring bug.
func identity(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	return id, ok
}
