package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/forum-api/internal/common"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the message for every 500 response.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// JSONValidationError sends "error" plus per-field messages under "fields".
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	writeJSON(w, status, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorWriter maps service errors to HTTP responses. With ExposeDetail set,
// 500 responses carry the underlying cause under "detail"; keep it off in production.
type ErrorWriter struct {
	ExposeDetail bool
}

func (e ErrorWriter) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrUserExists):
		JSONError(w, "user already exists", http.StatusBadRequest)
	case errors.Is(err, common.ErrUserNotFound):
		JSONError(w, "user not found", http.StatusNotFound)
	case errors.Is(err, common.ErrForumNotFound):
		JSONError(w, "forum not found", http.StatusNotFound)
	case errors.Is(err, common.ErrCommentNotFound):
		JSONError(w, "comment not found", http.StatusNotFound)
	case errors.Is(err, common.ErrNotFound):
		JSONError(w, "not found", http.StatusNotFound)
	case errors.Is(err, common.ErrConflict):
		JSONError(w, "already exists", http.StatusConflict)
	case errors.Is(err, common.ErrInvalidCredentials):
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrUnauthorized):
		JSONError(w, "token is not valid", http.StatusUnauthorized)
	case errors.Is(err, common.ErrForbidden):
		JSONError(w, "only the owner can modify this resource", http.StatusForbidden)
	case errors.Is(err, common.ErrValidation):
		JSONError(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err)
		out := map[string]string{"error": ErrMessageInternal}
		if e.ExposeDetail {
			out["detail"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, out)
	}
}
