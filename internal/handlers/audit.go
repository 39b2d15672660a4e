package handlers

import (
	"log/slog"
	"net/http"

	"github.com/crucial707/forum-api/internal/middleware"
	"github.com/crucial707/forum-api/internal/repo"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AuditHandler serves the audit log.
type AuditHandler struct {
	Repo *repo.AuditRepo
	ErrorWriter
}

// ListAudit returns the caller's own audit log entries, newest first.
// Query: limit (default 50, max 200), offset.
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}
	limit, offset := pagination(r, 50, 200)

	entries, err := h.Repo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// recordAudit writes an audit entry. Failures are logged and never fail the request.
func recordAudit(r *http.Request, audit *repo.AuditRepo, userID int, action, resourceType string, resourceID int, details string) {
	if audit == nil {
		return
	}
	if err := audit.Log(r.Context(), userID, action, resourceType, resourceID, details); err != nil {
		slog.Warn("audit log write failed",
			"request_id", chimw.GetReqID(r.Context()),
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
			"err", err)
	}
}
