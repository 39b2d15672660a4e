package handlers

import (
	"net/http"
	"strings"

	"github.com/crucial707/forum-api/internal/middleware"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/crucial707/forum-api/internal/repo"
	"github.com/crucial707/forum-api/internal/service"
)

// CommentHandler serves /comments.
type CommentHandler struct {
	Comments *service.CommentService
	Audit    *repo.AuditRepo
	ErrorWriter
}

type commentRequest struct {
	ForumID int    `json:"forumId" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

// CreateComment posts a comment as the authenticated user.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	var input commentRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	input.Content = strings.TrimSpace(input.Content)
	if !validateInput(w, input) {
		return
	}

	comment, err := h.Comments.Create(r.Context(), userID, input.ForumID, input.Content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recordAudit(r, h.Audit, userID, "create", models.ResourceComment, comment.ID, "")
	writeJSON(w, http.StatusCreated, comment)
}

// ListComments returns the comments of the forum named by the id path parameter,
// oldest first. An unknown forum yields an empty list.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	forumID, ok := pathID(w, r, "forum")
	if !ok {
		return
	}

	comments, err := h.Comments.ListByForum(r.Context(), forumID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// DeleteComment removes a comment. Only its author may do so.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}
	id, ok := pathID(w, r, "comment")
	if !ok {
		return
	}

	comment, err := h.Comments.Delete(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recordAudit(r, h.Audit, userID, "delete", models.ResourceComment, id, "")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "comment deleted",
		"forum_id": comment.ForumID,
	})
}
