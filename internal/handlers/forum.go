package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/crucial707/forum-api/internal/middleware"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/crucial707/forum-api/internal/repo"
	"github.com/crucial707/forum-api/internal/service"
)

// ForumHandler serves /forums. Reads are public; writes need an authenticated user.
type ForumHandler struct {
	Forums *service.ForumService
	// Audit is optional; when set, successful writes are recorded.
	Audit *repo.AuditRepo
	ErrorWriter
}

// forumRequest is the create/update payload. A createdBy field sent by the
// client is not part of it and is dropped during decoding.
type forumRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
}

// trim drops surrounding whitespace so a blank title fails validation.
func (in *forumRequest) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
}

func (in forumRequest) toInput() service.ForumInput {
	return service.ForumInput{Title: in.Title, Description: in.Description, Tags: in.Tags}
}

// ListForums returns forums newest first. Query: limit (default 20, max 100), offset.
// The total count is sent in X-Total-Count.
func (h *ForumHandler) ListForums(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 20, 100)

	forums, total, err := h.Forums.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if forums == nil {
		forums = []models.Forum{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, forums)
}

// GetForum returns {forum, comments}.
func (h *ForumHandler) GetForum(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "forum")
	if !ok {
		return
	}

	detail, err := h.Forums.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if detail.Comments == nil {
		detail.Comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ForumHandler) CreateForum(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	var input forumRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	input.trim()
	if !validateInput(w, input) {
		return
	}

	forum, err := h.Forums.Create(r.Context(), userID, input.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recordAudit(r, h.Audit, userID, "create", models.ResourceForum, forum.ID, forum.Title)
	writeJSON(w, http.StatusCreated, forum)
}

func (h *ForumHandler) UpdateForum(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}
	id, ok := pathID(w, r, "forum")
	if !ok {
		return
	}

	var input forumRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	input.trim()
	if !validateInput(w, input) {
		return
	}

	forum, err := h.Forums.Update(r.Context(), userID, id, input.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recordAudit(r, h.Audit, userID, "update", models.ResourceForum, forum.ID, forum.Title)
	writeJSON(w, http.StatusOK, forum)
}

// DeleteForum removes the forum together with its comments.
func (h *ForumHandler) DeleteForum(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}
	id, ok := pathID(w, r, "forum")
	if !ok {
		return
	}

	removed, err := h.Forums.Delete(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recordAudit(r, h.Audit, userID, "delete", models.ResourceForum, id, fmt.Sprintf("comments removed: %d", removed))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "forum deleted",
		"comments_deleted": removed,
	})
}
