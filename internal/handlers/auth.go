package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/forum-api/internal/auth"
	"github.com/crucial707/forum-api/internal/common"
	"github.com/crucial707/forum-api/internal/metrics"
	"github.com/crucial707/forum-api/internal/middleware"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/crucial707/forum-api/internal/service"
)

// AuthHandler serves signup, login and profile lookup.
type AuthHandler struct {
	Credentials *service.CredentialStore
	Tokens      *auth.TokenService
	ErrorWriter
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Token string          `json:"token"`
	User  *models.UserRef `json:"user"`
}

// Signup registers a user. A taken email is answered with 400.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input signupRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Email = service.NormalizeEmail(input.Email)
	if !validateInput(w, input) {
		metrics.RecordAuth("signup", "invalid")
		return
	}

	user, err := h.Credentials.Register(r.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			metrics.RecordAuth("signup", "conflict")
		} else {
			metrics.RecordAuth("signup", "error")
		}
		h.writeError(w, r, err)
		return
	}

	metrics.RecordAuth("signup", "success")
	slog.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "user created"})
}

// Login verifies the credentials and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	input.Email = service.NormalizeEmail(input.Email)
	if !validateInput(w, input) {
		metrics.RecordAuth("login", "invalid")
		return
	}

	user, err := h.Credentials.Verify(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUserNotFound):
			metrics.RecordAuth("login", "unknown_user")
		case errors.Is(err, common.ErrInvalidCredentials):
			metrics.RecordAuth("login", "invalid_credentials")
		default:
			metrics.RecordAuth("login", "error")
		}
		h.writeError(w, r, err)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		metrics.RecordAuth("login", "error")
		h.writeError(w, r, err)
		return
	}

	metrics.RecordAuth("login", "success")
	writeJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  &models.UserRef{ID: user.ID, Username: user.Username},
	})
}

// Profile returns the authenticated user's record. The token may outlive the
// user, in which case 404 is returned.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	user, err := h.Credentials.Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
