package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/forum-api/internal/metrics"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type key string

const UserIDKey key = "user_id"

const (
	MsgNoToken      = "no token, authorization denied"
	MsgInvalidToken = "token is not valid"
)

// TokenVerifier resolves a bearer token to a user id. *auth.TokenService satisfies it.
type TokenVerifier interface {
	Verify(token string) (int, error)
}

// JWTMiddleware verifies the bearer token on every request and stores the
// user id in the request context. It does not check that the user still exists.
func JWTMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				metrics.RecordAuth("token", "missing")
				unauthorized(w, MsgNoToken)
				return
			}

			userID, err := verifier.Verify(tokenStr)
			if err != nil {
				metrics.RecordAuth("token", "invalid")
				slog.Debug("token rejected",
					"request_id", chimw.GetReqID(r.Context()),
					"path", r.URL.Path,
					"err", err)
				unauthorized(w, MsgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id stored by JWTMiddleware.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok && id > 0
}

// WithUserID returns a copy of ctx carrying userID, as JWTMiddleware would.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// A header with another scheme is returned as-is so it fails verification
// rather than being reported as missing.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", false
	}
	if len(authHeader) >= 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		authHeader = strings.TrimSpace(authHeader[7:])
	}
	if authHeader == "" || strings.EqualFold(authHeader, "Bearer") {
		return "", false
	}
	return authHeader, true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
