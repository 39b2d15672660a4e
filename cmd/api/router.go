package main

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/forum-api/internal/auth"
	"github.com/crucial707/forum-api/internal/config"
	"github.com/crucial707/forum-api/internal/handlers"
	"github.com/crucial707/forum-api/internal/middleware"
	"github.com/crucial707/forum-api/internal/repo"
	"github.com/crucial707/forum-api/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the API with a fresh signup/login rate limiter.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	return buildRouter(db, cfg, middleware.AuthRateLimiter().TrustProxyHeaders(cfg.TrustProxy))
}

func buildRouter(db *sql.DB, cfg config.Config, authLimiter *middleware.IPRateLimiter) http.Handler {
	errs := handlers.ErrorWriter{ExposeDetail: !cfg.IsProd()}
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL())
	audit := repo.NewAuditRepo(db)

	authHandler := &handlers.AuthHandler{
		Credentials: service.NewCredentialStore(repo.NewUserRepo(db), auth.NewPasswordHasher(cfg.BcryptCost)),
		Tokens:      tokens,
		ErrorWriter: errs,
	}
	forumHandler := &handlers.ForumHandler{
		Forums:      service.NewForumService(db, cfg.ForumOwnerOnly),
		Audit:       audit,
		ErrorWriter: errs,
	}
	commentHandler := &handlers.CommentHandler{
		Comments:    service.NewCommentService(db),
		Audit:       audit,
		ErrorWriter: errs,
	}
	auditHandler := &handlers.AuditHandler{Repo: audit, ErrorWriter: errs}
	healthHandler := &handlers.HealthHandler{DB: db}

	requireAuth := middleware.JWTMiddleware(tokens)
	limitBody := middleware.MaxBytes(middleware.DefaultMaxBodyBytes)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "route not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(authLimiter.Middleware, limitBody).Post("/signup", authHandler.Signup)
		r.With(authLimiter.Middleware, limitBody).Post("/login", authHandler.Login)
		r.With(requireAuth).Get("/profile", authHandler.Profile)
	})

	r.Route("/forums", func(r chi.Router) {
		r.Get("/", forumHandler.ListForums)
		r.Get("/{id}", forumHandler.GetForum)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, limitBody)
			r.Post("/", forumHandler.CreateForum)
			r.Put("/{id}", forumHandler.UpdateForum)
			r.Delete("/{id}", forumHandler.DeleteForum)
		})
	})

	// GET takes a forum id, DELETE a comment id.
	r.Route("/comments", func(r chi.Router) {
		r.Get("/{id}", commentHandler.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, limitBody)
			r.Post("/", commentHandler.CreateComment)
			r.Delete("/{id}", commentHandler.DeleteComment)
		})
	})

	r.With(requireAuth).Get("/audit", auditHandler.ListAudit)

	return r
}
