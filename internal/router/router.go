// Package router sets up all HTTP routes and middleware chains for the
// MarketPress API. It organizes routes into public and authenticated
// groups with explicit middleware composition — nothing is wired through
// ambient global state.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"marketpress/internal/handlers"
	"marketpress/internal/middleware"
	"marketpress/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, content *handlers.Content, auth *handlers.Auth) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Credential endpoints get a tight per-IP rate limit.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter.Middleware)
			r.Post("/register", auth.Register)
			r.Post("/login", auth.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/logout", auth.Logout)
			r.Get("/me", auth.Me)
		})
	})

	r.Route("/api/content", func(r chi.Router) {
		// Public reads.
		r.Get("/", content.List)
		r.Get("/{path}", content.Detail)
		r.Get("/{path}/reviews", content.Reviews)

		// Authenticated mutations.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", content.Create)
			r.Post("/image", content.ImageUpload)
			r.Post("/deleteimg", content.ImageDelete)
			r.Get("/{path}/edit", content.EditForm)
			r.Post("/{path}/edit", content.EditSubmit)
			r.Delete("/{path}", content.Delete)
			r.Post("/{path}/reviews", content.ReviewCreate)
		})
	})

	r.Get("/api/categories", content.Categories)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
