// Package router sets up all HTTP routes and middleware chains for the
// devfolio API. Routes split into the public site API and the
// authenticated admin console API.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"devfolio/internal/handlers"
	"devfolio/internal/middleware"
	"devfolio/internal/session"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Sessions      *session.Store
	Public        *handlers.Public
	Admin         *handlers.Admin
	Auth          *handlers.Auth
	Media         *handlers.Media
	CORSOrigins   []string
	SecureCookies bool
}

// New creates the configured chi router with all middleware and route
// groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Public site API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", d.Public.Profile)
		r.Get("/projects", d.Public.Projects)
		r.Get("/posts", d.Public.Posts)
		r.Get("/posts/{id}", d.Public.Post)
		r.Get("/services", d.Public.Services)
		r.Get("/cv", d.Public.CV)

		// The contact form is the one public write; keep it hard to spam.
		contactLimit := middleware.NewRateLimiter(5, time.Minute)
		r.With(contactLimit.Middleware).Post("/contact", d.Public.Contact)
	})

	// Admin console API — CSRF protected throughout.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF(d.SecureCookies))

		// Credential endpoints — reachable without a session, rate
		// limited against password guessing.
		loginLimit := middleware.NewRateLimiter(10, time.Minute)
		r.With(loginLimit.Middleware).Post("/login", d.Auth.Login)
		r.Post("/logout", d.Auth.Logout)
		r.Get("/session", d.Auth.Session)

		// 2FA verification — requires a session but NOT settled 2FA,
		// since a pending session is exactly what it settles.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Sessions))
			r.Post("/2fa/verify", d.Auth.Verify2FA)
		})

		// Fully authenticated admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Sessions))
			r.Use(middleware.Require2FA)

			r.Post("/2fa/setup", d.Auth.Setup2FA)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", d.Admin.ListProjects)
				r.Post("/", d.Admin.CreateProject)
				r.Put("/{id}", d.Admin.UpdateProject)
				r.Delete("/{id}", d.Admin.DeleteProject)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", d.Admin.ListPosts)
				r.Post("/", d.Admin.CreatePost)
				r.Put("/{id}", d.Admin.UpdatePost)
				r.Delete("/{id}", d.Admin.DeletePost)
			})

			r.Route("/services", func(r chi.Router) {
				r.Get("/", d.Admin.ListServices)
				r.Post("/", d.Admin.CreateService)
				r.Post("/reorder", d.Admin.ReorderServices)
				r.Put("/{id}", d.Admin.UpdateService)
				r.Delete("/{id}", d.Admin.DeleteService)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", d.Admin.ListMessages)
				r.Get("/unread", d.Admin.UnreadCount)
				r.Put("/{id}/read", d.Admin.MarkMessageRead)
				r.Delete("/{id}", d.Admin.DeleteMessage)
			})

			r.Get("/profile", d.Admin.GetProfile)
			r.Put("/profile", d.Admin.SaveProfile)

			r.Post("/media", d.Media.Upload)
			r.Delete("/media", d.Media.Delete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
