package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/parafreq/parafreq-api/internal/api"
	apiMiddleware "github.com/parafreq/parafreq-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		&app.config.Auth,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	paragraphHandler := api.NewParagraphHandler(app.paragraphService)
	searchHandler := api.NewSearchHandler(app.paragraphService)

	loginLimiter := httprate.LimitByIP(
		app.config.Auth.MaxLoginAttempts,
		time.Minute,
	)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public). Login is additionally
		// throttled per IP so credential stuffing across accounts is
		// slowed before the per-account lockout counter engages.
		r.Post("/auth/register", authHandler.Register)
		r.With(loginLimiter).Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/paragraphs", paragraphHandler.SubmitParagraphs)
			r.Get("/paragraphs/{id}", paragraphHandler.GetParagraph)
			r.Get("/search", searchHandler.SearchWord)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
