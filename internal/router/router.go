package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"prepai-backend/internal/handlers"
	"prepai-backend/internal/middleware"
)

func New(
	deckHandler *handlers.DeckHandler,
	authHandler *handlers.AuthHandler,
	frontendURL string,
	generateRPM int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// The generate path is the only one that spends provider quota.
	generateLimiter := middleware.NewRateLimiter(generateRPM, time.Minute)

	r.Get("/health", handlers.Health)

	// ──── OAuth boundary ────
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google", authHandler.GoogleLogin)
		r.Get("/google/callback", authHandler.GoogleCallback)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Group(func(r chi.Router) {
			r.Use(generateLimiter.Middleware)
			r.Post("/generate", deckHandler.Generate)
		})

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.List)
			r.Delete("/{id}", deckHandler.Delete)
			r.Patch("/{id}/progress", deckHandler.UpdateProgress)
		})

		r.Get("/logout", authHandler.Logout)
		r.Get("/current_user", authHandler.CurrentUser)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Route not found"}`))
	})

	return r
}
