package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kazantrip/routegen/internal/api/attractions"
	"github.com/kazantrip/routegen/internal/api/auth"
	"github.com/kazantrip/routegen/internal/api/generation"
	"github.com/kazantrip/routegen/internal/api/routes"
)

// Config carries the handlers and middleware the router wires together.
type Config struct {
	AuthHandler        *auth.Handler
	AttractionsHandler *attractions.Handler
	GenerationHandler  *generation.Handler
	RoutesHandler      *routes.Handler
	Authenticate       func(http.Handler) http.Handler
	OptionalAuth       func(http.Handler) http.Handler
}

// SetupRouter builds the application router. Server-wide middleware
// (request ID, recoverer, logging) is applied in main before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.Refresh)

			r.Get("/attractions", cfg.AttractionsHandler.List)
			r.Get("/attractions/nearby", cfg.AttractionsHandler.Nearby)
			r.Get("/attractions/{id}", cfg.AttractionsHandler.Get)

		})

		// Generation is open to anonymous callers; a valid token, if
		// presented, lets the handler save the result.
		r.Group(func(r chi.Router) {
			r.Use(cfg.OptionalAuth)
			r.Post("/routes/generate", cfg.GenerationHandler.GenerateRoute)
		})

		// JWT-protected routes.
		r.Group(func(r chi.Router) {
			r.Use(cfg.Authenticate)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Get("/routes", cfg.RoutesHandler.List)
			r.Get("/routes/{id}", cfg.RoutesHandler.Get)
			r.Delete("/routes/{id}", cfg.RoutesHandler.Delete)
			r.Post("/routes/{id}/optimize", cfg.RoutesHandler.Optimize)
		})
	})

	return r
}
