// Package router assembles the HTTP surface: chat endpoints, health, and
// Prometheus metrics behind the standard middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/appointbot/appointbot/internal/http/handlers"
	httpmiddleware "github.com/appointbot/appointbot/internal/http/middleware"
	"github.com/appointbot/appointbot/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	ChatHandler    *handlers.ChatHandler
	MetricsHandler http.Handler
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.ChatHandler.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/chat", cfg.ChatHandler.HandleChat)
		api.Route("/sessions/{sessionID}", func(session chi.Router) {
			session.Get("/status", cfg.ChatHandler.HandleStatus)
			session.Get("/transcript", cfg.ChatHandler.HandleTranscript)
		})
	})

	return r
}
