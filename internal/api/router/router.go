// Package router assembles the HTTP surface: the chat endpoint, health
// check and Prometheus metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/laylabot/leasing-agent/internal/conversation"
	"github.com/laylabot/leasing-agent/internal/crm"
	httpmiddleware "github.com/laylabot/leasing-agent/internal/http/middleware"
	"github.com/laylabot/leasing-agent/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *conversation.Handler
	LeadsHandler       *crm.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// APIKey guards the back-office lead routes; the chat handler checks
	// it separately. Empty disables the guard.
	APIKey string

	// Per-IP budget for /chat, requests per minute. Zero disables limiting.
	ChatRequestsPerMinute int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	if cfg == nil || cfg.ChatHandler == nil {
		panic("router: chat handler required")
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.ChatHandler.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Group(func(chat chi.Router) {
		if cfg.ChatRequestsPerMinute > 0 {
			chat.Use(httpmiddleware.RateLimit(float64(cfg.ChatRequestsPerMinute)/60, cfg.ChatRequestsPerMinute))
		}
		chat.Post("/chat", cfg.ChatHandler.Chat)
	})

	if cfg.LeadsHandler != nil {
		r.Route("/leads", func(leads chi.Router) {
			leads.Use(requireAPIKey(cfg.APIKey))
			leads.Post("/", cfg.LeadsHandler.SyncLead)
			leads.Get("/{phone}", cfg.LeadsHandler.GetLead)
		})
	}

	return r
}
