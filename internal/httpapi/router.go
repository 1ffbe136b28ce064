package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/booking-assistant/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Chat               *ChatHandler
	Knowledge          *KnowledgeHandler
	Bookings           *BookingsHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Post("/chat", cfg.Chat.Handle)
	if cfg.Knowledge != nil {
		r.Post("/knowledge/documents", cfg.Knowledge.Upload)
	}
	if cfg.Bookings != nil {
		r.Get("/bookings", cfg.Bookings.List)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
