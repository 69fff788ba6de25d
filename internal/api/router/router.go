package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Marser321/punta-360-sub001/internal/dashboard"
	httpmiddleware "github.com/Marser321/punta-360-sub001/internal/http/middleware"
	"github.com/Marser321/punta-360-sub001/internal/leads"
	"github.com/Marser321/punta-360-sub001/internal/properties"
	"github.com/Marser321/punta-360-sub001/internal/webchat"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger            *logging.Logger
	ChatHandler       *webchat.Handler
	LeadsHandler      *leads.Handler
	PropertiesHandler *properties.Handler
	DashboardHandler  *dashboard.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Chat abuse protection (requests/sec per IP; 0 disables).
	ChatRatePerSecond float64
	ChatRateBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)

		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		if cfg.ChatHandler != nil {
			public.Get("/widget.js", cfg.ChatHandler.HandleWidgetJS)
			public.Route("/chat", func(chat chi.Router) {
				if cfg.ChatRatePerSecond > 0 {
					chat.Use(httpmiddleware.RateLimit(cfg.ChatRatePerSecond, cfg.ChatRateBurst))
				}
				chat.Get("/ws", cfg.ChatHandler.HandleWebSocket)
				chat.Post("/message", cfg.ChatHandler.HandleMessage)
				chat.Get("/history", cfg.ChatHandler.HandleHistory)
			})
		}

		if cfg.PropertiesHandler != nil {
			public.Get("/properties", cfg.PropertiesHandler.ListProperties)
			public.Get("/properties/{propertyID}", cfg.PropertiesHandler.GetProperty)
		}
	})

	// Admin endpoints (JWT protected)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

		if cfg.LeadsHandler != nil {
			admin.Get("/leads", cfg.LeadsHandler.ListLeads)
			admin.Get("/leads/unread-count", cfg.LeadsHandler.UnreadCount)
			admin.Get("/leads/{leadID}", cfg.LeadsHandler.GetLead)
			admin.Post("/leads/{leadID}/read", cfg.LeadsHandler.MarkLeadRead)
		}

		if cfg.DashboardHandler != nil {
			admin.Get("/dashboard", cfg.DashboardHandler.GetDashboard)
		}

		if cfg.PropertiesHandler != nil {
			admin.Post("/properties", cfg.PropertiesHandler.CreateProperty)
			admin.Post("/properties/{propertyID}/description", cfg.PropertiesHandler.GenerateDescription)
			admin.Post("/properties/{propertyID}/media", cfg.PropertiesHandler.UploadMedia)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
