package server

import (
	"net/http"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/sirdesai22/event-site/internal/config"
	"github.com/sirdesai22/event-site/internal/identity"
	"github.com/sirdesai22/event-site/internal/payments"
	"github.com/sirdesai22/event-site/internal/realtime"
	"github.com/sirdesai22/event-site/internal/workers"
)

type Deps struct {
	DB       *gorm.DB
	Identity *identity.Provider
	Payments payments.PaymentProvider
	Hub      *realtime.Hub
	ES       *es.Client          // optional
	Worker   *workers.FeedWorker // optional, enables DLQ retries
}

type Server struct {
	cfg      config.Config
	db       *gorm.DB
	idp      *identity.Provider
	pay      payments.PaymentProvider
	hub      *realtime.Hub
	es       *es.Client
	worker   *workers.FeedWorker
	sessions *sessions
	upgrader websocket.Upgrader
}

func New(cfg config.Config, d Deps) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, d),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// NewHandler builds the routed, CORS-wrapped API.
func NewHandler(cfg config.Config, d Deps) http.Handler {
	s := &Server{
		cfg:      cfg,
		db:       d.DB,
		idp:      d.Identity,
		pay:      d.Payments,
		hub:      d.Hub,
		es:       d.ES,
		worker:   d.Worker,
		sessions: newSessions(d.Identity),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())

	// public site
	mux.HandleFunc("GET /api/announcements", s.handleBanner)
	mux.HandleFunc("GET /api/settings/register-link", s.handleRegisterLink)
	mux.HandleFunc("GET /api/reference", s.handleReference)
	mux.HandleFunc("POST /api/contact", s.handleSubmitContact)
	mux.HandleFunc("POST /api/register", s.handleSubmitRegistration)
	mux.HandleFunc("GET /api/subscribe/announcements", s.handlePublicStream)
	mux.HandleFunc("POST /webhooks/payments", s.handlePaymentWebhook)

	// moderation console
	mux.HandleFunc("POST /api/admin/login", s.handleLogin)
	mux.HandleFunc("POST /api/admin/logout", s.moderator(s.handleLogout))
	mux.HandleFunc("GET /api/admin/me", s.moderator(s.handleMe))

	mux.HandleFunc("GET /api/admin/contacts", s.moderator(s.handleListContacts))
	mux.HandleFunc("DELETE /api/admin/contacts/{id}", s.moderator(s.handleDeleteContact))
	mux.HandleFunc("GET /api/admin/registrations", s.moderator(s.handleListRegistrations))
	mux.HandleFunc("GET /api/admin/registrations.csv", s.moderator(s.handleExportRegistrations))

	mux.HandleFunc("GET /api/admin/announcements", s.moderator(s.handleListAnnouncements))
	mux.HandleFunc("POST /api/admin/announcements", s.moderator(s.handleAddAnnouncement))
	mux.HandleFunc("PUT /api/admin/announcements/{id}", s.moderator(s.handleUpdateAnnouncement))
	mux.HandleFunc("PATCH /api/admin/announcements/{id}/enabled", s.moderator(s.handleToggleAnnouncement))
	mux.HandleFunc("DELETE /api/admin/announcements/{id}", s.moderator(s.handleDeleteAnnouncement))

	mux.HandleFunc("PUT /api/admin/settings/register-link", s.moderator(s.handleSetRegisterLink))

	mux.HandleFunc("GET /api/admin/team", s.admin(s.handleListTeam))
	mux.HandleFunc("POST /api/admin/team", s.admin(s.handleCreateTeam))

	mux.HandleFunc("GET /api/admin/dlq", s.admin(s.handleListDLQ))
	mux.HandleFunc("POST /api/admin/dlq/{id}/retry", s.admin(s.handleRetryDLQ))

	mux.HandleFunc("GET /api/admin/subscribe/{path...}", s.moderator(s.handleConsoleStream))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return corsMiddleware.Handler(mux)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
