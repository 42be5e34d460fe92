package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"campus-complaints-api/internal/config"
	"campus-complaints-api/internal/meeting"
	"campus-complaints-api/internal/middleware"
	"campus-complaints-api/internal/notify"
	"campus-complaints-api/internal/store"
)

type Handler struct {
	store    *store.Store
	meetings *meeting.Manager
	notifier *notify.Dispatcher
	authCfg  config.AuthConfig
	log      *zap.Logger
}

func New(st *store.Store, meetings *meeting.Manager, notifier *notify.Dispatcher, authCfg config.AuthConfig, log *zap.Logger) *Handler {
	return &Handler{store: st, meetings: meetings, notifier: notifier, authCfg: authCfg, log: log}
}

func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger(h.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondMessage(w, http.StatusOK, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	// login is the brute-force target
	rl := middleware.NewRateLimiter(h.authCfg.LoginRatePerSec, h.authCfg.LoginBurst)
	r.Route("/auth", func(ar chi.Router) {
		ar.With(middleware.RateLimit(rl)).Post("/login", h.Login)
		ar.Post("/refresh", h.Refresh)
		ar.Post("/logout", h.Logout)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Auth(h.authCfg.JWTSecret))

		pr.Route("/meetings", func(mr chi.Router) {
			mr.Post("/", h.CreateMeeting)
			mr.Get("/", h.ListMeetings)
			mr.Get("/{id}", h.GetMeeting)
			mr.Put("/{id}", h.UpdateMeeting)
			mr.Delete("/{id}", h.DeleteMeeting)
		})

		pr.Route("/notifications", func(nr chi.Router) {
			nr.Get("/", h.ListNotifications)
			nr.Get("/unread-count", h.UnreadCount)
			nr.Put("/mark-read", h.MarkRead)
		})

		pr.Route("/complaints", func(cr chi.Router) {
			cr.Post("/", h.CreateComplaint)
			cr.Get("/", h.ListMyComplaints)
		})

		pr.Get("/users", h.SearchUsers)

		pr.Route("/admin", func(adr chi.Router) {
			adr.Use(middleware.RequireAdmin)
			adr.Get("/meetings", h.ListAllMeetings)
			adr.Get("/complaints", h.ListAllComplaints)
			adr.Put("/complaints/{id}", h.UpdateComplaint)
			adr.Post("/users", h.CreateUser)
		})
	})

	return r
}
