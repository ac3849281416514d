package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/entity"
	"github.com/xavierca1/lead-portal/internal/infra/http/middleware"
)

// Router wires every endpoint. TrustProxyHeaders installs RealIP so rate
// limiting sees the client address reported by the fronting proxy.
type Router struct {
	Auth              *AuthHandler
	Leads             *LeadHandler
	Settings          *SettingsHandler
	Dashboard         *DashboardHandler
	Health            *HealthHandler
	Sessions          middleware.SessionResolver
	AllowedOrigins    []string
	TrustProxyHeaders bool
	Log               logrus.FieldLogger
}

func (rt Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if rt.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if rt.Health != nil {
		r.Get("/health", rt.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/lifecycle", Lifecycle)

	// Login stays outside the session middleware so a stale token held by
	// the client does not block signing in again.
	r.Post("/auth/login", rt.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(rt.Sessions, rt.Log))

		r.With(middleware.RequireSession).Post("/auth/logout", rt.Auth.Logout)
		r.With(middleware.RequireSession).Get("/auth/me", rt.Auth.Me)

		r.Route("/leads", func(r chi.Router) {
			r.Post("/coupon", rt.Leads.RequestCoupon)
			r.Post("/assisted", rt.Leads.RequestAssistedSale)
			r.With(middleware.RequireSession).Get("/mine", rt.Leads.ListMine)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(entity.RoleAdmin))
				r.Get("/", rt.Leads.ListAll)
				r.Patch("/{id}/status", rt.Leads.UpdateStatus)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", rt.Settings.Get)
			r.With(middleware.RequireRole(entity.RoleAdmin)).Put("/", rt.Settings.Update)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.With(middleware.RequireRole(entity.RoleAdmin)).Get("/admin", rt.Dashboard.Admin)
			r.With(middleware.RequireSession).Get("/student", rt.Dashboard.Student)
		})
	})

	return r
}
