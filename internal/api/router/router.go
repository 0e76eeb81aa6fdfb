package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dentalops/leadflow/internal/appointments"
	"github.com/dentalops/leadflow/internal/auth"
	"github.com/dentalops/leadflow/internal/dashboard"
	"github.com/dentalops/leadflow/internal/followups"
	httpmiddleware "github.com/dentalops/leadflow/internal/http/middleware"
	"github.com/dentalops/leadflow/internal/integrations"
	"github.com/dentalops/leadflow/internal/leads"
	"github.com/dentalops/leadflow/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	AuthHandler         *auth.Handler
	TokenVerifier       httpmiddleware.TokenVerifier
	LeadsHandler        *leads.Handler
	AppointmentsHandler *appointments.Handler
	FollowUpsHandler    *followups.Handler
	DashboardHandler    *dashboard.Handler
	IntegrationsHandler *integrations.Handler
	MetricsHandler      http.Handler
	MetricsMiddleware   func(http.Handler) http.Handler
	CORSAllowedOrigins  []string

	// Requests/sec allowed per IP on the public intake endpoint.
	// Zero disables rate limiting.
	IntakeRateLimit float64
}

// New creates a chi router with all routes configured. The public group
// carries the intake form, auth and health endpoints; everything under
// /api except the intake requires a bearer access token.
func New(cfg *Config) http.Handler {
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
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware)
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			public.Post("/token/", cfg.AuthHandler.Token)
			public.Post("/token/refresh/", cfg.AuthHandler.RefreshToken)
		}
		intake := public
		if cfg.IntakeRateLimit > 0 {
			intake = public.With(httpmiddleware.RateLimit(cfg.IntakeRateLimit, int(cfg.IntakeRateLimit)*2))
		}
		intake.Post("/api/lead/", cfg.LeadsHandler.CreateLead)
	})

	// Dashboard endpoints behind JWT auth.
	r.Group(func(private chi.Router) {
		if cfg.TokenVerifier != nil {
			private.Use(httpmiddleware.RequireAuth(cfg.TokenVerifier))
		}

		private.Route("/api/leads", func(r chi.Router) {
			r.Get("/", cfg.LeadsHandler.ListLeads)
			r.Patch("/{id}/", cfg.LeadsHandler.PatchLead)
		})

		private.Route("/api/appointments", func(r chi.Router) {
			r.Get("/", cfg.AppointmentsHandler.ListAppointments)
			r.Post("/", cfg.AppointmentsHandler.CreateAppointment)
			r.Get("/calendar/", cfg.AppointmentsHandler.Calendar)
			r.Patch("/{id}/status/", cfg.AppointmentsHandler.UpdateStatus)
		})

		private.Route("/api/followups", func(r chi.Router) {
			r.Get("/templates/", cfg.FollowUpsHandler.ListTemplates)
			r.Post("/templates/", cfg.FollowUpsHandler.CreateTemplate)
			r.Patch("/templates/{id}/", cfg.FollowUpsHandler.PatchTemplate)
			r.Delete("/templates/{id}/", cfg.FollowUpsHandler.DeleteTemplate)
			r.Get("/jobs/", cfg.FollowUpsHandler.ListJobs)
			r.Post("/jobs/schedule/", cfg.FollowUpsHandler.ScheduleJob)
			r.Post("/jobs/{id}/send_now/", cfg.FollowUpsHandler.SendJobNow)
		})

		if cfg.DashboardHandler != nil {
			private.Get("/api/dashboard/stats/", cfg.DashboardHandler.Stats)
		}
		if cfg.IntegrationsHandler != nil {
			private.Get("/api/integrations/", cfg.IntegrationsHandler.List)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
