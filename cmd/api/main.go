package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/dentalops/leadflow/cmd/mainconfig"
	"github.com/dentalops/leadflow/internal/api/router"
	"github.com/dentalops/leadflow/internal/appointments"
	"github.com/dentalops/leadflow/internal/auth"
	"github.com/dentalops/leadflow/internal/config"
	"github.com/dentalops/leadflow/internal/dashboard"
	"github.com/dentalops/leadflow/internal/events"
	"github.com/dentalops/leadflow/internal/followups"
	"github.com/dentalops/leadflow/internal/integrations"
	"github.com/dentalops/leadflow/internal/leads"
	"github.com/dentalops/leadflow/internal/notify"
	"github.com/dentalops/leadflow/internal/observability/metrics"
	"github.com/dentalops/leadflow/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		if cfg.Env != "development" {
			logger.Error("JWT_SECRET is required outside development")
			os.Exit(1)
		}
		logger.Warn("JWT_SECRET not set, using insecure development secret")
		jwtSecret = "insecure-dev-secret"
	}

	ctx := context.Background()

	// Storage. Postgres when DATABASE_URL is set, in-memory otherwise so
	// the API can run standalone for demos and local frontend work.
	var (
		leadRepo     leads.Repository
		apptRepo     appointments.Repository
		templateRepo followups.TemplateRepository
		jobRepo      followups.JobRepository
		userRepo     auth.UserRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		authDB, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open auth database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = authDB.Close() }()

		leadRepo = leads.NewStore(pool)
		apptRepo = appointments.NewStore(pool)
		templateRepo = followups.NewTemplateStore(pool)
		jobRepo = followups.NewJobStore(pool)
		userRepo = auth.NewUserStore(authDB)
		logger.Info("using postgres storage")
	} else {
		leadRepo = leads.NewInMemoryRepository()
		apptRepo = appointments.NewInMemoryRepository()
		templateRepo = followups.NewInMemoryTemplateRepository()
		jobRepo = followups.NewInMemoryJobRepository()
		userRepo = seedUserRepository(cfg, logger)
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Lead list cache. Optional; the cache type is nil-safe.
	var leadCache *leads.Cache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, continuing without lead cache", "error", err)
		} else {
			leadCache = leads.NewCache(rdb, cfg.LeadsCacheTTL, logger)
			logger.Info("lead cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.LeadsCacheTTL)
		}
	}

	sender, awsNeeded := buildSender(cfg, logger)
	var awsClients struct {
		ses *sesv2.Client
		sqs *sqs.Client
	}
	if awsNeeded || (!cfg.UseMemoryQueue && cfg.IntegrationQueueURL != "") {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		awsClients.ses = sesv2.NewFromConfig(awsCfg)
		awsClients.sqs = sqs.NewFromConfig(awsCfg)
	}
	if cfg.EmailProvider == "ses" {
		sender.email = notify.NewSESSender(awsClients.ses, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	}
	dispatcher := notify.NewDispatcher(sender.email, sender.sms)

	// Integration event stream.
	var publisher integrations.Publisher
	if !cfg.UseMemoryQueue && cfg.IntegrationQueueURL != "" {
		publisher = integrations.NewSQSPublisher(awsClients.sqs, cfg.IntegrationQueueURL, logger)
		logger.Info("publishing integration events to SQS", "queue", cfg.IntegrationQueueURL)
	} else {
		publisher = integrations.NewMemoryPublisher()
	}

	// Metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	httpMetrics := metrics.NewHTTPMetrics(reg)
	workflow := metrics.NewWorkflowMetrics(reg)

	// Services and handlers.
	issuer := auth.NewTokenIssuer(jwtSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authHandler := auth.NewHandler(userRepo, issuer, logger)

	leadsHandler := leads.NewHandler(leadRepo, leadCache, logger)
	apptHandler := appointments.NewHandler(apptRepo, logger)

	service := followups.NewService(templateRepo, jobRepo, leadRepo, dispatcher, cfg.ClinicName, logger)
	followUpsHandler := followups.NewHandler(templateRepo, jobRepo, service, logger)

	dashboardHandler := dashboard.NewHandler(leadRepo, apptRepo, jobRepo, logger)
	integrationsHandler := integrations.NewHandler(connectors(cfg))

	// Intake listeners: automation, events and metrics hang off lead
	// creation rather than living inside the handler.
	if cfg.FollowUpAutomation {
		leadsHandler.OnCreated(func(lead *leads.Lead) {
			service.AutoSchedule(context.Background(), lead)
		})
	}
	leadsHandler.OnCreated(func(lead *leads.Lead) {
		workflow.ObserveLeadCreated(string(lead.QualificationStatus))
		env, err := events.Wrap(events.TypeLeadCreated, events.LeadCreatedV1{
			EventID:             uuid.NewString(),
			LeadID:              lead.ID,
			FirstName:           lead.FirstName,
			LastName:            lead.LastName,
			Email:               lead.Email,
			Phone:               lead.Phone,
			QualificationStatus: string(lead.QualificationStatus),
			QualificationScore:  lead.QualificationScore,
			Tags:                lead.Tags,
			SubmittedAt:         lead.SubmittedAt,
		})
		if err != nil {
			logger.Error("failed to build lead.created event", "error", err)
			return
		}
		if err := publisher.Publish(context.Background(), env); err != nil {
			logger.Error("failed to publish lead.created event", "error", err, "lead", lead.ID)
		}
	})

	apptHandler.OnBooked(func(appt *appointments.Appointment) {
		leadID := ""
		if appt.LeadID != nil {
			leadID = *appt.LeadID
		}
		env, err := events.Wrap(events.TypeAppointmentBooked, events.AppointmentBookedV1{
			EventID:     uuid.NewString(),
			Appointment: appt.ID,
			LeadID:      leadID,
			Date:        appt.Date,
			StartTime:   appt.StartTime,
			Service:     appt.Service,
		})
		if err != nil {
			logger.Error("failed to build appointment.booked event", "error", err)
			return
		}
		if err := publisher.Publish(context.Background(), env); err != nil {
			logger.Error("failed to publish appointment.booked event", "error", err)
		}
	})

	service.OnScheduled(func(*followups.Job) { workflow.ObserveFollowUpScheduled() })
	service.OnSent(func(job *followups.Job) {
		workflow.ObserveFollowUpSent(string(job.Channel))
		sentAt := time.Now().UTC()
		if job.SentAt != nil {
			sentAt = *job.SentAt
		}
		env, err := events.Wrap(events.TypeFollowUpSent, events.FollowUpSentV1{
			EventID:    uuid.NewString(),
			JobID:      job.ID,
			LeadID:     job.LeadID,
			TemplateID: job.TemplateID,
			Channel:    string(job.Channel),
			SentAt:     sentAt,
		})
		if err != nil {
			logger.Error("failed to build followup.sent event", "error", err)
			return
		}
		if err := publisher.Publish(context.Background(), env); err != nil {
			logger.Error("failed to publish followup.sent event", "error", err, "job", job.ID)
		}
	})

	r := router.New(&router.Config{
		Logger:              logger,
		AuthHandler:         authHandler,
		TokenVerifier:       issuer,
		LeadsHandler:        leadsHandler,
		AppointmentsHandler: apptHandler,
		FollowUpsHandler:    followUpsHandler,
		DashboardHandler:    dashboardHandler,
		IntegrationsHandler: integrationsHandler,
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		MetricsMiddleware:   httpMetrics.Middleware,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		IntakeRateLimit:     cfg.IntakeRateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

type senderPair struct {
	email notify.EmailSender
	sms   notify.SMSSender
}

// buildSender selects outbound transports from configuration. SES is
// finished later in main because it needs an AWS client; the second
// return reports whether one is required.
func buildSender(cfg *config.Config, logger *logging.Logger) (senderPair, bool) {
	pair := senderPair{sms: notify.NewLogSMSSender(logger)}
	switch cfg.EmailProvider {
	case "sendgrid":
		pair.email = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		return pair, false
	case "ses":
		return pair, true
	default:
		pair.email = notify.NewStubEmailSender(logger)
		return pair, false
	}
}

// seedUserRepository backs auth in demo mode with a single account from
// ADMIN_USERNAME / ADMIN_PASSWORD.
func seedUserRepository(cfg *config.Config, logger *logging.Logger) auth.UserRepository {
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		logger.Error("failed to hash admin password", "error", err)
		os.Exit(1)
	}
	logger.Warn("seeded in-memory admin account", "username", cfg.AdminUsername)
	return auth.NewInMemoryUserRepository(&auth.User{
		ID:           1,
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
	})
}

// connectors describes the outbound surfaces the dashboard shows on the
// integrations page.
func connectors(cfg *config.Config) []integrations.Connector {
	return []integrations.Connector{
		{Name: "SendGrid", Kind: "email", Provider: "sendgrid", Enabled: cfg.EmailProvider == "sendgrid"},
		{Name: "Amazon SES", Kind: "email", Provider: "ses", Enabled: cfg.EmailProvider == "ses"},
		{Name: "SMS Log", Kind: "sms", Provider: "log", Enabled: cfg.SMSProvider == "log"},
		{Name: "Event Queue", Kind: "queue", Provider: "sqs", Enabled: !cfg.UseMemoryQueue && cfg.IntegrationQueueURL != ""},
	}
}
