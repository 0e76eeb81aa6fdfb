package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dentalops/leadflow/cmd/mainconfig"
	"github.com/dentalops/leadflow/internal/config"
	"github.com/dentalops/leadflow/internal/followups"
	"github.com/dentalops/leadflow/internal/leads"
	"github.com/dentalops/leadflow/internal/notify"
	"github.com/dentalops/leadflow/pkg/logging"
)

// The worker sweeps the follow-up job table and dispatches everything
// due. It shares storage with the API server, so it requires a real
// database; in-memory mode makes no sense across processes.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required for the follow-up worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	var email notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		email = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		email = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		email = notify.NewStubEmailSender(logger)
	}
	sender := notify.NewDispatcher(email, notify.NewLogSMSSender(logger))

	service := followups.NewService(
		followups.NewTemplateStore(pool),
		followups.NewJobStore(pool),
		leads.NewStore(pool),
		sender,
		cfg.ClinicName,
		logger,
	)

	logger.Info("starting follow-up worker", "poll_interval", cfg.FollowUpPollInterval)
	followups.NewDispatcher(service, cfg.FollowUpPollInterval, logger).Run(ctx)
	logger.Info("follow-up worker stopped")
}
