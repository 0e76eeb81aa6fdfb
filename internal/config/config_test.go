package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("expected 30m access token TTL, got %s", cfg.AccessTokenTTL)
	}
	if cfg.EmailProvider != "stub" {
		t.Errorf("expected stub email provider, got %s", cfg.EmailProvider)
	}
	if !cfg.FollowUpAutomation {
		t.Error("expected follow-up automation enabled by default")
	}
	if !cfg.UseMemoryQueue {
		t.Error("expected memory queue by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("FOLLOWUP_POLL_INTERVAL", "15s")
	t.Setenv("FOLLOWUP_AUTOMATION", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Errorf("expected normalized sendgrid, got %s", cfg.EmailProvider)
	}
	if cfg.FollowUpPollInterval != 15*time.Second {
		t.Errorf("expected 15s poll interval, got %s", cfg.FollowUpPollInterval)
	}
	if cfg.FollowUpAutomation {
		t.Error("expected automation disabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetEnvAsDurationInvalid(t *testing.T) {
	t.Setenv("FOLLOWUP_POLL_INTERVAL", "not-a-duration")
	cfg := Load()
	if cfg.FollowUpPollInterval != time.Minute {
		t.Errorf("expected fallback to 1m, got %s", cfg.FollowUpPollInterval)
	}
}
