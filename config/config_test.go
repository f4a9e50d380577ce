package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SITE_URL", "")
	t.Setenv("MAX_RETRIES", "not-a-number")

	cfg := Load()
	if cfg.SiteURL != "http://steamrmt.com/skinbuy.html" {
		t.Errorf("SiteURL: got %q", cfg.SiteURL)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries: got %d, want fallback 3", cfg.MaxRetries)
	}
	if !strings.Contains(cfg.DSN(), "dbname=skinbuy") {
		t.Errorf("DSN: got %q", cfg.DSN())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x?sslmode=disable")
	t.Setenv("FCM_DRY_RUN", "true")
	t.Setenv("NOTIFY_RATE_PER_SEC", "2.5")

	cfg := Load()
	if cfg.DSN() != "postgres://u:p@db:5432/x?sslmode=disable" {
		t.Errorf("DSN should prefer DATABASE_URL, got %q", cfg.DSN())
	}
	if !cfg.FCMDryRun {
		t.Error("FCMDryRun should be true")
	}
	if cfg.NotifyRatePerSec != 2.5 {
		t.Errorf("NotifyRatePerSec: got %v, want 2.5", cfg.NotifyRatePerSec)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{SiteURL: "http://example.com", FetchTimeoutSec: 10}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.FCMServerKey = "key"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must be set together") {
		t.Errorf("expected pairing error, got %v", err)
	}

	cfg.FCMRegistrationID = "device"
	if !cfg.NotificationsEnabled() {
		t.Error("notifications should be enabled with both credentials")
	}
}
