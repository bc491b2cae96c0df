package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Load()
	cfg.DatabaseURL = "postgres://localhost/civitec"
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty JWT_SECRET in production")
	}
}

func TestValidatePageSizeBounds(t *testing.T) {
	cfg := validConfig()
	cfg.MaxPageSize = cfg.DefaultPageSize - 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max page size is below default")
	}
}

func TestValidateInviteTTL(t *testing.T) {
	cfg := validConfig()
	cfg.InviteTTL = 10 * time.Minute
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for sub-hour invite TTL")
	}
}
