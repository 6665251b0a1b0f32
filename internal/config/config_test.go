package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_ACCESS_EXPIRATION_MINUTES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":8082" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.AccessTokenTTL != 240*time.Minute {
		t.Fatalf("unexpected access ttl %s", cfg.AccessTokenTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("JWT_ACCESS_EXPIRATION_MINUTES", "15")
	t.Setenv("DEFAULT_WALLET_MONEY", "25")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := FromEnv()
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("unexpected access ttl %s", cfg.AccessTokenTTL)
	}
	if cfg.DefaultWalletMoney != 25 {
		t.Fatalf("unexpected wallet %d", cfg.DefaultWalletMoney)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("expected default max conns on parse error, got %d", cfg.DBMaxConns)
	}
}
