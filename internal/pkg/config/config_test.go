package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const testSecret = "0123456789abcdef0123"

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": testSecret,
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Errorf("expected mongo store, got %q", cfg.StoreDriver)
	}
	if cfg.JWT.TTL != 24*time.Hour {
		t.Errorf("expected 24h ttl, got %s", cfg.JWT.TTL)
	}
	if cfg.JWT.Issuer != "user-auth-service" {
		t.Errorf("unexpected issuer %q", cfg.JWT.Issuer)
	}
	if cfg.Limits.LoginAttempts != 5 || cfg.Limits.Window != 15*time.Minute {
		t.Errorf("unexpected limits: %+v", cfg.Limits)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected redis addr %q", cfg.Redis.Addr)
	}
	if cfg.Redis.PoolSize != 10 || cfg.Mongo.MaxPoolSize != 50 {
		t.Errorf("unexpected pool sizes: redis=%d mongo=%d", cfg.Redis.PoolSize, cfg.Mongo.MaxPoolSize)
	}
	if !cfg.SeedQuestions {
		t.Errorf("expected question seeding enabled by default")
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development env by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         testSecret,
		"STORE_DRIVER":       "sqlite",
		"SQLITE_PATH":        "/tmp/auth.db",
		"JWT_TTL":            "30m",
		"LOGIN_MAX_ATTEMPTS": "3",
		"ENV":                "production",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.StoreDriver != StoreSQLite || cfg.SQLite.Path != "/tmp/auth.db" {
		t.Errorf("unexpected store config: %s %s", cfg.StoreDriver, cfg.SQLite.Path)
	}
	if cfg.JWT.TTL != 30*time.Minute {
		t.Errorf("expected 30m ttl, got %s", cfg.JWT.TTL)
	}
	if cfg.Limits.LoginAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Limits.LoginAttempts)
	}
	if cfg.IsDevelopment() {
		t.Errorf("production must not be development")
	}
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err == nil {
		t.Fatalf("expected error for missing JWT_SECRET")
	}
}

func TestLoadFrom_ShortSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "short",
	}))
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestLoadFrom_UnknownStore(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   testSecret,
		"STORE_DRIVER": "postgres",
	}))
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Fatalf("expected STORE_DRIVER error, got %v", err)
	}
}
