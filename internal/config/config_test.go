package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTPAddr != ":8081" {
		t.Fatalf("expected default addr, got %q", cfg.App.HTTPAddr)
	}
	if cfg.Security.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected default access ttl, got %v", cfg.Security.AccessTokenTTL)
	}
	if cfg.Security.RefreshTokenTTL != 168*time.Hour {
		t.Fatalf("expected default refresh ttl, got %v", cfg.Security.RefreshTokenTTL)
	}
}

func TestLoad_ParsesDurationStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "app": {"env": "prod", "http_addr": ":9090"},
  "security": {
    "jwt_secret": "s3cret",
    "access_token_ttl": "15m",
    "refresh_token_ttl": "72h"
  }
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Env != "prod" || cfg.App.HTTPAddr != ":9090" {
		t.Fatalf("unexpected app config: %+v", cfg.App)
	}
	if cfg.Security.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m, got %v", cfg.Security.AccessTokenTTL)
	}
	if cfg.Security.RefreshTokenTTL != 72*time.Hour {
		t.Fatalf("expected 72h, got %v", cfg.Security.RefreshTokenTTL)
	}
	// 未设置的字段回落到默认值
	if cfg.Security.AuthRateLimit != 3 {
		t.Fatalf("expected default rate limit, got %v", cfg.Security.AuthRateLimit)
	}
	if cfg.MySQL.DSN == "" {
		t.Fatalf("expected default DSN")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_HTTP_ADDR", ":7070")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTPAddr != ":7070" {
		t.Fatalf("expected env addr, got %q", cfg.App.HTTPAddr)
	}
	if cfg.Security.JWTSecret != "env-secret" {
		t.Fatalf("expected env jwt secret, got %q", cfg.Security.JWTSecret)
	}
	if cfg.Security.AccessTokenTTL != 5*time.Minute {
		t.Fatalf("expected 5m access ttl, got %v", cfg.Security.AccessTokenTTL)
	}
}

func TestLoad_DBHostOverrideRewritesDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "hunter2")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dsn := cfg.MySQL.DSN
	if want := "db.internal:3306"; !strings.Contains(dsn, want) {
		t.Fatalf("expected %q in DSN, got %q", want, dsn)
	}
	if !strings.Contains(dsn, "hunter2") {
		t.Fatalf("expected password in DSN, got %q", dsn)
	}
}
