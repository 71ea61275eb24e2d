package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"KHUSHII_ADDR", "KHUSHII_DB", "GOLD_PRICE_URL", "GOLD_PRICE_INTERVAL", "GOLD_PRICE_FALLBACK"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := FromEnv()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Server.DBPath != "khushii.sqlite3" {
		t.Errorf("expected default db path, got %q", cfg.Server.DBPath)
	}
	if cfg.Price.Interval != 24*time.Hour {
		t.Errorf("expected 24h interval, got %v", cfg.Price.Interval)
	}
	if cfg.Price.URL != "" {
		t.Errorf("expected no price URL, got %q", cfg.Price.URL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KHUSHII_ADDR", ":9090")
	t.Setenv("GOLD_PRICE_URL", "https://example.test/gold")
	t.Setenv("GOLD_PRICE_INTERVAL", "1h")
	t.Setenv("GOLD_PRICE_FALLBACK", "6200.50")

	cfg := FromEnv()
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Price.URL != "https://example.test/gold" {
		t.Errorf("unexpected price URL %q", cfg.Price.URL)
	}
	if cfg.Price.Interval != time.Hour {
		t.Errorf("expected 1h, got %v", cfg.Price.Interval)
	}
	if cfg.Price.Fallback != 6200.50 {
		t.Errorf("expected fallback 6200.50, got %v", cfg.Price.Fallback)
	}
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("GOLD_PRICE_INTERVAL", "daily")
	t.Setenv("GOLD_PRICE_FALLBACK", "lots")

	cfg := FromEnv()
	if cfg.Price.Interval != 24*time.Hour {
		t.Errorf("expected default interval, got %v", cfg.Price.Interval)
	}
	if cfg.Price.Fallback != 0 {
		t.Errorf("expected default fallback, got %v", cfg.Price.Fallback)
	}

	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		t.Setenv("GOLD_PRICE_FALLBACK", v)
		if got := FromEnv().Price.Fallback; got != 0 {
			t.Errorf("GOLD_PRICE_FALLBACK=%s: expected default fallback, got %v", v, got)
		}
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("KHUSHII_JWT_ISSUER=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("KHUSHII_JWT_ISSUER", "")
	os.Unsetenv("KHUSHII_JWT_ISSUER")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.JWTIssuer != "from-dotenv" {
		t.Errorf("expected issuer from .env, got %q", cfg.Server.JWTIssuer)
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(); err != nil {
		t.Fatalf("expected missing .env to be fine, got %v", err)
	}
}
