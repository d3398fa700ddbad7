package config_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"gymdesk/internal/config"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

// TestFromEnv_Defaults tests the zero-configuration startup.
func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := config.FromEnv(envMap(nil))
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Backend.BaseURL != config.DefaultBackendURL {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Location.String() != config.DefaultTimezone {
		t.Errorf("Location = %v", cfg.Location)
	}
	if cfg.Sessions.Store != "memory" || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Sessions.Store = %q, LogLevel = %v", cfg.Sessions.Store, cfg.LogLevel)
	}
	if len(cfg.Secret) != 32 {
		t.Errorf("random secret has %d bytes", len(cfg.Secret))
	}
	if len(cfg.TrustedOrigins) != 2 || cfg.TrustedOrigins[0] != "localhost:8080" {
		t.Errorf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
}

// TestFromEnv_Overrides tests explicit values and validation.
func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := config.FromEnv(envMap(map[string]string{
		"GYMDESK_BACKEND_URL":     "https://api.gym.example/api/",
		"GYMDESK_BACKEND_TIMEOUT": "3s",
		"GYMDESK_SECRET":          "s3cret",
		"GYMDESK_LOG_LEVEL":       "debug",
		"GYMDESK_SESSION_STORE":   "redis",
		"GYMDESK_ENV":             "production",
	}))
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.gym.example/api" {
		t.Errorf("trailing slash not trimmed: %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 3*time.Second || !cfg.IsProd() || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("cfg = %+v", cfg)
	}

	bad := []map[string]string{
		{"GYMDESK_ENV": "staging"},
		{"GYMDESK_SESSION_STORE": "memcached"},
		{"GYMDESK_BACKEND_TIMEOUT": "ten"},
		{"GYMDESK_SLOW_REQUEST_MS": "-1"},
		{"GYMDESK_TIMEZONE": "Mars/Olympus"},
	}
	for _, env := range bad {
		if _, err := config.FromEnv(envMap(env)); err == nil {
			t.Errorf("FromEnv(%v) expected error", env)
		}
	}

	_, err = config.FromEnv(envMap(map[string]string{"GYMDESK_ENV": "production"}))
	if !errors.Is(err, config.ErrMissingSecret) {
		t.Errorf("production without secret error = %v", err)
	}
}

// TestDeriveKey tests purpose separation of derived keys.
func TestDeriveKey(t *testing.T) {
	cfg, err := config.FromEnv(envMap(map[string]string{"GYMDESK_SECRET": "master"}))
	if err != nil {
		t.Fatal(err)
	}
	a1, _ := cfg.DeriveKey("csrf")
	a2, _ := cfg.DeriveKey("csrf")
	b, _ := cfg.DeriveKey("session")
	if len(a1) != 32 || !bytes.Equal(a1, a2) {
		t.Error("derivation must be deterministic and 32 bytes")
	}
	if bytes.Equal(a1, b) {
		t.Error("different purposes must yield different keys")
	}
	if len(cfg.Fingerprint()) != 8 {
		t.Errorf("Fingerprint() = %q", cfg.Fingerprint())
	}
}
