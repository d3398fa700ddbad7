package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/hkdf"
)

// Config holds all runtime configuration, read from GYMDESK_* variables.
type Config struct {
	Env             string
	Addr            string
	LogLevel        slog.Level
	Location        *time.Location
	Backend         BackendConfig
	Secret          []byte
	DBPath          string
	Sessions        SessionConfig
	KioskNotice     string
	Mail            MailConfig
	SlowRequestMs   int
	SlowQueryMs     int
	SlowBackendMs   int
	RateLimitPerSec int
	TrustedOrigins  []string
}

// BackendConfig locates the REST backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig selects the admin session store.
type SessionConfig struct {
	Store    string // "memory" or "redis"
	RedisURL string
	TTL      time.Duration
}

// MailConfig configures staff notifications. An empty ResendKey disables delivery.
type MailConfig struct {
	ResendKey  string
	From       string
	StaffEmail string
}

// Defaults
const (
	DefaultBackendURL     = "http://localhost:8000/api"
	DefaultBackendTimeout = 10 * time.Second
	DefaultTimezone       = "Asia/Seoul"
)

var ErrMissingSecret = errors.New("GYMDESK_SECRET is required in production")

// Load reads .env (when present) and the environment.
// PRE: none
// POST: returns a Config with defaults applied, or an error for malformed values
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("config_dotenv_unreadable", "error", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function (os.Getenv in production).
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv("GYMDESK_" + key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Env:         get("ENV", "development"),
		Addr:        get("ADDR", ":8080"),
		DBPath:      get("DB_PATH", "gymdesk.db"),
		KioskNotice: get("KIOSK_NOTICE", ""),
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(get("BACKEND_URL", DefaultBackendURL), "/"),
		},
		Sessions: SessionConfig{
			Store:    get("SESSION_STORE", "memory"),
			RedisURL: get("REDIS_URL", "redis://localhost:6379/0"),
		},
		Mail: MailConfig{
			ResendKey:  get("RESEND_KEY", ""),
			From:       get("MAIL_FROM", "Gym Desk <noreply@gymdesk.local>"),
			StaffEmail: get("STAFF_EMAIL", ""),
		},
	}
	for _, o := range strings.Split(get("TRUSTED_ORIGINS", "localhost:8080,127.0.0.1:8080"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.TrustedOrigins = append(cfg.TrustedOrigins, o)
		}
	}
	if cfg.Env != "development" && cfg.Env != "production" && cfg.Env != "test" {
		return nil, fmt.Errorf("invalid GYMDESK_ENV: %q", cfg.Env)
	}
	if cfg.Sessions.Store != "memory" && cfg.Sessions.Store != "redis" {
		return nil, fmt.Errorf("invalid GYMDESK_SESSION_STORE: %q", cfg.Sessions.Store)
	}

	var err error
	if err = cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid GYMDESK_LOG_LEVEL: %w", err)
	}
	if cfg.Location, err = time.LoadLocation(get("TIMEZONE", DefaultTimezone)); err != nil {
		return nil, fmt.Errorf("invalid GYMDESK_TIMEZONE: %w", err)
	}
	if cfg.Backend.Timeout, err = time.ParseDuration(get("BACKEND_TIMEOUT", DefaultBackendTimeout.String())); err != nil {
		return nil, fmt.Errorf("invalid GYMDESK_BACKEND_TIMEOUT: %w", err)
	}
	if cfg.Sessions.TTL, err = time.ParseDuration(get("SESSION_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("invalid GYMDESK_SESSION_TTL: %w", err)
	}
	for _, n := range []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"SLOW_REQUEST_MS", 200, &cfg.SlowRequestMs},
		{"SLOW_QUERY_MS", 50, &cfg.SlowQueryMs},
		{"SLOW_BACKEND_MS", 1000, &cfg.SlowBackendMs},
		{"RATE_LIMIT", 10, &cfg.RateLimitPerSec},
	} {
		v, err := strconv.Atoi(get(n.key, strconv.Itoa(n.fallback)))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid GYMDESK_%s: must be a positive integer", n.key)
		}
		*n.dst = v
	}

	if secret := get("SECRET", ""); secret != "" {
		cfg.Secret = []byte(secret)
	} else if cfg.IsProd() {
		return nil, ErrMissingSecret
	} else {
		cfg.Secret = make([]byte, 32)
		if _, err := rand.Read(cfg.Secret); err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
		slog.Warn("config_random_secret", "hint", "set GYMDESK_SECRET so forms survive restarts")
	}
	return cfg, nil
}

// IsProd reports whether the server runs in production mode.
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// DeriveKey expands the master secret into a 32-byte key for one purpose.
// PRE: Secret is non-empty
// POST: the same purpose always yields the same key for a given secret
func (c *Config) DeriveKey(purpose string) ([]byte, error) {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, c.Secret, nil, []byte("gymdesk/"+purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}

// Fingerprint returns a short hex digest of the secret for startup logs.
func (c *Config) Fingerprint() string {
	sum := sha256.Sum256(c.Secret)
	return hex.EncodeToString(sum[:4])
}
