package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/storage"
	auditStore "gymdesk/internal/adapters/storage/audit"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		fatal("db_open_failed", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(4)
	if err := db.Ping(); err != nil {
		fatal("db_unreachable", err)
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		fatal("db_migrate_failed", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	sessions, closeSessions := sessionStore(cfg)
	defer closeSessions()

	var sender email.Sender
	if cfg.Mail.ResendKey != "" {
		sender = email.NewResendSender(cfg.Mail.ResendKey, cfg.Mail.From)
		slog.Info("mail_configured", "provider", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProd() {
			slog.Warn("mail_disabled", "hint", "set GYMDESK_RESEND_KEY for staff notices")
		}
	}
	box := outboxStore.NewSQLiteStore(timedDB)
	notifier := &orchestrators.StaffNotifier{Sender: sender, From: cfg.Mail.From, Outbox: box}
	if cfg.Mail.StaffEmail != "" {
		notifier.To = []string{cfg.Mail.StaffEmail}
	}

	csrfKey, err := cfg.DeriveKey("csrf")
	if err != nil {
		fatal("csrf_key_failed", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := web.NewMux(ctx, &web.Deps{
		Backend: backend.Config{
			BaseURL:  cfg.Backend.BaseURL,
			Timeout:  cfg.Backend.Timeout,
			Location: cfg.Location,
			SlowMs:   cfg.SlowBackendMs,
		},
		Sessions:    sessions,
		Audit:       auditStore.NewSQLiteStore(timedDB),
		Notifier:    notifier,
		Outbox:      box,
		Collector:   collector,
		KioskNotice: cfg.KioskNotice,
		Location:    cfg.Location,
	}, web.Options{
		CSRFKey:         csrfKey,
		SecureCookies:   cfg.IsProd(),
		TrustedOrigins:  cfg.TrustedOrigins,
		RateLimitPerSec: cfg.RateLimitPerSec,
		SlowRequestMs:   cfg.SlowRequestMs,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Backend.Timeout + 10*time.Second,
	}

	stopRetry := orchestrators.StartOutboxRetryScheduler(ctx,
		orchestrators.OutboxRetryDeps{Outbox: box, Sender: sender},
		orchestrators.OutboxRetryInterval)
	defer stopRetry()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown_failed", "error", err)
		}
	}()

	slog.Info("server_starting",
		"version", version,
		"addr", cfg.Addr,
		"env", cfg.Env,
		"backend", cfg.Backend.BaseURL,
		"sessions", cfg.Sessions.Store,
		"schema", storage.LatestSchemaVersion(),
		"secret", cfg.Fingerprint())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal("server_failed", err)
	}
	slog.Info("server_stopped")
}

// sessionStore builds the configured admin session store and its cleanup.
func sessionStore(cfg *config.Config) (middleware.SessionStore, func()) {
	if cfg.Sessions.Store != "redis" {
		return middleware.NewMemoryStore(cfg.Sessions.TTL), func() {}
	}
	opts, err := redis.ParseURL(cfg.Sessions.RedisURL)
	if err != nil {
		fatal("redis_url_invalid", err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fatal("redis_unreachable", err)
	}
	return middleware.NewRedisStore(rdb, cfg.Sessions.TTL), func() { rdb.Close() }
}

func fatal(event string, err error) {
	slog.Error(event, "error", err)
	os.Exit(1)
}
