package web

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	auditStore "gymdesk/internal/adapters/storage/audit"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	"gymdesk/internal/application/orchestrators"
)

// Deps holds everything the handlers need.
type Deps struct {
	Backend     backend.Config // template for the per-request backend clients
	Sessions    middleware.SessionStore
	Audit       auditStore.Store
	Notifier    *orchestrators.StaffNotifier
	Outbox      outboxStore.Store // optional: queued staff notices
	Collector   *perf.Collector
	KioskNotice string // markdown
	Location    *time.Location
}

// Options configures the middleware chain.
type Options struct {
	CSRFKey         []byte
	SecureCookies   bool
	TrustedOrigins  []string
	RateLimitPerSec int
	SlowRequestMs   int
}

// Global dependencies (set by NewMux)
var app *Deps

// timeNow is a variable for testability.
var timeNow = time.Now

// now returns the current time in the gym's timezone.
func now() time.Time {
	if app != nil && app.Location != nil {
		return timeNow().In(app.Location)
	}
	return timeNow()
}

// NewMux wires HTTP handlers for the kiosk and the admin frontend.
// Background work started here stops when ctx is done.
func NewMux(ctx context.Context, d *Deps, opts Options) http.Handler {
	app = d
	middleware.SecureCookies = opts.SecureCookies
	if app.Backend.Collector == nil {
		app.Backend.Collector = d.Collector
	}

	limiter := middleware.NewRateLimiter(opts.RateLimitPerSec, time.Second)
	go limiter.RunSweeper(ctx, time.Minute, 5*time.Minute)

	// Apply middleware: Timing -> RateLimit -> SecurityHeaders -> CSRF -> Auth -> routes
	return middleware.Chain(routes(),
		middleware.Auth(d.Sessions),
		middleware.CSRF(opts.CSRFKey, middleware.CSRFOptions{Secure: opts.SecureCookies, TrustedOrigins: opts.TrustedOrigins}),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(d.Collector, opts.SlowRequestMs),
	)
}

// routes registers every handler. Admin pages sit behind RequireAdmin.
func routes() *http.ServeMux {
	mux := http.NewServeMux()
	static, _ := fs.Sub(assets, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	// Kiosk
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/kiosk", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /kiosk", handleKiosk)
	mux.HandleFunc("POST /kiosk/key", handleKioskKey)
	mux.HandleFunc("POST /kiosk/select", handleKioskSelect)
	mux.HandleFunc("POST /api/kiosk/check", handleKioskCheckAPI)

	// Admin auth
	mux.HandleFunc("GET /admin/login", handleAdminLoginPage)
	mux.HandleFunc("POST /admin/login", handleAdminLogin)
	mux.HandleFunc("POST /admin/logout", handleAdminLogout)

	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAdmin(h))
	}
	admin("GET /admin", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/members", http.StatusSeeOther)
	})
	admin("GET /admin/password", handleAdminPasswordPage)
	admin("POST /admin/password", handleAdminPassword)

	admin("GET /admin/members", handleAdminMembers)
	admin("POST /admin/members/form", handleAdminMemberForm)
	admin("POST /admin/members/{id}/delete", handleAdminMemberDelete)

	admin("GET /admin/deleted", handleAdminDeleted)
	admin("POST /admin/deleted/restore-all", handleAdminRestoreAll)
	admin("POST /admin/deleted/purge-all", handleAdminPurgeAll)
	admin("POST /admin/deleted/{id}/restore", handleAdminRestore)
	admin("POST /admin/deleted/{id}/purge", handleAdminPurge)

	admin("GET /admin/today", handleAdminToday)
	admin("GET /admin/audit", handleAdminAudit)
	admin("GET /admin/api/perf", handleAdminPerf)
	admin("GET /admin/api/outbox", handleAdminOutbox)
	return mux
}
