package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/application/projections"
	domainAudit "gymdesk/internal/domain/audit"
	domainOutbox "gymdesk/internal/domain/outbox"
)

const (
	msgTodayFailed = "오늘 출입 기록을 불러오지 못했습니다."
	msgAuditFailed = "감사 기록을 불러오지 못했습니다."
)

type todayPage struct {
	projections.GetTodayCheckInsResult
	Error string
}

// handleAdminToday handles GET /admin/today
func handleAdminToday(w http.ResponseWriter, r *http.Request) {
	client, _ := adminClient(r)
	res, err := projections.QueryGetTodayCheckIns(r.Context(),
		projections.GetTodayCheckInsDeps{Today: client.Admin(), Now: now})
	page := todayPage{GetTodayCheckInsResult: res}
	if err != nil {
		if sessionLost(w, r, err) {
			return
		}
		page.Error = backend.Message(err, msgTodayFailed)
		page.Date = now().Format("2006-01-02")
	}
	renderTemplate(w, r, "admin_today.html", page)
}

type auditPage struct {
	Events     []domainAudit.Event
	Category   string
	Action     string
	Severity   string
	Days       int
	Categories []domainAudit.Category
	Severities []domainAudit.Severity
	Limit      int
	Error      string
}

// handleAdminAudit handles GET /admin/audit
func handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("days"))
	page := auditPage{
		Action:     q.Get("action"),
		Days:       days,
		Categories: []domainAudit.Category{domainAudit.CategoryAuth, domainAudit.CategoryMember, domainAudit.CategoryRecovery},
		Severities: []domainAudit.Severity{domainAudit.SeverityInfo, domainAudit.SeverityWarning, domainAudit.SeverityCritical},
		Limit:      projections.AuditTrailLimit,
	}
	if app.Audit == nil {
		renderTemplate(w, r, "admin_audit.html", page)
		return
	}
	res, err := projections.QueryGetAuditTrail(r.Context(), projections.GetAuditTrailQuery{
		Category: q.Get("category"),
		Action:   q.Get("action"),
		Severity: q.Get("severity"),
		Days:     days,
	}, projections.GetAuditTrailDeps{Audit: app.Audit, Now: now})
	if err != nil {
		slog.Error("audit_query_failed", "error", err)
		page.Error = msgAuditFailed
	}
	page.Events = res.Events
	page.Category = string(res.Filter.Category)
	page.Severity = string(res.Filter.Severity)
	renderTemplate(w, r, "admin_audit.html", page)
}

// handleAdminPerf handles GET /admin/api/perf.
// ?minutes= bounds the window (default 15); ?top= caps the per-route list (default 10).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	top, err := strconv.Atoi(r.URL.Query().Get("top"))
	if err != nil || top <= 0 {
		top = 10
	}
	if app.Collector == nil {
		writeJSON(w, http.StatusOK, perf.Snapshot{})
		return
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, app.Collector.Snapshot(since, top))
}

// handleAdminOutbox handles GET /admin/api/outbox.
// ?status=pending lists queued notices; anything else lists the failed ones.
// ?limit= caps the list (default 50, max 100).
func handleAdminOutbox(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}
	entries := []domainOutbox.Entry{}
	if app.Outbox == nil {
		writeJSON(w, http.StatusOK, entries)
		return
	}
	var listed []domainOutbox.Entry
	if r.URL.Query().Get("status") == domainOutbox.StatusPending {
		listed, err = app.Outbox.ListPending(r.Context(), limit)
	} else {
		listed, err = app.Outbox.ListFailed(r.Context(), limit)
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, append(entries, listed...))
}
