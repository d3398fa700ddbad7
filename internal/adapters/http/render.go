package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/domain/kiosk"
	"gymdesk/internal/domain/period"
)

//go:embed templates/*.html static/*
var assets embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// withParams returns base with the given key/value pairs set on its query.
// Empty values remove the key.
func withParams(base string, kv ...string) template.URL {
	u, err := url.Parse(base)
	if err != nil {
		return template.URL(base)
	}
	q := u.Query()
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			q.Del(kv[i])
			continue
		}
		q.Set(kv[i], kv[i+1])
	}
	u.RawQuery = q.Encode()
	return template.URL(u.String())
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderStatus(w, r, http.StatusOK, templateName, data)
}

// renderStatus renders layout.html plus the named page with the given status code.
func renderStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	funcMap := template.FuncMap{
		"isLoggedIn":     func() bool { return sess.Authenticated() },
		"csrfToken":      func() string { return csrf.Token(r) },
		"renderMarkdown": renderMarkdown,
		"withParams":     withParams,
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
		"str":            func(v any) string { return fmt.Sprint(v) },
		"remaining":      remainingText,
		"keyLabel":       keyLabel,
		"expiryClass": func(s period.ExpiryState) string {
			return "expiry-" + string(s)
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(assets, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// remainingText renders days left for a table cell.
func remainingText(r period.Remaining) string {
	switch {
	case r.Unbounded:
		return "-"
	case r.Expired():
		return "만료"
	case r.Days == 0:
		return "오늘 만료"
	}
	return fmt.Sprintf("%d일", r.Days)
}

var keyLabels = map[string]string{
	kiosk.KeyBack:  "←",
	kiosk.KeyClear: "C",
	kiosk.KeyEnter: "확인",
}

func keyLabel(key string) string {
	if l, ok := keyLabels[key]; ok {
		return l
	}
	return key
}
