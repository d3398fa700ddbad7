package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gymdesk/internal/adapters/http/perf"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// Config configures a Client. Only BaseURL is required.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	HTTP      *http.Client
	Collector *perf.Collector
	Location  *time.Location
	SlowMs    int
}

// Client is the single gateway to the gym REST backend.
// Every call carries the session's bearer token and is bounded by Timeout.
type Client struct {
	base    string
	timeout time.Duration
	http    *http.Client
	perf    *perf.Collector
	loc     *time.Location
	slowMs  float64
	session Session
	now     func() time.Time
}

// New creates a client bound to one session.
// PRE: cfg.BaseURL is an absolute URL; sess is non-nil
// POST: returned client never retries and never shares token state beyond sess
func New(cfg Config, sess Session) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HTTP == nil {
		cfg.HTTP = http.DefaultClient
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.SlowMs <= 0 {
		cfg.SlowMs = 1000
	}
	if sess == nil {
		sess = &MemorySession{}
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    cfg.HTTP,
		perf:    cfg.Collector,
		loc:     cfg.Location,
		slowMs:  float64(cfg.SlowMs),
		session: sess,
		now:     time.Now,
	}
}

// Session returns the session the client was built with.
func (c *Client) Session() Session {
	return c.session
}

// Location returns the zone naive backend timestamps are read in.
func (c *Client) Location() *time.Location {
	return c.loc
}

// do performs one JSON request.
// body is encoded as JSON when non-nil; out is decoded from a 2xx body when non-nil.
// POST: a 401 clears the session token; transport failures map to ErrTimeout / ErrUnavailable
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token := c.session.Token()
	if token != "" && tokenExpired(token, c.now()) {
		c.session.ClearToken()
		slog.Info("backend_token_expired", "path", path)
		return ErrUnauthorized
	}

	target := c.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.observe(method, path, status, start)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classify(ctx, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.ClearToken()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: extractDetail(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// classify maps a transport error onto the client's error taxonomy.
func classify(ctx context.Context, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// observe logs and records a call timing. Numeric path segments collapse to {id}.
func (c *Client) observe(method, path string, status int, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	route := method + " " + routeOf(path)

	if durationMs >= c.slowMs || status == 0 || status >= 500 {
		slog.Warn("backend_call", "route", route, "status", status, "duration_ms", durationMs)
	} else {
		slog.Debug("backend_call", "route", route, "status", status, "duration_ms", durationMs)
	}

	c.perf.Record(perf.Entry{
		Kind:       perf.KindBackend,
		Path:       route,
		StatusCode: status,
		DurationMs: durationMs,
		Timestamp:  start,
	})
}

func routeOf(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}
