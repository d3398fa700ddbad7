package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Transport and authorization failures. Use errors.Is to test for them.
var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrTimeout      = errors.New("backend: request timed out")
	ErrUnavailable  = errors.New("backend: unreachable")
)

// User-facing fallback texts.
const (
	MsgTimeout     = "서버 응답 시간이 초과되었습니다. 다시 시도해주세요."
	MsgUnavailable = "서버에 연결할 수 없습니다. 네트워크를 확인해주세요."
	MsgGeneric     = "요청을 처리하지 못했습니다.\n프론트 데스크에 문의하세요."
)

// APIError is a non-2xx response from the backend.
// Detail holds the human-readable message extracted from the body, if any.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Detail)
}

// Is lets a 401 APIError match ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == 401
}

// IsTransport reports whether err is a timeout or connectivity failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message turns any client error into text for the operator or member.
// Transport failures get their generic notices; API errors use the backend's
// detail when one was extracted; everything else falls back to fallback
// (or MsgGeneric when fallback is empty).
func Message(err error, fallback string) string {
	if fallback == "" {
		fallback = MsgGeneric
	}
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return MsgTimeout
	case errors.Is(err, ErrUnavailable):
		return MsgUnavailable
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// validationItem is one entry of a FastAPI-style validation error list.
type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// errorBody is the union of error payload shapes the backend produces.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// extractDetail pulls a readable message out of an error response body.
// Accepts {"detail": "..."}, {"detail": [{"loc": [...], "msg": "..."}]} and {"message": "..."}.
// Returns "" when nothing usable is present.
func extractDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var items []validationItem
		if err := json.Unmarshal(eb.Detail, &items); err == nil && len(items) > 0 {
			lines := make([]string, 0, len(items))
			for _, it := range items {
				lines = append(lines, formatLoc(it.Loc)+": "+it.Msg)
			}
			return strings.Join(lines, "\n")
		}
	}
	return strings.TrimSpace(eb.Message)
}

func formatLoc(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, p := range loc {
		switch v := p.(type) {
		case string:
			parts = append(parts, v)
		case float64:
			parts = append(parts, fmt.Sprintf("%d", int(v)))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ".")
}
