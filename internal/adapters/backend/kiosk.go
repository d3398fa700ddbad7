package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/domain/member"
)

// Search statuses returned by the phone lookup.
const (
	SearchSuccess   = "success"
	SearchDuplicate = "duplicate"
	SearchNotFound  = "not_found"
)

// Outcome is the typed result of a check-in or check-out attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeAlreadyInState means the member was already in the target state.
	OutcomeAlreadyInState
	// OutcomeExpired means the backend refused entry because the membership ended.
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAlreadyInState:
		return "already_in_state"
	case OutcomeExpired:
		return "expired"
	}
	return "unknown"
}

// SearchResult is the phone-suffix lookup result.
type SearchResult struct {
	Status  string
	Message string
	Members []member.Member
}

// Warning is an advisory the backend attaches to a successful check-in.
type Warning struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	DaysRemaining *int   `json:"days_remaining"`
}

// CheckResult describes a finished check-in or check-out call.
// At is the recorded check-in or check-out time; it is zero when the call
// did not change state.
type CheckResult struct {
	Outcome       Outcome
	MemberName    string
	At            time.Time
	MembershipEnd *time.Time
	Warnings      []Warning
	Message       string
}

// KioskService is the anonymous kiosk façade.
type KioskService struct {
	c *Client
}

// Kiosk returns the kiosk façade over c.
func (c *Client) Kiosk() *KioskService {
	return &KioskService{c: c}
}

type searchRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type searchResponse struct {
	Status  string       `json:"status"`
	Count   int          `json:"count"`
	Message string       `json:"message"`
	Members []wireMember `json:"members"`
}

// SearchByPhone looks up members whose phone ends in suffix.
// PRE: suffix is four digits (checked by the caller)
// POST: Status is one of SearchSuccess, SearchDuplicate, SearchNotFound
func (s *KioskService) SearchByPhone(ctx context.Context, suffix string) (SearchResult, error) {
	var resp searchResponse
	err := s.c.do(ctx, http.MethodPost, "kiosk/search-by-phone", nil, searchRequest{PhoneNumber: suffix}, &resp)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search by phone: %w", err)
	}
	res := SearchResult{
		Status:  resp.Status,
		Message: resp.Message,
		Members: toMembers(resp.Members, s.c.loc),
	}
	switch {
	case len(res.Members) == 0:
		res.Status = SearchNotFound
	case len(res.Members) == 1:
		res.Status = SearchSuccess
	default:
		res.Status = SearchDuplicate
	}
	return res, nil
}

type memberInfo struct {
	Name              string  `json:"name"`
	MembershipEndDate *string `json:"membership_end_date"`
}

type checkResponse struct {
	Status            string      `json:"status"`
	Message           string      `json:"message"`
	MemberInfo        *memberInfo `json:"member_info"`
	MemberName        string      `json:"member_name"`
	MembershipEndDate *string     `json:"membership_end_date"`
	CheckinTime       *string     `json:"checkin_time"`
	CheckoutTime      *string     `json:"checkout_time"`
	Warnings          []Warning   `json:"warnings"`
}

func (r checkResponse) toResult(loc *time.Location, stamp *string) CheckResult {
	res := CheckResult{
		Outcome:       OutcomeSuccess,
		MemberName:    r.MemberName,
		MembershipEnd: parseDate(r.MembershipEndDate, loc),
		Warnings:      r.Warnings,
		Message:       r.Message,
	}
	if r.MemberInfo != nil {
		if r.MemberInfo.Name != "" {
			res.MemberName = r.MemberInfo.Name
		}
		if end := parseDate(r.MemberInfo.MembershipEndDate, loc); end != nil {
			res.MembershipEnd = end
		}
	}
	if r.Status == "expired" {
		res.Outcome = OutcomeExpired
		return res
	}
	if at := parseTimestamp(stamp, loc); at != nil {
		res.At = *at
	}
	return res
}

// CheckIn records an entry for the member.
// A 400 response is reported as OutcomeAlreadyInState, not as an error.
func (s *KioskService) CheckIn(ctx context.Context, memberID int64) (CheckResult, error) {
	var resp checkResponse
	err := s.c.do(ctx, http.MethodPost, "kiosk/checkin/"+strconv.FormatInt(memberID, 10), nil, nil, &resp)
	if res, ok := conflict(err); ok {
		return res, nil
	}
	if err != nil {
		return CheckResult{}, fmt.Errorf("check in member %d: %w", memberID, err)
	}
	return resp.toResult(s.c.loc, resp.CheckinTime), nil
}

// CheckOut records an exit for the member.
// A 400 response is reported as OutcomeAlreadyInState, not as an error.
func (s *KioskService) CheckOut(ctx context.Context, memberID int64) (CheckResult, error) {
	var resp checkResponse
	err := s.c.do(ctx, http.MethodPost, "kiosk/checkout/"+strconv.FormatInt(memberID, 10), nil, nil, &resp)
	if res, ok := conflict(err); ok {
		return res, nil
	}
	if err != nil {
		return CheckResult{}, fmt.Errorf("check out member %d: %w", memberID, err)
	}
	return resp.toResult(s.c.loc, resp.CheckoutTime), nil
}

// conflict converts a 400 into the already-in-state outcome.
func conflict(err error) (CheckResult, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		return CheckResult{Outcome: OutcomeAlreadyInState, Message: apiErr.Detail}, true
	}
	return CheckResult{}, false
}
