package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gymdesk/internal/domain/checkin"
	"gymdesk/internal/domain/filter"
	"gymdesk/internal/domain/member"
)

// ErrNoToken is returned when login succeeds without issuing a token.
var ErrNoToken = errors.New("backend: login returned no token")

// AdminService is the authenticated staff façade.
type AdminService struct {
	c *Client
}

// Admin returns the admin façade over c.
func (c *Client) Admin() *AdminService {
	return &AdminService{c: c}
}

// MemberPage is one page of the member list.
type MemberPage struct {
	Total   int
	Page    int
	Size    int
	Members []member.Member
}

type pageResponse struct {
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	Size    int          `json:"size"`
	Members []wireMember `json:"members"`
}

func (r pageResponse) toPage(loc *time.Location, page, size int) MemberPage {
	p := MemberPage{Total: r.Total, Page: r.Page, Size: r.Size, Members: toMembers(r.Members, loc)}
	if p.Page <= 0 {
		p.Page = page
	}
	if p.Size <= 0 {
		p.Size = size
	}
	return p
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login exchanges the shared staff password for a bearer token.
// POST: on success the client's session holds the token
func (s *AdminService) Login(ctx context.Context, password string) error {
	var resp statusResponse
	body := map[string]string{"password": password}
	if err := s.c.do(ctx, http.MethodPost, "admin/login", nil, body, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return ErrNoToken
	}
	s.c.session.SetToken(resp.Token)
	return nil
}

// ChangePassword replaces the staff password and returns the backend's message.
func (s *AdminService) ChangePassword(ctx context.Context, current, next string) (string, error) {
	var resp statusResponse
	body := map[string]string{"current_password": current, "new_password": next}
	if err := s.c.do(ctx, http.MethodPut, "admin/change-password", nil, body, &resp); err != nil {
		return "", fmt.Errorf("change password: %w", err)
	}
	return resp.Message, nil
}

// listValues encodes a list query. Empty filters are omitted.
func listValues(q filter.Query) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("search", q.Search)
	set("status", q.Status)
	set("gender", q.Gender)
	set("sort_by", q.SortBy)
	set("membership_filter", q.MembershipFilter)
	set("checkin_status", q.CheckInStatus)
	if q.LockerFilter {
		v.Set("locker_filter", "true")
	}
	if q.UniformFilter {
		v.Set("uniform_filter", "true")
	}
	return v
}

// ListMembers fetches one page of members.
func (s *AdminService) ListMembers(ctx context.Context, q filter.Query) (MemberPage, error) {
	var resp pageResponse
	if err := s.c.do(ctx, http.MethodGet, "admin/members", listValues(q), nil, &resp); err != nil {
		return MemberPage{}, fmt.Errorf("list members: %w", err)
	}
	return resp.toPage(s.c.loc, q.Page, q.Size), nil
}

func memberPath(id int64) string {
	return "admin/members/" + strconv.FormatInt(id, 10)
}

// GetMember fetches one member.
func (s *AdminService) GetMember(ctx context.Context, id int64) (member.Member, error) {
	var w wireMember
	if err := s.c.do(ctx, http.MethodGet, memberPath(id), nil, nil, &w); err != nil {
		return member.Member{}, fmt.Errorf("get member %d: %w", id, err)
	}
	return w.toDomain(s.c.loc), nil
}

// CreateMember adds a member from a validated form.
// PRE: f.Validate() == nil && f.IsNew()
func (s *AdminService) CreateMember(ctx context.Context, f member.Form) (member.Member, error) {
	var w wireMember
	if err := s.c.do(ctx, http.MethodPost, "admin/members", nil, newMemberPayload(f), &w); err != nil {
		return member.Member{}, fmt.Errorf("create member: %w", err)
	}
	return w.toDomain(s.c.loc), nil
}

// UpdateMember replaces a member's editable fields.
// PRE: f.Validate() == nil && !f.IsNew()
func (s *AdminService) UpdateMember(ctx context.Context, f member.Form) (member.Member, error) {
	var w wireMember
	if err := s.c.do(ctx, http.MethodPut, memberPath(f.ID), nil, newUpdatePayload(f), &w); err != nil {
		return member.Member{}, fmt.Errorf("update member %d: %w", f.ID, err)
	}
	return w.toDomain(s.c.loc), nil
}

// DeleteMember soft-deletes a member.
func (s *AdminService) DeleteMember(ctx context.Context, id int64) error {
	if err := s.c.do(ctx, http.MethodDelete, memberPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete member %d: %w", id, err)
	}
	return nil
}

type checkInsResponse struct {
	Total    int           `json:"total"`
	CheckIns []wireCheckIn `json:"checkins"`
}

// CheckIns returns a member's attendance history, newest first as the backend orders it.
func (s *AdminService) CheckIns(ctx context.Context, id int64) ([]checkin.Record, error) {
	var resp checkInsResponse
	if err := s.c.do(ctx, http.MethodGet, memberPath(id)+"/checkins", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("member %d check-ins: %w", id, err)
	}
	return toRecords(resp.CheckIns, s.c.loc), nil
}

// TodayCheckIns returns every check-in recorded today.
func (s *AdminService) TodayCheckIns(ctx context.Context) ([]checkin.Record, error) {
	var resp checkInsResponse
	if err := s.c.do(ctx, http.MethodGet, "admin/today-checkins", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("today check-ins: %w", err)
	}
	return toRecords(resp.CheckIns, s.c.loc), nil
}
