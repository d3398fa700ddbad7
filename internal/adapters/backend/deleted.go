package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DeletedService manages soft-deleted members.
type DeletedService struct {
	c *Client
}

// Deleted returns the recovery façade over c.
func (c *Client) Deleted() *DeletedService {
	return &DeletedService{c: c}
}

func deletedPath(id int64) string {
	return "deleted-members/" + strconv.FormatInt(id, 10)
}

// List fetches one page of soft-deleted members.
// PRE: page >= 1, size >= 1
func (s *DeletedService) List(ctx context.Context, search string, page, size int) (MemberPage, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("size", strconv.Itoa(size))
	if q := strings.TrimSpace(search); q != "" {
		v.Set("search", q)
	}
	var resp pageResponse
	if err := s.c.do(ctx, http.MethodGet, "deleted-members/", v, nil, &resp); err != nil {
		return MemberPage{}, fmt.Errorf("list deleted members: %w", err)
	}
	return resp.toPage(s.c.loc, page, size), nil
}

// Restore brings one member back into the active list.
func (s *DeletedService) Restore(ctx context.Context, id int64) (string, error) {
	var resp statusResponse
	if err := s.c.do(ctx, http.MethodPost, deletedPath(id)+"/restore", nil, nil, &resp); err != nil {
		return "", fmt.Errorf("restore member %d: %w", id, err)
	}
	return resp.Message, nil
}

// RestoreAll restores every soft-deleted member.
func (s *DeletedService) RestoreAll(ctx context.Context) (string, error) {
	var resp statusResponse
	if err := s.c.do(ctx, http.MethodPost, "deleted-members/restore-all", nil, nil, &resp); err != nil {
		return "", fmt.Errorf("restore all members: %w", err)
	}
	return resp.Message, nil
}

// Purge permanently deletes one soft-deleted member.
func (s *DeletedService) Purge(ctx context.Context, id int64) (string, error) {
	var resp statusResponse
	if err := s.c.do(ctx, http.MethodDelete, deletedPath(id), nil, nil, &resp); err != nil {
		return "", fmt.Errorf("purge member %d: %w", id, err)
	}
	return resp.Message, nil
}

// PurgeAll permanently deletes every soft-deleted member.
func (s *DeletedService) PurgeAll(ctx context.Context) (string, error) {
	var resp statusResponse
	if err := s.c.do(ctx, http.MethodDelete, "deleted-members/", nil, nil, &resp); err != nil {
		return "", fmt.Errorf("purge all members: %w", err)
	}
	return resp.Message, nil
}
