package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"gymdesk/internal/domain/filter"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/period"
)

// recorder captures the last request a fake backend saw.
type recorder struct {
	method string
	path   string
	query  url.Values
	body   map[string]any
}

func (rec *recorder) capture(t *testing.T, r *http.Request) {
	t.Helper()
	rec.method = r.Method
	rec.path = r.URL.Path
	rec.query = r.URL.Query()
	rec.body = nil
	data, _ := io.ReadAll(r.Body)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec.body); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}
}

const memberJSON = `{"member_id":42,"member_rank":3,"name":"홍길동","phone_number":"010-1234-5678","gender":"m",
"membership_type":"PT(3개월)","membership_start_date":"2025-01-10","membership_end_date":"2025-04-09",
"locker_number":12,"locker_type":"1개월","locker_start_date":"2025-01-10T00:00:00","locker_end_date":null,
"uniform_type":null,"uniform_start_date":null,"uniform_end_date":null,
"is_active":false,"created_at":"2025-01-10T08:00:00","deleted_at":null,"checkin_time":null,"checkout_time":"2025-03-01T20:00:00"}`

func TestAdmin_Login_StoresToken(t *testing.T) {
	rec := &recorder{}
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.capture(t, r)
		w.Write([]byte(`{"status":"success","token":"tok-1"}`))
	}))

	if err := c.Admin().Login(context.Background(), "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token() != "tok-1" {
		t.Errorf("token = %q", sess.Token())
	}
	if rec.method != http.MethodPost || rec.path != "/api/admin/login" || rec.body["password"] != "secret" {
		t.Errorf("request = %+v", rec)
	}
}

func TestAdmin_Login_NoToken(t *testing.T) {
	c, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	if err := c.Admin().Login(context.Background(), "x"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
	if sess.Token() != "" {
		t.Error("token should stay empty")
	}
}

func TestAdmin_ChangePassword(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.capture(t, r)
		w.Write([]byte(`{"status":"success","message":"비밀번호가 변경되었습니다."}`))
	}))
	msg, err := c.Admin().ChangePassword(context.Background(), "old1", "new2")
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if msg != "비밀번호가 변경되었습니다." || rec.method != http.MethodPut {
		t.Errorf("msg = %q, request = %+v", msg, rec)
	}
	if rec.body["current_password"] != "old1" || rec.body["new_password"] != "new2" {
		t.Errorf("body = %v", rec.body)
	}
}

func TestListValues(t *testing.T) {
	q := filter.Of(filter.TabMemberOrder, filter.TabFemale, filter.TabPT, filter.TabLocker, filter.TabActive).
		Query(" kim ", filter.StatusExpiringSoon, 2)
	v := listValues(q)

	want := map[string]string{
		"page":              "2",
		"size":              "20",
		"search":            "kim",
		"status":            "expiring_soon",
		"gender":            "F",
		"sort_by":           "member_id",
		"membership_filter": "pt",
		"checkin_status":    "active",
		"locker_filter":     "true",
	}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
	if v.Has("uniform_filter") {
		t.Error("uniform_filter should be omitted")
	}
}

func TestAdmin_ListMembers(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.capture(t, r)
		w.Write([]byte(`{"total":41,"members":[` + memberJSON + `]}`))
	}))

	page, err := c.Admin().ListMembers(context.Background(), filter.Default().Query("", "", 3))
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if page.Total != 41 || page.Page != 3 || page.Size != filter.PageSize || len(page.Members) != 1 {
		t.Errorf("page = %+v", page)
	}
	if rec.query.Get("sort_by") != filter.SortMemberDesc {
		t.Errorf("sort_by = %q", rec.query.Get("sort_by"))
	}
}

func TestAdmin_GetMember_Decodes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/members/42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(memberJSON))
	}))

	m, err := c.Admin().GetMember(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if m.Gender != member.GenderMale || m.Rank != 3 || m.Phone != "01012345678" {
		t.Errorf("member = %+v", m)
	}
	if m.Membership == nil || m.Membership.Type != period.PT(period.ThreeMonths) ||
		period.FormatDate(m.Membership.End) != "2025-04-09" {
		t.Errorf("membership = %+v", m.Membership)
	}
	if m.Locker == nil || m.Locker.Number == nil || *m.Locker.Number != 12 {
		t.Fatalf("locker = %+v", m.Locker)
	}
	if period.FormatDate(m.Locker.End) != "2025-02-10" {
		t.Errorf("derived locker end = %s", period.FormatDate(m.Locker.End))
	}
	if m.Uniform != nil {
		t.Errorf("uniform = %+v, want nil", m.Uniform)
	}
	if m.CheckInAt != nil || m.CheckOutAt == nil {
		t.Errorf("check-in/out = %v / %v", m.CheckInAt, m.CheckOutAt)
	}
}

func testForm() member.Form {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, kst)
	ms := member.NewPeriod(period.OneMonth, start)
	return member.Form{
		Name:       " 홍길동 ",
		Phone:      "010-1234-5678",
		Gender:     member.GenderFemale,
		Membership: &ms,
	}
}

func TestAdmin_CreateMember_Payload(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.capture(t, r)
		w.Write([]byte(memberJSON))
	}))

	if _, err := c.Admin().CreateMember(context.Background(), testForm()); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if rec.method != http.MethodPost || rec.path != "/api/admin/members" {
		t.Errorf("request = %s %s", rec.method, rec.path)
	}
	checks := map[string]any{
		"name":                  "홍길동",
		"phone_number":          "01012345678",
		"gender":                "F",
		"membership_type":       "1개월",
		"membership_start_date": "2025-03-01",
		"membership_end_date":   "2025-04-01",
		"locker_type":           nil,
		"uniform_end_date":      nil,
	}
	for k, want := range checks {
		got, ok := rec.body[k]
		if !ok || got != want {
			t.Errorf("%s = %v (present %v), want %v", k, got, ok, want)
		}
	}
	if _, ok := rec.body["locker_number"]; ok {
		t.Error("create payload must not carry locker_number")
	}
}

func TestAdmin_UpdateMember_Payload(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.capture(t, r)
		w.Write([]byte(memberJSON))
	}))
	f := testForm()
	f.ID = 42
	n := 12
	f.Locker = &member.Locker{Period: member.NewPeriod(period.SixMonths, f.Membership.Start), Number: &n}

	if _, err := c.Admin().UpdateMember(context.Background(), f); err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if rec.method != http.MethodPut || rec.path != "/api/admin/members/42" {
		t.Errorf("request = %s %s", rec.method, rec.path)
	}
	if rec.body["locker_number"] != float64(12) || rec.body["locker_end_date"] != "2025-09-01" {
		t.Errorf("body = %v", rec.body)
	}
}

func TestAdmin_DeleteAndCheckIns(t *testing.T) {
	mux := http.NewServeMux()
	var deleted bool
	mux.HandleFunc("DELETE /api/admin/members/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id") == "42"
		w.Write([]byte(`{"status":"success"}`))
	})
	mux.HandleFunc("GET /api/admin/members/{id}/checkins", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"checkins":[
			{"checkin_id":2,"member_id":42,"member_name":"홍길동","checkin_time":"2025-03-02T10:00:00","checkout_time":null,"duration_minutes":null},
			{"checkin_id":1,"member_id":42,"member_name":"홍길동","checkin_time":"2025-03-01T10:00:00","checkout_time":"2025-03-01T11:30:00","duration_minutes":90}]}`))
	})
	mux.HandleFunc("GET /api/admin/today-checkins", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":0,"checkins":[]}`))
	})
	c, _ := newTestClient(t, mux)
	admin := c.Admin()

	if err := admin.DeleteMember(context.Background(), 42); err != nil || !deleted {
		t.Fatalf("DeleteMember: %v (deleted=%v)", err, deleted)
	}
	recs, err := admin.CheckIns(context.Background(), 42)
	if err != nil {
		t.Fatalf("CheckIns: %v", err)
	}
	if len(recs) != 2 || !recs[0].IsOpen() || recs[1].IsOpen() || *recs[1].DurationMinutes != 90 {
		t.Errorf("records = %+v", recs)
	}
	today, err := admin.TodayCheckIns(context.Background())
	if err != nil || len(today) != 0 {
		t.Errorf("TodayCheckIns = %v, %v", today, err)
	}
}

func TestDeleted_Endpoints(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.capture(t, r)
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"total":1,"page":1,"size":20,"members":[` + memberJSON + `]}`))
			return
		}
		w.Write([]byte(`{"status":"success","message":"완료"}`))
	}))
	d := c.Deleted()
	ctx := context.Background()

	page, err := d.List(ctx, " 홍 ", 1, 20)
	if err != nil || page.Total != 1 || rec.query.Get("search") != "홍" {
		t.Fatalf("List = %+v, %v (query %v)", page, err, rec.query)
	}

	calls := []struct {
		name   string
		call   func() (string, error)
		method string
		path   string
	}{
		{"restore", func() (string, error) { return d.Restore(ctx, 5) }, http.MethodPost, "/api/deleted-members/5/restore"},
		{"restore all", func() (string, error) { return d.RestoreAll(ctx) }, http.MethodPost, "/api/deleted-members/restore-all"},
		{"purge", func() (string, error) { return d.Purge(ctx, 5) }, http.MethodDelete, "/api/deleted-members/5"},
		{"purge all", func() (string, error) { return d.PurgeAll(ctx) }, http.MethodDelete, "/api/deleted-members/"},
	}
	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := tt.call()
			if err != nil || msg != "완료" {
				t.Fatalf("msg = %q, err = %v", msg, err)
			}
			if rec.method != tt.method || rec.path != tt.path {
				t.Errorf("request = %s %s, want %s %s", rec.method, rec.path, tt.method, tt.path)
			}
		})
	}
}
