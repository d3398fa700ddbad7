package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/drawer"
	"gymdesk/internal/domain/filter"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/period"
)

const membersPath = "/admin/members"

const (
	msgListFailed    = "회원 목록을 불러오지 못했습니다."
	msgMemberMissing = "회원을 찾을 수 없습니다."
	msgDetailFailed  = "회원 정보를 불러오지 못했습니다."
	msgSaveFailed    = "저장에 실패했습니다."
	msgDeleteFailed  = "삭제에 실패했습니다."
	msgBadDate       = "날짜 형식이 올바르지 않습니다."
)

// notices are the flash messages a redirect can request with ?notice=.
var notices = map[string]string{
	"saved":        "회원 정보가 저장되었습니다.",
	"created":      "새 회원이 등록되었습니다.",
	"deleted":      "회원이 삭제되었습니다. 삭제된 회원 메뉴에서 복구할 수 있습니다.",
	"restored":     "회원이 복구되었습니다.",
	"purged":       "회원이 영구 삭제되었습니다.",
	"restored_all": "삭제된 회원을 모두 복구했습니다.",
	"purged_all":   "삭제된 회원을 모두 영구 삭제했습니다.",
}

// formMessages maps drawer form errors onto the text shown above the form.
var formMessages = []struct {
	err error
	msg string
}{
	{member.ErrNameRequired, "이름을 입력해주세요."},
	{member.ErrNameFormat, "이름은 한글 2~10자 또는 영문 2~20자로 입력해주세요."},
	{member.ErrPhoneRequired, "전화번호를 입력해주세요."},
	{member.ErrPhoneFormat, "전화번호는 010으로 시작하는 11자리 숫자여야 합니다."},
	{member.ErrGenderRequired, "성별을 선택해주세요."},
	{member.ErrMembershipRequired, "회원권 종류를 선택해주세요."},
	{member.ErrStartRequired, "시작일을 입력해주세요."},
	{member.ErrIncompleteLocker, "라커룸 종류와 기간을 모두 입력해주세요."},
	{member.ErrIncompleteUniform, "회원복 종류와 기간을 모두 입력해주세요."},
	{member.ErrEndNotDerived, "종료일은 시작일과 기간으로 자동 계산됩니다."},
	{member.ErrTypeNotSelected, "종류를 먼저 선택해주세요."},
	{member.ErrUnknownPeriodLabel, "선택할 수 없는 기간입니다."},
	{member.ErrUnknownResourceKind, "알 수 없는 항목입니다."},
	{errBadDate, msgBadDate},
}

var errBadDate = errors.New("malformed date")

func formMessage(err error) string {
	for _, m := range formMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return backend.Message(err, msgSaveFailed)
}

var statusOptions = []struct{ Value, Label string }{
	{"", "전체 상태"},
	{filter.StatusActive, "활성"},
	{filter.StatusInactive, "비활성"},
	{filter.StatusExpiringSoon, "만료 임박"},
}

type tabLink struct {
	Tab    filter.Tab
	Label  string
	Active bool
	URL    string
}

type resourceOption struct {
	Label    period.Label
	Selected bool
}

type resourceView struct {
	Resource member.Resource
	Title    string
	Options  []resourceOption
	Type     period.Label
	Start    string
	End      string
	Number   string
}

type formView struct {
	ID        int64
	Name      string
	Phone     string
	Gender    member.Gender
	Resources []resourceView
}

type drawerView struct {
	State     drawer.State
	MemberID  int64
	Closing   bool
	Detail    *projections.GetMemberDetailResult
	Form      *formView
	Error     string
	EditURL   string
	CancelURL string
	CloseURL  string
}

type membersPage struct {
	Tabs      []tabLink
	Rows      []projections.MemberRow
	PageInfo  listutil.PageInfo
	Search    string
	Status    string
	Statuses  []struct{ Value, Label string }
	HasTabs   bool
	TabsValue string
	ListQuery string
	ListURL   string
	AddURL    string
	Notice    string
	Error     string
	Drawer    drawerView
}

func location() *time.Location {
	if app != nil && app.Location != nil {
		return app.Location
	}
	return time.Local
}

// listState keeps only the table keys of q: tabs, search, status and page.
func listState(q url.Values) url.Values {
	out := url.Values{}
	for _, k := range []string{"tabs", "q", "status", "page"} {
		if q.Has(k) {
			out.Set(k, q.Get(k))
		}
	}
	return out
}

func cloneValues(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func membersURL(q url.Values) string {
	if len(q) == 0 {
		return membersPath
	}
	return membersPath + "?" + q.Encode()
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// handleAdminMembers handles GET /admin/members.
// toggle=<tab> flips one header tab and redirects back to page 1.
func handleAdminMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if t := q.Get("toggle"); t != "" {
		list := listState(q)
		filter.Toggle(filter.Parse(q), filter.Tab(t)).Encode(list)
		list.Del("page")
		http.Redirect(w, r, membersURL(list), http.StatusSeeOther)
		return
	}

	page := membersPage{Notice: notices[q.Get("notice")]}
	d := drawer.FromQuery(q)
	dv := drawerView{State: d.State, MemberID: d.MemberID, Closing: q.Get("closing") != "" && !d.IsOpen()}
	switch d.State {
	case drawer.Viewing, drawer.Editing:
		client, _ := adminClient(r)
		detail, err := projections.QueryGetMemberDetail(r.Context(),
			projections.GetMemberDetailQuery{MemberID: d.MemberID},
			projections.GetMemberDetailDeps{Members: client.Admin(), Now: now})
		if err != nil {
			if sessionLost(w, r, err) {
				return
			}
			page.Error = backend.Message(err, msgDetailFailed)
			if backend.StatusOf(err) == http.StatusNotFound {
				page.Error = msgMemberMissing
			}
			dv = drawerView{State: drawer.Browsing}
			break
		}
		dv.Detail = &detail
		if d.State == drawer.Editing {
			fv := newFormView(detail.Form)
			dv.Form = &fv
		}
	case drawer.Adding:
		fv := newFormView(member.Form{})
		dv.Form = &fv
	}
	renderMembers(w, r, http.StatusOK, q, page, dv)
}

// renderMembers fetches the table for q and renders it with the given drawer.
func renderMembers(w http.ResponseWriter, r *http.Request, status int, q url.Values, page membersPage, dv drawerView) {
	client, _ := adminClient(r)
	cfg := filter.Parse(q)
	res, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{
		Filter: cfg,
		Search: listutil.ParseSearch(q),
		Status: q.Get("status"),
		Page:   listutil.ParsePage(q),
	}, projections.GetMemberListDeps{Members: client.Admin(), Now: now})
	if err != nil {
		if sessionLost(w, r, err) {
			return
		}
		if page.Error == "" {
			page.Error = backend.Message(err, msgListFailed)
		}
		res.PageInfo = listutil.NewPageInfo(1, filter.PageSize, 0)
	}

	list := listState(q)
	page.Rows = res.Rows
	page.PageInfo = res.PageInfo
	page.Search = listutil.ParseSearch(q)
	page.Status = res.Request.Status
	page.Statuses = statusOptions
	page.ListQuery = list.Encode()
	page.ListURL = membersURL(list)
	page.HasTabs = list.Has("tabs")
	page.TabsValue = list.Get("tabs")
	for _, t := range filter.Tabs {
		tq := listState(q)
		tq.Set("toggle", string(t))
		page.Tabs = append(page.Tabs, tabLink{Tab: t, Label: t.Label(), Active: cfg.Has(t), URL: membersURL(tq)})
	}

	d := drawer.Drawer{State: dv.State, MemberID: dv.MemberID}
	if next, err := d.Add(); err == nil {
		page.AddURL = drawerURL(list, next)
	}
	if next, err := d.Edit(); err == nil {
		dv.EditURL = drawerURL(list, next)
	}
	if next, err := d.Cancel(); err == nil {
		dv.CancelURL = drawerURL(list, next)
	}
	if _, err := d.Close(); err == nil {
		cq := cloneValues(list)
		cq.Set("closing", "1")
		dv.CloseURL = membersURL(cq)
	}
	page.Drawer = dv
	renderStatus(w, r, status, "admin_members.html", page)
}

func drawerURL(list url.Values, d drawer.Drawer) string {
	q := cloneValues(list)
	d.Encode(q)
	return membersURL(q)
}

func newFormView(f member.Form) formView {
	fv := formView{ID: f.ID, Name: f.Name, Phone: f.Phone, Gender: f.Gender}
	var lockerPeriod *member.Period
	number := ""
	if f.Locker != nil {
		lockerPeriod = &f.Locker.Period
		if f.Locker.Number != nil {
			number = strconv.Itoa(*f.Locker.Number)
		}
	}
	fv.Resources = []resourceView{
		resourceOf(member.ResourceMembership, "회원권", period.MembershipLabels(), f.Membership),
		resourceOf(member.ResourceLocker, "라커룸", period.Labels, lockerPeriod),
		resourceOf(member.ResourceUniform, "회원복", period.Labels, f.Uniform),
	}
	fv.Resources[1].Number = number
	return fv
}

func resourceOf(res member.Resource, title string, labels []period.Label, p *member.Period) resourceView {
	v := resourceView{Resource: res, Title: title}
	if p != nil {
		v.Type = p.Type
		v.Start = period.FormatDate(p.Start)
		v.End = period.FormatDate(p.End)
	}
	for _, l := range labels {
		v.Options = append(v.Options, resourceOption{Label: l, Selected: l == v.Type})
	}
	return v
}

// parseMemberForm rebuilds the drawer form from its posted fields.
// A resource is present when its _type field is non-empty.
func parseMemberForm(v url.Values, loc *time.Location) (member.Form, error) {
	f := member.Form{
		ID:     parseID(v.Get("id")),
		Name:   v.Get("name"),
		Phone:  v.Get("phone"),
		Gender: member.Gender(v.Get("gender")),
	}
	var err error
	if f.Membership, err = parsePeriod(v, "membership", loc); err != nil {
		return f, err
	}
	lp, err := parsePeriod(v, "locker", loc)
	if err != nil {
		return f, err
	}
	if lp != nil {
		l := member.Locker{Period: *lp}
		if n, err := strconv.Atoi(v.Get("locker_number")); err == nil {
			l.Number = &n
		}
		f.Locker = &l
	}
	if f.Uniform, err = parsePeriod(v, "uniform", loc); err != nil {
		return f, err
	}
	return f, nil
}

// parsePeriod reads a resource's type and start date. The end date is
// always derived from them; a posted <prefix>_end is ignored.
func parsePeriod(v url.Values, prefix string, loc *time.Location) (*member.Period, error) {
	typ := period.Label(strings.TrimSpace(v.Get(prefix + "_type")))
	if typ == "" {
		return nil, nil
	}
	s := strings.TrimSpace(v.Get(prefix + "_start"))
	if s == "" {
		return &member.Period{Type: typ}, nil
	}
	start, err := period.ParseDate(s, loc)
	if err != nil {
		return nil, errBadDate
	}
	p := member.NewPeriod(typ, start)
	return &p, nil
}

func startOf(f member.Form, res member.Resource) time.Time {
	switch res {
	case member.ResourceMembership:
		if f.Membership != nil {
			return f.Membership.Start
		}
	case member.ResourceLocker:
		if f.Locker != nil {
			return f.Locker.Start
		}
	case member.ResourceUniform:
		if f.Uniform != nil {
			return f.Uniform.Start
		}
	}
	return time.Time{}
}

// handleAdminMemberForm handles POST /admin/members/form.
// op is one of "toggle:<resource>:<label>", "start:<resource>" or "save".
// Toggles and start-date changes re-render the form; save writes to the backend.
func handleAdminMemberForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	ret, _ := url.ParseQuery(r.PostForm.Get("return"))
	list := listState(ret)

	f, err := parseMemberForm(r.PostForm, location())
	d := drawer.Drawer{State: drawer.Adding}
	if f.ID > 0 {
		d = drawer.Drawer{State: drawer.Editing, MemberID: f.ID}
	}

	op := r.PostForm.Get("op")
	if err == nil {
		parts := strings.SplitN(op, ":", 3)
		switch {
		case parts[0] == "toggle" && len(parts) == 3:
			var res member.Resource
			if res, err = member.ParseResource(parts[1]); err == nil {
				err = f.Toggle(res, period.Label(parts[2]), now())
			}
		case parts[0] == "start" && len(parts) == 2:
			var res member.Resource
			if res, err = member.ParseResource(parts[1]); err == nil {
				start := startOf(f, res)
				if start.IsZero() {
					err = member.ErrStartRequired
				} else {
					err = f.SetStart(res, start)
				}
			}
		case op == "save":
			var saved orchestrators.SaveMemberResult
			client, _ := adminClient(r)
			saved, err = orchestrators.ExecuteSaveMember(r.Context(),
				orchestrators.SaveMemberInput{Form: f, Actor: actorFrom(r)},
				orchestrators.SaveMemberDeps{Admin: client.Admin(), Audit: app.Audit})
			if err == nil {
				next, _ := d.Saved()
				q := cloneValues(list)
				next.Encode(q)
				q.Set("closing", "1")
				q.Set("notice", "saved")
				if saved.Created {
					q.Set("notice", "created")
				}
				http.Redirect(w, r, membersURL(q), http.StatusSeeOther)
				return
			}
			if sessionLost(w, r, err) {
				return
			}
		default:
			http.Error(w, "unknown form operation", http.StatusBadRequest)
			return
		}
	}

	status := http.StatusOK
	fv := newFormView(f)
	dv := drawerView{State: d.State, MemberID: d.MemberID, Form: &fv}
	if err != nil {
		dv.Error = formMessage(err)
		status = http.StatusUnprocessableEntity
	}
	renderMembers(w, r, status, list, membersPage{}, dv)
}

// handleAdminMemberDelete handles POST /admin/members/{id}/delete
func handleAdminMemberDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	id := parseID(r.PathValue("id"))
	ret, _ := url.ParseQuery(r.PostForm.Get("return"))
	list := listState(ret)

	client, _ := adminClient(r)
	err := orchestrators.ExecuteDeleteMember(r.Context(),
		orchestrators.DeleteMemberInput{MemberID: id, Actor: actorFrom(r)},
		orchestrators.DeleteMemberDeps{Admin: client.Admin(), Audit: app.Audit})
	if err != nil {
		if sessionLost(w, r, err) {
			return
		}
		if errors.Is(err, orchestrators.ErrMemberIDRequired) {
			http.Error(w, "invalid member id", http.StatusBadRequest)
			return
		}
		renderMembers(w, r, http.StatusOK, list,
			membersPage{Error: backend.Message(err, msgDeleteFailed)},
			drawerView{State: drawer.Browsing})
		return
	}
	q := cloneValues(list)
	q.Set("closing", "1")
	q.Set("notice", "deleted")
	http.Redirect(w, r, membersURL(q), http.StatusSeeOther)
}
