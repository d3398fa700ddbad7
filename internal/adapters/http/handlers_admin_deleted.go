package web

import (
	"errors"
	"net/http"
	"net/url"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/application/listutil"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/application/projections"
)

const deletedPath = "/admin/deleted"

const (
	msgDeletedFailed  = "삭제된 회원 목록을 불러오지 못했습니다."
	msgRecoveryFailed = "요청을 처리하지 못했습니다."
	msgConfirmPurge   = "영구 삭제를 진행하려면 확인란을 선택해주세요."
)

type deletedPage struct {
	Rows      []projections.MemberRow
	PageInfo  listutil.PageInfo
	Search    string
	ListQuery string
	ListURL   string
	Notice    string
	Error     string
}

func deletedURL(q url.Values) string {
	if len(q) == 0 {
		return deletedPath
	}
	return deletedPath + "?" + q.Encode()
}

// deletedState keeps the recovery view keys of q.
func deletedState(q url.Values) url.Values {
	out := url.Values{}
	for _, k := range []string{"q", "page"} {
		if q.Has(k) {
			out.Set(k, q.Get(k))
		}
	}
	return out
}

// handleAdminDeleted handles GET /admin/deleted
func handleAdminDeleted(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	renderDeleted(w, r, http.StatusOK, q, deletedPage{Notice: notices[q.Get("notice")]})
}

func renderDeleted(w http.ResponseWriter, r *http.Request, status int, q url.Values, page deletedPage) {
	client, _ := adminClient(r)
	res, err := projections.QueryGetDeletedMembers(r.Context(), projections.GetDeletedMembersQuery{
		Search: listutil.ParseSearch(q),
		Page:   listutil.ParsePage(q),
	}, projections.GetDeletedMembersDeps{Deleted: client.Deleted(), Now: now})
	if err != nil {
		if sessionLost(w, r, err) {
			return
		}
		if page.Error == "" {
			page.Error = backend.Message(err, msgDeletedFailed)
		}
		res.PageInfo = listutil.NewPageInfo(1, listutil.DefaultPerPage, 0)
	}
	list := deletedState(q)
	page.Rows = res.Rows
	page.PageInfo = res.PageInfo
	page.Search = listutil.ParseSearch(q)
	page.ListQuery = list.Encode()
	page.ListURL = deletedURL(list)
	renderStatus(w, r, status, "admin_deleted.html", page)
}

// recoveryAction runs one recovery orchestrator for a form post and redirects
// back to the recovery view. Purges require the confirm checkbox.
func recoveryAction(
	run func(*http.Request, orchestrators.RecoveryInput, orchestrators.RecoveryDeps) (string, error),
	notice string,
	needsConfirm bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		ret, _ := url.ParseQuery(r.PostForm.Get("return"))
		list := deletedState(ret)
		if needsConfirm && r.PostForm.Get("confirm") != "yes" {
			renderDeleted(w, r, http.StatusUnprocessableEntity, list, deletedPage{Error: msgConfirmPurge})
			return
		}

		client, _ := adminClient(r)
		_, err := run(r, orchestrators.RecoveryInput{
			MemberID: parseID(r.PathValue("id")),
			Actor:    actorFrom(r),
		}, orchestrators.RecoveryDeps{
			Deleted:  client.Deleted(),
			Audit:    app.Audit,
			Notifier: app.Notifier,
			Now:      now,
		})
		if err != nil {
			if sessionLost(w, r, err) {
				return
			}
			if errors.Is(err, orchestrators.ErrMemberIDRequired) {
				http.Error(w, "invalid member id", http.StatusBadRequest)
				return
			}
			renderDeleted(w, r, http.StatusOK, list, deletedPage{Error: backend.Message(err, msgRecoveryFailed)})
			return
		}
		q := cloneValues(list)
		q.Set("notice", notice)
		http.Redirect(w, r, deletedURL(q), http.StatusSeeOther)
	}
}

var (
	handleAdminRestore = recoveryAction(func(r *http.Request, in orchestrators.RecoveryInput, d orchestrators.RecoveryDeps) (string, error) {
		return orchestrators.ExecuteRestoreMember(r.Context(), in, d)
	}, "restored", false)

	handleAdminPurge = recoveryAction(func(r *http.Request, in orchestrators.RecoveryInput, d orchestrators.RecoveryDeps) (string, error) {
		return orchestrators.ExecutePurgeMember(r.Context(), in, d)
	}, "purged", true)

	handleAdminRestoreAll = recoveryAction(func(r *http.Request, in orchestrators.RecoveryInput, d orchestrators.RecoveryDeps) (string, error) {
		return orchestrators.ExecuteRestoreAllMembers(r.Context(), in, d)
	}, "restored_all", true)

	handleAdminPurgeAll = recoveryAction(func(r *http.Request, in orchestrators.RecoveryInput, d orchestrators.RecoveryDeps) (string, error) {
		return orchestrators.ExecutePurgeAllMembers(r.Context(), in, d)
	}, "purged_all", true)
)
