package projections

import (
	"context"
	"time"

	"gymdesk/internal/application/listutil"
	"gymdesk/internal/domain/drawer"
)

// GetDeletedMembersQuery carries the recovery view state.
type GetDeletedMembersQuery struct {
	Search string
	Page   int
}

// GetDeletedMembersResult carries the query result.
type GetDeletedMembersResult struct {
	Rows     []MemberRow
	PageInfo listutil.PageInfo
	Search   string
}

// GetDeletedMembersDeps holds dependencies for GetDeletedMembers.
type GetDeletedMembersDeps struct {
	Deleted DeletedReader
	Now     func() time.Time
}

// QueryGetDeletedMembers fetches one page of soft-deleted members, most recent first.
// PRE: none
// POST: rows count down from the total like the default member table
func QueryGetDeletedMembers(ctx context.Context, query GetDeletedMembersQuery, deps GetDeletedMembersDeps) (GetDeletedMembersResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	res, err := deps.Deleted.List(ctx, query.Search, page, listutil.DefaultPerPage)
	if err != nil {
		return GetDeletedMembersResult{}, err
	}
	info := listutil.NewPageInfo(page, listutil.DefaultPerPage, res.Total)
	now := nowFn(deps.Now)()
	rows := make([]MemberRow, 0, len(res.Members))
	for i, m := range res.Members {
		rows = append(rows, memberRow(m, drawer.DisplayRank(false, res.Total, info.Offset(), i), now))
	}
	return GetDeletedMembersResult{Rows: rows, PageInfo: info, Search: query.Search}, nil
}
