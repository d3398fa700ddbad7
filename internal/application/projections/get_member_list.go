package projections

import (
	"context"
	"time"

	"gymdesk/internal/application/listutil"
	"gymdesk/internal/domain/drawer"
	"gymdesk/internal/domain/filter"
)

// GetMemberListQuery carries the table state taken from the URL.
type GetMemberListQuery struct {
	Filter filter.Config
	Search string
	Status string
	Page   int
}

// GetMemberListResult carries the query result.
type GetMemberListResult struct {
	Rows     []MemberRow
	PageInfo listutil.PageInfo
	Request  filter.Query
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	Members MemberReader
	Now     func() time.Time // optional: defaults to time.Now
}

// QueryGetMemberList fetches one page of members and numbers the rows.
// PRE: none; page < 1 is treated as 1
// POST: len(Rows) <= filter.PageSize; DisplayRank follows the sort direction
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	req := query.Filter.Query(query.Search, query.Status, query.Page)
	page, err := deps.Members.ListMembers(ctx, req)
	if err != nil {
		return GetMemberListResult{}, err
	}

	now := nowFn(deps.Now)()
	ascending := query.Filter.Ascending()
	offset := req.Offset()
	rows := make([]MemberRow, 0, len(page.Members))
	for i, m := range page.Members {
		rank := drawer.DisplayRank(ascending, page.Total, offset, i)
		rows = append(rows, memberRow(m, rank, now))
	}

	return GetMemberListResult{
		Rows:     rows,
		PageInfo: listutil.NewPageInfo(req.Page, req.Size, page.Total),
		Request:  req,
	}, nil
}

func nowFn(f func() time.Time) func() time.Time {
	if f != nil {
		return f
	}
	return time.Now
}
