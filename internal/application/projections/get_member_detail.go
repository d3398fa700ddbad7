package projections

import (
	"context"
	"time"

	"gymdesk/internal/domain/checkin"
	"gymdesk/internal/domain/member"
)

// GetMemberDetailQuery names the member shown in the drawer.
type GetMemberDetailQuery struct {
	MemberID int64
}

// VisitRow is one check-in history line.
type VisitRow struct {
	Date       string
	CheckInAt  string
	CheckOutAt string
	Duration   string
	Open       bool
}

// GetMemberDetailResult carries the drawer contents.
type GetMemberDetailResult struct {
	Member  member.Member
	Row     MemberRow
	Form    member.Form
	Visits  []VisitRow
	Warning string // set when the history could not be loaded
}

// GetMemberDetailDeps holds dependencies for GetMemberDetail.
type GetMemberDetailDeps struct {
	Members MemberReader
	Now     func() time.Time
}

// QueryGetMemberDetail loads a member and its visit history for the drawer.
// PRE: MemberID > 0
// POST: a failed history call still returns the member, with Warning set
func QueryGetMemberDetail(ctx context.Context, query GetMemberDetailQuery, deps GetMemberDetailDeps) (GetMemberDetailResult, error) {
	m, err := deps.Members.GetMember(ctx, query.MemberID)
	if err != nil {
		return GetMemberDetailResult{}, err
	}
	now := nowFn(deps.Now)()
	res := GetMemberDetailResult{
		Member: m,
		Row:    memberRow(m, 0, now),
		Form:   member.FormFrom(m),
	}

	records, err := deps.Members.CheckIns(ctx, query.MemberID)
	if err != nil {
		res.Warning = "출입 기록을 불러오지 못했습니다."
		return res, nil
	}
	res.Visits = visitRows(records, now)
	return res, nil
}

func visitRows(records []checkin.Record, now time.Time) []VisitRow {
	rows := make([]VisitRow, 0, len(records))
	for _, r := range records {
		v := VisitRow{
			Date:      r.CheckInAt.Format("2006-01-02"),
			CheckInAt: r.CheckInAt.Format("15:04"),
			Duration:  checkin.FormatDuration(r.Duration(now)),
			Open:      r.IsOpen(),
		}
		if r.CheckOutAt != nil {
			v.CheckOutAt = r.CheckOutAt.Format("15:04")
		}
		rows = append(rows, v)
	}
	return rows
}
