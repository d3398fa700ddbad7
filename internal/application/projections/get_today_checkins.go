package projections

import (
	"context"
	"sort"
	"time"
)

// TodayVisit is one row of today's attendance.
type TodayVisit struct {
	MemberID   int64
	MemberName string
	VisitRow
}

// GetTodayCheckInsResult carries today's attendance.
type GetTodayCheckInsResult struct {
	Date    string
	Visits  []TodayVisit
	Total   int
	Present int
}

// GetTodayCheckInsDeps holds dependencies for GetTodayCheckIns.
type GetTodayCheckInsDeps struct {
	Today TodayReader
	Now   func() time.Time
}

// QueryGetTodayCheckIns lists today's visits, most recent arrival first.
// POST: Present counts visits without a check-out
func QueryGetTodayCheckIns(ctx context.Context, deps GetTodayCheckInsDeps) (GetTodayCheckInsResult, error) {
	records, err := deps.Today.TodayCheckIns(ctx)
	if err != nil {
		return GetTodayCheckInsResult{}, err
	}
	now := nowFn(deps.Now)()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CheckInAt.After(records[j].CheckInAt)
	})

	res := GetTodayCheckInsResult{Date: now.Format("2006-01-02"), Total: len(records)}
	rows := visitRows(records, now)
	for i, r := range records {
		if r.IsOpen() {
			res.Present++
		}
		res.Visits = append(res.Visits, TodayVisit{MemberID: r.MemberID, MemberName: r.MemberName, VisitRow: rows[i]})
	}
	return res, nil
}
