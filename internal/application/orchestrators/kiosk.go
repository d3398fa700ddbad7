package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/domain/kiosk"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/period"
)

// Kiosk overlay texts.
const (
	MsgCheckedIn     = "✅ 출입이 확인되었습니다!"
	MsgCheckedOut    = "✅ 퇴장이 확인되었습니다!"
	MsgNotFound      = "등록된 회원이 없습니다."
	MsgEnterSuffix   = "전화번호 뒷자리 4자리를 입력해주세요."
	MsgSelectMember  = "회원을 선택해주세요."
	MsgExpired       = "회원권이 만료되었습니다."
	MsgUnchanged     = "출입 상태를 변경하지 못했습니다.\n카운터에 문의하세요."
	MsgUnknownError  = "알 수 없는 오류가 발생했습니다."
	MsgCheckOutError = "퇴장 처리에 실패했습니다."
)

// KioskBackend is the kiosk slice of the REST backend.
type KioskBackend interface {
	SearchByPhone(ctx context.Context, suffix string) (backend.SearchResult, error)
	CheckIn(ctx context.Context, memberID int64) (backend.CheckResult, error)
	CheckOut(ctx context.Context, memberID int64) (backend.CheckResult, error)
}

// KioskCheckInput carries the typed suffix and, after disambiguation, the chosen member.
type KioskCheckInput struct {
	Suffix     string
	SelectedID int64 // zero until a candidate is picked
}

// KioskCheckDeps holds dependencies for KioskCheck.
type KioskCheckDeps struct {
	Kiosk KioskBackend
	Now   func() time.Time // optional: defaults to time.Now
}

// KioskResultKind names how a kiosk attempt ended.
type KioskResultKind string

const (
	ResultCheckedIn      KioskResultKind = "checked_in"
	ResultCheckedOut     KioskResultKind = "checked_out"
	ResultNeedsSelection KioskResultKind = "needs_selection"
	ResultNotFound       KioskResultKind = "not_found"
	ResultUnchanged      KioskResultKind = "unchanged"
	ResultExpired        KioskResultKind = "expired"
)

// KioskCheckResult is what the kiosk screen renders next.
type KioskCheckResult struct {
	Kind          KioskResultKind
	MemberID      int64
	MemberName    string
	At            time.Time
	MembershipEnd *time.Time
	Remaining     period.Remaining
	Warnings      []backend.Warning
	Candidates    []kiosk.Candidate
	Message       string
}

// ActionError reports which transition failed.
type ActionError struct {
	Action kiosk.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("kiosk %s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// ExecuteKioskCheck looks a member up by phone suffix and toggles their presence.
// PRE: none; the suffix is validated here before any backend call
// POST: at most one search and two transition calls are made
// INVARIANT: with several matches, no transition runs until SelectedID names one of them
func ExecuteKioskCheck(ctx context.Context, input KioskCheckInput, deps KioskCheckDeps) (KioskCheckResult, error) {
	if err := kiosk.ValidateSuffix(input.Suffix); err != nil {
		return KioskCheckResult{}, err
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	found, err := deps.Kiosk.SearchByPhone(ctx, input.Suffix)
	if err != nil {
		slog.Warn("kiosk_event", "event", "search_failed", "error", err)
		return KioskCheckResult{}, err
	}
	if found.Status == backend.SearchNotFound {
		slog.Info("kiosk_event", "event", "member_not_found")
		return KioskCheckResult{Kind: ResultNotFound, Message: MsgNotFound}, nil
	}

	candidates := toCandidates(found.Members)
	var chosen kiosk.Candidate
	switch {
	case input.SelectedID != 0:
		chosen, err = kiosk.Pick(candidates, input.SelectedID)
		if err != nil {
			slog.Warn("kiosk_event", "event", "selection_rejected", "member_id", input.SelectedID)
			return KioskCheckResult{}, err
		}
	case len(candidates) > 1:
		slog.Info("kiosk_event", "event", "duplicate_match", "count", len(candidates))
		return KioskCheckResult{Kind: ResultNeedsSelection, Candidates: candidates, Message: MsgSelectMember}, nil
	default:
		chosen = candidates[0]
	}

	action := kiosk.Decide(chosen.Active)
	res, err := transition(ctx, deps.Kiosk, action, chosen.MemberID)
	if err != nil {
		return KioskCheckResult{}, err
	}
	if res.Outcome == backend.OutcomeAlreadyInState {
		slog.Info("kiosk_event", "event", "state_mismatch", "member_id", chosen.MemberID, "tried", action)
		action = action.Opposite()
		res, err = transition(ctx, deps.Kiosk, action, chosen.MemberID)
		if err != nil {
			return KioskCheckResult{}, err
		}
	}

	out := KioskCheckResult{
		MemberID:      chosen.MemberID,
		MemberName:    res.MemberName,
		At:            res.At,
		MembershipEnd: res.MembershipEnd,
		Remaining:     period.DaysRemaining(res.MembershipEnd, now()),
		Warnings:      res.Warnings,
		Message:       res.Message,
	}
	if out.At.IsZero() {
		out.At = now()
	}
	switch res.Outcome {
	case backend.OutcomeAlreadyInState:
		out.Kind = ResultUnchanged
	case backend.OutcomeExpired:
		out.Kind = ResultExpired
	case backend.OutcomeSuccess:
		out.Kind = ResultCheckedIn
		if action == kiosk.ActionCheckOut {
			out.Kind = ResultCheckedOut
		}
	}
	slog.Info("kiosk_event", "event", string(out.Kind), "member_id", chosen.MemberID)
	return out, nil
}

func transition(ctx context.Context, k KioskBackend, action kiosk.Action, id int64) (backend.CheckResult, error) {
	var (
		res backend.CheckResult
		err error
	)
	if action == kiosk.ActionCheckOut {
		res, err = k.CheckOut(ctx, id)
	} else {
		res, err = k.CheckIn(ctx, id)
	}
	if err != nil {
		slog.Warn("kiosk_event", "event", "transition_failed", "action", action, "member_id", id, "error", err)
		return backend.CheckResult{}, &ActionError{Action: action, Err: err}
	}
	return res, nil
}

func toCandidates(members []member.Member) []kiosk.Candidate {
	out := make([]kiosk.Candidate, 0, len(members))
	for _, m := range members {
		out = append(out, kiosk.Candidate{
			MemberID:    m.ID,
			MaskedName:  m.MaskedName(),
			MaskedPhone: m.MaskedPhone(),
			Active:      m.Active,
		})
	}
	return out
}

// Overlay renders the result as a kiosk overlay.
// PRE: r.Kind != ResultNeedsSelection
func (r KioskCheckResult) Overlay() kiosk.Overlay {
	name := r.MemberName
	if name == "" {
		name = "회원"
	}
	switch r.Kind {
	case ResultCheckedIn, ResultCheckedOut:
		title, label := MsgCheckedIn, "입장 시간: "
		if r.Kind == ResultCheckedOut {
			title, label = MsgCheckedOut, "퇴장 시간: "
		}
		lines := []string{name + "님", label + r.At.Format("15:04")}
		if !r.Remaining.Unbounded {
			if r.Remaining.Expired() {
				lines = append(lines, "❗ "+MsgExpired)
			} else {
				lines = append(lines, fmt.Sprintf("회원권 남은 일수: %d일", r.Remaining.Days))
			}
		}
		for _, w := range r.Warnings {
			if w.Message != "" {
				lines = append(lines, "⚠️ "+w.Message)
			}
		}
		return kiosk.NewOverlay(kiosk.OverlaySuccess, title, lines...)
	case ResultExpired:
		return kiosk.NewOverlay(kiosk.OverlayError, MsgExpired, name+"님", "카운터에 문의하세요.")
	case ResultUnchanged:
		return kiosk.NewOverlay(kiosk.OverlayInfo, MsgUnchanged)
	}
	return kiosk.NewOverlay(kiosk.OverlayError, MsgNotFound)
}

// KioskErrorOverlay renders a failure as a kiosk overlay.
// Validation and transport failures get their own texts; a failed check-out
// keeps its dedicated message; anything else uses the backend detail or a generic text.
func KioskErrorOverlay(err error) kiosk.Overlay {
	switch {
	case errors.Is(err, kiosk.ErrInvalidSuffix):
		return kiosk.NewOverlay(kiosk.OverlayError, MsgEnterSuffix)
	case errors.Is(err, kiosk.ErrNoSelection), errors.Is(err, kiosk.ErrUnknownCandidate):
		return kiosk.NewOverlay(kiosk.OverlayError, MsgSelectMember)
	}
	fallback := MsgUnknownError
	var actErr *ActionError
	if errors.As(err, &actErr) && actErr.Action == kiosk.ActionCheckOut {
		fallback = MsgCheckOutError
	}
	return kiosk.NewOverlay(kiosk.OverlayError, backend.Message(err, fallback))
}
