package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/adapters/backend"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/kiosk"
)

// kioskKeys is the on-screen keypad layout, row by row.
var kioskKeys = [][]string{
	{"1", "2", "3"},
	{"4", "5", "6"},
	{"7", "8", "9"},
	{kiosk.KeyClear, "0", kiosk.KeyBack},
}

type kioskPage struct {
	Buffer     string
	Slots      []string
	Keys       [][]string
	Complete   bool
	Notice     string
	Suffix     string
	Candidates []kiosk.Candidate
	Overlay    *kiosk.Overlay
}

func newKioskPage(k kiosk.Keypad) kioskPage {
	notice := ""
	if app != nil {
		notice = app.KioskNotice
	}
	return kioskPage{
		Buffer:   k.Value(),
		Slots:    k.Slots(),
		Keys:     kioskKeys,
		Complete: k.Complete(),
		Notice:   notice,
	}
}

// handleKiosk handles GET /kiosk
func handleKiosk(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "kiosk.html", newKioskPage(kiosk.NewKeypad(r.URL.Query().Get("buf"))))
}

// handleKioskKey handles POST /kiosk/key: one keypad press.
// Enter submits the buffer; every other key re-renders the keypad.
func handleKioskKey(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	k, submit := kiosk.NewKeypad(r.FormValue("buf")).Apply(r.FormValue("key"))
	if !submit {
		renderTemplate(w, r, "kiosk.html", newKioskPage(k))
		return
	}
	runKioskCheck(w, r, orchestrators.KioskCheckInput{Suffix: k.Value()})
}

// handleKioskSelect handles POST /kiosk/select: confirming one of several matches.
func handleKioskSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	id, _ := strconv.ParseInt(r.FormValue("member_id"), 10, 64)
	if id <= 0 {
		showKioskOverlay(w, r, orchestrators.KioskErrorOverlay(kiosk.ErrNoSelection))
		return
	}
	runKioskCheck(w, r, orchestrators.KioskCheckInput{Suffix: r.FormValue("suffix"), SelectedID: id})
}

func runKioskCheck(w http.ResponseWriter, r *http.Request, in orchestrators.KioskCheckInput) {
	res, err := orchestrators.ExecuteKioskCheck(r.Context(), in, orchestrators.KioskCheckDeps{
		Kiosk: kioskClient().Kiosk(),
		Now:   now,
	})
	if err != nil {
		showKioskOverlay(w, r, orchestrators.KioskErrorOverlay(err))
		return
	}
	if res.Kind == orchestrators.ResultNeedsSelection {
		page := newKioskPage(kiosk.NewKeypad(in.Suffix))
		page.Suffix = in.Suffix
		page.Candidates = res.Candidates
		renderTemplate(w, r, "kiosk.html", page)
		return
	}
	showKioskOverlay(w, r, res.Overlay())
}

// showKioskOverlay renders the overlay over an empty keypad; the page
// refreshes back to /kiosk once the overlay has been shown.
func showKioskOverlay(w http.ResponseWriter, r *http.Request, o kiosk.Overlay) {
	page := newKioskPage(kiosk.Keypad{})
	page.Overlay = &o
	renderTemplate(w, r, "kiosk.html", page)
}

type kioskCheckRequest struct {
	Suffix   string `json:"suffix"`
	MemberID int64  `json:"member_id,omitempty"`
}

type kioskCandidateJSON struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type kioskOverlayJSON struct {
	Kind      kiosk.OverlayKind `json:"kind"`
	Title     string            `json:"title"`
	Lines     []string          `json:"lines"`
	DismissMs int64             `json:"dismiss_ms"`
}

type kioskCheckResponse struct {
	Result        string               `json:"result"`
	MemberID      int64                `json:"member_id,omitempty"`
	MemberName    string               `json:"member_name,omitempty"`
	At            *time.Time           `json:"at,omitempty"`
	RemainingDays *int                 `json:"remaining_days,omitempty"`
	Candidates    []kioskCandidateJSON `json:"candidates,omitempty"`
	Overlay       *kioskOverlayJSON    `json:"overlay,omitempty"`
}

func overlayJSON(o kiosk.Overlay) *kioskOverlayJSON {
	return &kioskOverlayJSON{Kind: o.Kind, Title: o.Title, Lines: o.Lines, DismissMs: o.DismissAfter.Milliseconds()}
}

// kioskErrorStatus maps a kiosk failure onto an HTTP status.
func kioskErrorStatus(err error) int {
	switch {
	case errors.Is(err, kiosk.ErrInvalidSuffix), errors.Is(err, kiosk.ErrNoSelection), errors.Is(err, kiosk.ErrUnknownCandidate):
		return http.StatusBadRequest
	case errors.Is(err, backend.ErrTimeout):
		return http.StatusGatewayTimeout
	case backend.IsTransport(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// handleKioskCheckAPI handles POST /api/kiosk/check
func handleKioskCheckAPI(w http.ResponseWriter, r *http.Request) {
	var req kioskCheckRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	res, err := orchestrators.ExecuteKioskCheck(r.Context(),
		orchestrators.KioskCheckInput{Suffix: req.Suffix, SelectedID: req.MemberID},
		orchestrators.KioskCheckDeps{Kiosk: kioskClient().Kiosk(), Now: now})
	if err != nil {
		writeJSON(w, kioskErrorStatus(err), kioskCheckResponse{
			Result:  "error",
			Overlay: overlayJSON(orchestrators.KioskErrorOverlay(err)),
		})
		return
	}

	out := kioskCheckResponse{Result: string(res.Kind), MemberID: res.MemberID, MemberName: res.MemberName}
	if res.Kind == orchestrators.ResultNeedsSelection {
		for _, c := range res.Candidates {
			out.Candidates = append(out.Candidates, kioskCandidateJSON{MemberID: c.MemberID, Name: c.MaskedName, Phone: c.MaskedPhone})
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	if !res.At.IsZero() {
		at := res.At
		out.At = &at
	}
	if !res.Remaining.Unbounded {
		days := res.Remaining.Days
		out.RemainingDays = &days
	}
	out.Overlay = overlayJSON(res.Overlay())
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
