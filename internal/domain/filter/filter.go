package filter

import (
	"net/url"
	"strings"
)

// Tab is one toggle in the admin member table header.
type Tab string

const (
	TabMemberOrder Tab = "member_order"
	TabMale        Tab = "male"
	TabFemale      Tab = "female"
	TabPT          Tab = "pt"
	TabRegular     Tab = "regular"
	TabLocker      Tab = "locker"
	TabUniform     Tab = "uniform"
	TabActive      Tab = "active"
	TabInactive    Tab = "inactive"
	TabAll         Tab = "all"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{
	TabMemberOrder, TabMale, TabFemale, TabPT, TabRegular,
	TabLocker, TabUniform, TabActive, TabInactive, TabAll,
}

var tabLabels = map[Tab]string{
	TabMemberOrder: "회원번호",
	TabMale:        "남",
	TabFemale:      "여",
	TabPT:          "PT권",
	TabRegular:     "회원권",
	TabLocker:      "라커룸",
	TabUniform:     "회원복",
	TabActive:      "활성",
	TabInactive:    "비활성",
	TabAll:         "전체",
}

// exclusive pairs: selecting one side clears the other.
var exclusive = map[Tab]Tab{
	TabMale:     TabFemale,
	TabFemale:   TabMale,
	TabPT:       TabRegular,
	TabRegular:  TabPT,
	TabActive:   TabInactive,
	TabInactive: TabActive,
}

// Label returns the tab's display text.
func (t Tab) Label() string {
	return tabLabels[t]
}

func (t Tab) bit() uint16 {
	for i, tab := range Tabs {
		if tab == t {
			return 1 << i
		}
	}
	return 0
}

// Config is the set of selected tabs. The zero value selects nothing.
type Config struct {
	bits uint16
}

// Default returns the initial configuration: every member, newest first.
func Default() Config {
	return Config{bits: TabAll.bit()}
}

// Of builds a Config from tabs without applying toggle rules.
func Of(tabs ...Tab) Config {
	var c Config
	for _, t := range tabs {
		c.bits |= t.bit()
	}
	return c
}

// Has reports whether t is selected.
func (c Config) Has(t Tab) bool {
	b := t.bit()
	return b != 0 && c.bits&b != 0
}

// Selected returns the selected tabs in display order.
func (c Config) Selected() []Tab {
	var out []Tab
	for _, t := range Tabs {
		if c.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Toggle applies one tab click and returns the new configuration.
// PRE: none; unknown tabs leave c unchanged
// POST: "all" is never combined with another tab, and each exclusive pair has at most one side selected
func Toggle(c Config, t Tab) Config {
	b := t.bit()
	if b == 0 {
		return c
	}
	if c.Has(t) {
		return Config{bits: c.bits &^ b}
	}
	if t == TabAll {
		return Config{bits: b}
	}
	next := c.bits &^ TabAll.bit()
	if other, ok := exclusive[t]; ok {
		next &^= other.bit()
	}
	return Config{bits: next | b}
}

// Gender returns the backend gender code for the selected gender tab, or "".
func (c Config) Gender() string {
	switch {
	case c.Has(TabMale):
		return "M"
	case c.Has(TabFemale):
		return "F"
	}
	return ""
}

// Ascending reports whether rows are listed in ascending member order.
func (c Config) Ascending() bool {
	return c.Has(TabMemberOrder)
}

// Encode writes the configuration into query values under "tabs".
func (c Config) Encode(q url.Values) {
	names := make([]string, 0, len(Tabs))
	for _, t := range c.Selected() {
		names = append(names, string(t))
	}
	q.Set("tabs", strings.Join(names, ","))
}

// Parse reads a configuration written by Encode.
// A missing "tabs" key yields Default; an empty value yields no selection.
func Parse(q url.Values) Config {
	if !q.Has("tabs") {
		return Default()
	}
	var c Config
	for _, name := range strings.Split(q.Get("tabs"), ",") {
		c.bits |= Tab(strings.TrimSpace(name)).bit()
	}
	return normalize(c)
}

// normalize repairs hand-edited URLs so the toggle invariants hold.
func normalize(c Config) Config {
	if c.Has(TabAll) && c.bits != TabAll.bit() {
		c.bits &^= TabAll.bit()
	}
	for a, b := range exclusive {
		if c.Has(a) && c.Has(b) {
			c.bits &^= b.bit() | a.bit()
		}
	}
	return c
}
