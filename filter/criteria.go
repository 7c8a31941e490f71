// Package filter decides which catalogue listings are visible for a set of
// filter control values.
package filter

import (
	"sort"
	"strings"
)

// OneShotsOnly is the series selector value that keeps listings outside any
// series.
const OneShotsOnly = "(one-shots only)"

// Values accepted by the filled-status and rating selections.
const (
	StatusFilled   = "filled"
	StatusUnfilled = "unfilled"
	RatingSFW      = "SFW"
	RatingNSFW     = "NSFW"
)

// EmptyPolicy decides what a present but empty multi-select means.
type EmptyPolicy int

const (
	// EmptyMatchesNone hides every listing when a multi-select control has
	// nothing checked. This is how the published page has always behaved.
	EmptyMatchesNone EmptyPolicy = iota
	// EmptyMatchesAll treats an empty multi-select as no constraint.
	EmptyMatchesAll
)

// ParseEmptyPolicy maps "none" and "all" to their policies.
func ParseEmptyPolicy(s string) (EmptyPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return EmptyMatchesNone, true
	case "all":
		return EmptyMatchesAll, true
	default:
		return EmptyMatchesNone, false
	}
}

func (p EmptyPolicy) String() string {
	if p == EmptyMatchesAll {
		return "all"
	}
	return "none"
}

// Selection is the state of a multi-select control. The zero value is an
// absent control, which never constrains anything.
type Selection struct {
	values map[string]struct{}
	active bool
}

// Any is an absent control.
func Any() Selection {
	return Selection{}
}

// Of is a present control with exactly these values checked.
func Of(values ...string) Selection {
	s := Selection{values: make(map[string]struct{}, len(values)), active: true}
	for _, v := range values {
		s.values[v] = struct{}{}
	}
	return s
}

// Active reports whether the control is present.
func (s Selection) Active() bool {
	return s.active
}

// Len is the number of checked values.
func (s Selection) Len() int {
	return len(s.values)
}

// Has reports whether value is checked.
func (s Selection) Has(value string) bool {
	_, ok := s.values[value]
	return ok
}

// Values returns the checked values sorted.
func (s Selection) Values() []string {
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// overlaps reports whether any candidate is checked, applying the empty
// policy to a present control with nothing checked.
func (s Selection) overlaps(candidates []string, policy EmptyPolicy) bool {
	if !s.active {
		return true
	}
	if len(s.values) == 0 {
		return policy == EmptyMatchesAll
	}
	for _, c := range candidates {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// Criteria holds every filter control value for one pass.
type Criteria struct {
	// Text is matched case-insensitively after trimming; "" matches all.
	Text string
	// MinWords and MaxWords are inclusive bounds on spoken words; nil is unset.
	MinWords *int
	MaxWords *int
	// Series is "", OneShotsOnly, or an exact series title.
	Series       string
	Audience     Selection
	Speakers     Selection
	FilledStatus Selection
	Rating       Selection
	// FilledBy is a single voice actor name; "" matches all.
	FilledBy       string
	EmptySelection EmptyPolicy
}

// Bound is a convenience for building word-count limits.
func Bound(n int) *int {
	return &n
}
