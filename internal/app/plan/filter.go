package plan

import (
	"fmt"
	"strings"
)

// StatusFilter is either FilterAll or one of the plan statuses.
type StatusFilter string

const FilterAll StatusFilter = "all"

func ParseStatusFilter(s string) (StatusFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	if !Status(s).Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return StatusFilter(s), nil
}

func (f StatusFilter) Matches(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

type Counts struct {
	All      int `json:"all"`
	Wishlist int `json:"wishlist"`
	Planned  int `json:"planned"`
	Done     int `json:"done"`
}

func (c Counts) Of(f StatusFilter) int {
	switch Status(f) {
	case StatusWishlist:
		return c.Wishlist
	case StatusPlanned:
		return c.Planned
	case StatusDone:
		return c.Done
	}
	return c.All
}

// View is the visible subset of a board plus counts over the whole board.
type View struct {
	Plans  []*Plan
	Counts Counts
}

func Derive(plans []*Plan, query string, status StatusFilter) View {
	return View{
		Plans:  Filter(plans, query, status),
		Counts: CountByStatus(plans),
	}
}

// Filter keeps the plans whose title, description, location or category
// contain query (case-insensitive) and whose status passes the filter.
// A blank query matches everything. Order is preserved.
func Filter(plans []*Plan, query string, status StatusFilter) []*Plan {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]*Plan, 0, len(plans))
	for _, p := range plans {
		if !status.Matches(p.Status) {
			continue
		}
		if needle != "" && !matchesText(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func CountByStatus(plans []*Plan) Counts {
	c := Counts{All: len(plans)}
	for _, p := range plans {
		switch p.Status {
		case StatusWishlist:
			c.Wishlist++
		case StatusPlanned:
			c.Planned++
		case StatusDone:
			c.Done++
		}
	}
	return c
}

func matchesText(p *Plan, needle string) bool {
	for _, field := range []string{p.Title, deref(p.Description), deref(p.Location), deref(p.Category)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
