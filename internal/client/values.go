package client

import (
	"strconv"

	"wishboard/internal/app/plan"
)

// Values is the editable draft of a plan as a person types it. EstCost
// stays raw text until it is sent.
type Values struct {
	Title       string
	Description string
	Category    string
	Location    string
	EstCost     string
	WhenText    string
	Priority    int
	Status      plan.Status
}

func DefaultValues() Values {
	return Values{
		Category: plan.DefaultCategory,
		Priority: plan.DefaultPriority,
		Status:   plan.StatusWishlist,
	}
}

// ValuesOf seeds a draft from a stored plan.
func ValuesOf(p *plan.Plan) Values {
	v := Values{
		Title:       p.Title,
		Description: deref(p.Description),
		Category:    deref(p.Category),
		Location:    deref(p.Location),
		WhenText:    deref(p.WhenText),
		Priority:    p.Priority,
		Status:      p.Status,
	}
	if p.EstCost != nil {
		v.EstCost = strconv.FormatFloat(*p.EstCost, 'f', -1, 64)
	}
	return v
}

// Fields converts the draft into the write payload. Empty strings become
// absent values and the cost text is parsed, anything that is not a
// non-negative number becoming absent.
func (v Values) Fields() plan.Fields {
	return plan.Fields{
		Title:       v.Title,
		Description: nonEmpty(v.Description),
		Category:    nonEmpty(v.Category),
		Location:    nonEmpty(v.Location),
		WhenText:    nonEmpty(v.WhenText),
		EstCost:     plan.ParseCost(v.EstCost),
		Priority:    v.Priority,
		Status:      v.Status,
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
