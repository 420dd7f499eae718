package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"wishboard/internal/app/plan"
)

var (
	ErrBlankTitle = errors.New("title is required")
	ErrSubmitting = errors.New("a save is already in progress")
)

// SubmitFunc performs the write for a submitted draft.
type SubmitFunc func(ctx context.Context, values Values) error

// Form is a create or edit draft. It never writes on its own; Submit hands
// the trimmed draft to a SubmitFunc and keeps it intact if that fails.
type Form struct {
	mu      sync.Mutex
	values  Values
	initial Values
	editing string
	busy    bool
}

// NewForm starts an empty create draft.
func NewForm() *Form {
	v := DefaultValues()
	return &Form{values: v, initial: v}
}

// EditForm starts a draft seeded from p.
func EditForm(p *plan.Plan) *Form {
	v := ValuesOf(p)
	return &Form{values: v, initial: v, editing: p.ID}
}

// Editing returns the id of the plan being edited, or "" for a create draft.
func (f *Form) Editing() string {
	return f.editing
}

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Set applies fn to the draft.
func (f *Form) Set(fn func(v *Values)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.values)
}

func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// CanSubmit reports whether the trimmed title is non-empty and no save is
// in flight.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.busy && strings.TrimSpace(f.values.Title) != ""
}

// Submit trims every text field except the raw cost and passes the draft
// to submit. A blank title or an in-flight save returns an error without
// calling submit.
func (f *Form) Submit(ctx context.Context, submit SubmitFunc) error {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return ErrSubmitting
	}
	values := trimmed(f.values)
	if values.Title == "" {
		f.mu.Unlock()
		return ErrBlankTitle
	}
	f.busy = true
	f.mu.Unlock()

	err := submit(ctx, values)

	f.mu.Lock()
	f.busy = false
	if err == nil {
		f.values = values
	}
	f.mu.Unlock()
	return err
}

// Cancel discards local edits.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = f.initial
}

func trimmed(v Values) Values {
	v.Title = strings.TrimSpace(v.Title)
	v.Description = strings.TrimSpace(v.Description)
	v.Category = strings.TrimSpace(v.Category)
	v.Location = strings.TrimSpace(v.Location)
	v.WhenText = strings.TrimSpace(v.WhenText)
	return v
}
