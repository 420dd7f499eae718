package client

import (
	"context"
	"errors"
	"fmt"

	"wishboard/internal/app/plan"

	"go.uber.org/zap"
)

const (
	MsgConfirmDelete = "¿Eliminar este plan?"
	MsgUpdateFailed  = "No se pudo actualizar."
	MsgDeleteFailed  = "No se pudo eliminar."
	MsgStatusFailed  = "No se pudo cambiar el estado."
)

// Prompter is how actions talk to a person: a blocking message and a
// yes/no confirmation.
type Prompter interface {
	Alert(msg string)
	Confirm(question string) bool
}

// Actions runs the user-facing writes of one board. It never changes the
// session's set itself; after a successful write it asks the session, if
// any, to re-read.
type Actions struct {
	api     *Client
	slug    string
	session *Session
	prompt  Prompter
	logger  *zap.SugaredLogger
}

func NewActions(api *Client, slug string, session *Session, prompt Prompter, logger *zap.Logger) *Actions {
	return &Actions{
		api:     api,
		slug:    slug,
		session: session,
		prompt:  prompt,
		logger:  logger.Sugar(),
	}
}

// Save submits f as a create or an update depending on how it was opened.
// Create failures show the service's reason; update failures a generic one.
func (a *Actions) Save(ctx context.Context, f *Form) error {
	id := f.Editing()
	err := f.Submit(ctx, func(ctx context.Context, v Values) error {
		if id == "" {
			_, err := a.api.Create(ctx, a.slug, v)
			return err
		}
		_, err := a.api.Update(ctx, id, v)
		return err
	})
	switch {
	case errors.Is(err, ErrBlankTitle), errors.Is(err, ErrSubmitting):
		return err
	case err != nil && id == "":
		a.logger.Warnw("Failed to create plan", "board", a.slug, "error", err)
		a.prompt.Alert(fmt.Sprintf("Error al guardar: %s", err.Error()))
		return err
	case err != nil:
		a.logger.Warnw("Failed to update plan", "plan_id", id, "error", err)
		a.prompt.Alert(MsgUpdateFailed)
		return err
	}
	a.refresh(ctx)
	return nil
}

// Remove deletes the plan after the person confirms. It reports whether a
// delete was attempted and succeeded.
func (a *Actions) Remove(ctx context.Context, id string) (bool, error) {
	if !a.prompt.Confirm(MsgConfirmDelete) {
		return false, nil
	}
	if err := a.api.Remove(ctx, id); err != nil {
		a.logger.Warnw("Failed to delete plan", "plan_id", id, "error", err)
		a.prompt.Alert(MsgDeleteFailed)
		return false, err
	}
	a.refresh(ctx)
	return true, nil
}

// SetStatus changes only the status of the plan.
func (a *Actions) SetStatus(ctx context.Context, id string, status plan.Status) error {
	if _, err := a.api.SetStatus(ctx, id, status); err != nil {
		a.logger.Warnw("Failed to change plan status", "plan_id", id, "status", status, "error", err)
		a.prompt.Alert(MsgStatusFailed)
		return err
	}
	a.refresh(ctx)
	return nil
}

func (a *Actions) refresh(ctx context.Context) {
	if a.session == nil {
		return
	}
	_, _ = a.session.Refresh(ctx)
}
