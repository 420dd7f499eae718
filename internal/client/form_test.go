package client

import (
	"context"
	"errors"
	"testing"

	"wishboard/internal/app/plan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForm_Defaults(t *testing.T) {
	f := NewForm()
	v := f.Values()

	assert.Equal(t, "Viaje", v.Category)
	assert.Equal(t, 2, v.Priority)
	assert.Equal(t, plan.StatusWishlist, v.Status)
	assert.Empty(t, f.Editing())
	assert.False(t, f.CanSubmit())
}

func TestEditForm_SeededFromPlan(t *testing.T) {
	cost := 249.5
	where := "Bilbao"
	f := EditForm(&plan.Plan{
		ID:       "p1",
		Title:    "Guggenheim",
		Location: &where,
		EstCost:  &cost,
		Priority: 3,
		Status:   plan.StatusPlanned,
	})

	v := f.Values()
	assert.Equal(t, "p1", f.Editing())
	assert.Equal(t, "Guggenheim", v.Title)
	assert.Equal(t, "Bilbao", v.Location)
	assert.Equal(t, "249.5", v.EstCost)
	assert.Equal(t, "", v.Description)
	assert.Equal(t, 3, v.Priority)
	assert.Equal(t, plan.StatusPlanned, v.Status)
}

func TestForm_WhitespaceTitleIsNotSubmitted(t *testing.T) {
	f := NewForm()
	f.Set(func(v *Values) { v.Title = "   " })
	assert.False(t, f.CanSubmit())

	called := false
	err := f.Submit(context.Background(), func(context.Context, Values) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrBlankTitle)
	assert.False(t, called)
}

func TestForm_SubmitTrimsFields(t *testing.T) {
	f := NewForm()
	f.Set(func(v *Values) {
		v.Title = "  Ruta en bici  "
		v.Location = " Girona "
		v.EstCost = " 80 "
	})

	var got Values
	require.NoError(t, f.Submit(context.Background(), func(_ context.Context, v Values) error {
		got = v
		return nil
	}))
	assert.Equal(t, "Ruta en bici", got.Title)
	assert.Equal(t, "Girona", got.Location)
	assert.Equal(t, " 80 ", got.EstCost)
	require.NotNil(t, got.Fields().EstCost)
	assert.Equal(t, 80.0, *got.Fields().EstCost)
}

func TestForm_FailureKeepsDraft(t *testing.T) {
	f := NewForm()
	f.Set(func(v *Values) { v.Title = " Cena " })

	err := f.Submit(context.Background(), func(context.Context, Values) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, " Cena ", f.Values().Title)
	assert.False(t, f.Busy())
	assert.True(t, f.CanSubmit())
}

func TestForm_BlocksWhileSaving(t *testing.T) {
	f := NewForm()
	f.Set(func(v *Values) { v.Title = "Cena" })

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- f.Submit(context.Background(), func(context.Context, Values) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.True(t, f.Busy())
	assert.False(t, f.CanSubmit())
	assert.ErrorIs(t, f.Submit(context.Background(), func(context.Context, Values) error { return nil }), ErrSubmitting)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.Busy())
}

func TestForm_Cancel(t *testing.T) {
	f := NewForm()
	f.Set(func(v *Values) {
		v.Title = "Algo"
		v.Priority = 1
	})
	f.Cancel()

	assert.Equal(t, DefaultValues(), f.Values())
}
