package session

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-order-bot/internal/models"
)

func TestRegistrationFlow(t *testing.T) {
	s := New()
	ctx := context.Background()

	assert.Equal(t, models.StepNone, s.RegistrationStep("1"))

	s.BeginRegistration("1")
	assert.Equal(t, models.StepAwaitingLocationName, s.RegistrationStep("1"))

	step, err := s.Advance(ctx, "1", models.StepAwaitingLocationName)
	require.NoError(t, err)
	assert.Equal(t, models.StepAwaitingAddress, step)

	step, err = s.Advance(ctx, "1", models.StepAwaitingAddress)
	require.NoError(t, err)
	assert.Equal(t, models.StepNone, step)
	assert.Equal(t, models.StepNone, s.RegistrationStep("1"))

	_, err = s.Advance(ctx, "1", models.StepAwaitingAddress)
	assert.ErrorIs(t, err, ErrStepChanged)
}

func TestBeginRegistration_Restarts(t *testing.T) {
	s := New()
	s.BeginRegistration("1")
	_, err := s.Advance(context.Background(), "1", models.StepAwaitingLocationName)
	require.NoError(t, err)

	s.BeginRegistration("1")
	assert.Equal(t, models.StepAwaitingLocationName, s.RegistrationStep("1"))
}

func TestAdvance_StaleStepIsRejected(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.BeginRegistration("1")

	_, err := s.Advance(ctx, "1", models.StepAwaitingLocationName)
	require.NoError(t, err)

	// a second answer that still believes the name is awaited
	cur, err := s.Advance(ctx, "1", models.StepAwaitingLocationName)
	assert.ErrorIs(t, err, ErrStepChanged)
	assert.Equal(t, models.StepAwaitingAddress, cur)
	assert.Equal(t, models.StepAwaitingAddress, s.RegistrationStep("1"))
}

func TestConsumePending_KeepsNewerSelection(t *testing.T) {
	s := New()
	mak := models.PendingSelection{Item: "Мак"}
	s.SetPending("1", mak)
	s.SetPending("1", models.PendingSelection{Item: "Вишня"})

	assert.False(t, s.ConsumePending("1", mak))
	sel, ok := s.Pending("1")
	require.True(t, ok)
	assert.Equal(t, "Вишня", sel.Item)

	assert.True(t, s.ConsumePending("1", sel))
	_, ok = s.Pending("1")
	assert.False(t, ok)
	assert.False(t, s.ConsumePending("2", sel))
}

func TestPending_LastSelectionWins(t *testing.T) {
	s := New()
	s.SetPending("1", models.PendingSelection{Item: "Мак"})
	s.SetPending("1", models.PendingSelection{Item: "Вишня", IsEdit: true})

	sel, ok := s.Pending("1")
	require.True(t, ok)
	assert.Equal(t, "Вишня", sel.Item)
	assert.True(t, sel.IsEdit)

	s.ClearPending("1")
	_, ok = s.Pending("1")
	assert.False(t, ok)
	assert.Empty(t, s.clients, "empty state should be collected")
}

func TestForget(t *testing.T) {
	s := New()
	s.BeginRegistration("1")
	s.SetPending("1", models.PendingSelection{Item: "Мак"})
	s.Forget("1")

	assert.Equal(t, models.StepNone, s.RegistrationStep("1"))
	_, ok := s.Pending("1")
	assert.False(t, ok)
}

func TestNormalizeInput(t *testing.T) {
	v, err := NormalizeInput("  Кафе Уют \n")
	require.NoError(t, err)
	assert.Equal(t, "Кафе Уют", v)

	// "й" как "и" + комбинируемый знак
	v, err = NormalizeInput("Уйт")
	require.NoError(t, err)
	assert.Equal(t, "Уйт", v)

	_, err = NormalizeInput("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = NormalizeInput(strings.Repeat("я", MaxInputRunes+1))
	assert.ErrorIs(t, err, ErrInputTooLong)
}
