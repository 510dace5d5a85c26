package wizard

import (
	"testing"

	"github.com/leavehub/leavehub/internal/memberimport/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStepsInitialState(t *testing.T) {
	steps := NewSteps("a", "b", "c")
	require.Len(t, steps, 3)
	assert.Equal(t, domain.StepCurrent, steps[0].Status)
	assert.Equal(t, domain.StepUpcoming, steps[1].Status)
	assert.Equal(t, domain.StepUpcoming, steps[2].Status)
	assert.Equal(t, 0, steps[0].Position)
	assert.Equal(t, 2, steps[2].Position)
}

func TestAdvanceMovesExactlyOneStep(t *testing.T) {
	steps := NewSteps("a", "b", "c")

	require.NoError(t, Advance(steps))
	assert.Equal(t, domain.StepComplete, steps[0].Status)
	assert.Equal(t, domain.StepCurrent, steps[1].Status)
	assert.Equal(t, domain.StepUpcoming, steps[2].Status)

	current := Current(steps)
	require.NotNil(t, current)
	assert.Equal(t, "b", current.Name)
}

func TestAdvanceToTerminalState(t *testing.T) {
	steps := NewSteps("a", "b")

	require.NoError(t, Advance(steps))
	require.NoError(t, Advance(steps))

	assert.Nil(t, Current(steps))
	for _, step := range steps {
		assert.Equal(t, domain.StepComplete, step.Status)
	}

	assert.ErrorIs(t, Advance(steps), ErrComplete)
}

func TestAdvanceNeverRegresses(t *testing.T) {
	steps := NewSteps("a", "b", "c")
	require.NoError(t, Advance(steps))
	require.NoError(t, Advance(steps))

	// Earlier steps stay complete.
	assert.Equal(t, domain.StepComplete, steps[0].Status)
	assert.Equal(t, domain.StepComplete, steps[1].Status)
	assert.Equal(t, domain.StepCurrent, steps[2].Status)
}

func TestAdvanceEmpty(t *testing.T) {
	assert.ErrorIs(t, Advance(nil), ErrNoSteps)
}
