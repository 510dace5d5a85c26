// Package wizard drives step progression for the import wizard.
package wizard

import (
	"errors"

	"github.com/leavehub/leavehub/internal/memberimport/domain"
)

var (
	ErrNoSteps  = errors.New("wizard has no steps")
	ErrComplete = errors.New("wizard already complete")
)

// NewSteps builds the initial step list: the first step current, the rest
// upcoming.
func NewSteps(names ...string) []domain.WizardStep {
	steps := make([]domain.WizardStep, 0, len(names))
	for i, name := range names {
		status := domain.StepUpcoming
		if i == 0 {
			status = domain.StepCurrent
		}
		steps = append(steps, domain.WizardStep{
			Name:     name,
			Position: i,
			Status:   status,
		})
	}
	return steps
}

// Current returns the single current step, or nil when the wizard is
// terminal (last step complete).
func Current(steps []domain.WizardStep) *domain.WizardStep {
	for i := range steps {
		if steps[i].Status == domain.StepCurrent {
			return &steps[i]
		}
	}
	return nil
}

// Advance completes the current step and makes the next one current. The
// progression is monotonic left to right and never regresses; advancing the
// last step leaves every step complete.
func Advance(steps []domain.WizardStep) error {
	if len(steps) == 0 {
		return ErrNoSteps
	}
	for i := range steps {
		if steps[i].Status != domain.StepCurrent {
			continue
		}
		steps[i].Status = domain.StepComplete
		if i+1 < len(steps) {
			steps[i+1].Status = domain.StepCurrent
		}
		return nil
	}
	return ErrComplete
}
