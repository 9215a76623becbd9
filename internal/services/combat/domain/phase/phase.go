// Package phase converts an initiative total into the phases of a round at
// which a combatant acts.
package phase

import (
	"log"

	apperrors "github.com/louisbranch/phaseline/internal/platform/errors"
)

// Step is the initiative spacing between two actions in the same round.
const Step = 10

// MaxIterations bounds Calculate against corrupted totals.
const MaxIterations = 20

// ErrInvalidPhase indicates a phase number below 1.
var ErrInvalidPhase = apperrors.New(apperrors.CodePhaseInvalid, "phase must be at least 1")

// Calculate returns total, total-10, total-20, ... while the value stays
// positive. The result is strictly descending and empty for totals <= 0.
//
// Totals needing more than MaxIterations phases are truncated and logged.
func Calculate(total int) []int {
	if total <= 0 {
		return nil
	}
	phases := make([]int, 0, min(Count(total), MaxIterations))
	for value := total; value > 0; value -= Step {
		if len(phases) == MaxIterations {
			log.Printf("phase: initiative total %d exceeds %d phases; truncating", total, MaxIterations)
			break
		}
		phases = append(phases, value)
	}
	return phases
}

// Count returns how many phases a total yields, ceil(total/10), without the
// iteration bound.
func Count(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + Step - 1) / Step
}

// At returns the initiative value at the given 1-based phase. The boolean is
// false when the combatant has no action that phase.
func At(phases []int, phase int) (int, bool, error) {
	if phase < 1 {
		return 0, false, ErrInvalidPhase
	}
	if phase > len(phases) {
		return 0, false, nil
	}
	return phases[phase-1], true, nil
}
