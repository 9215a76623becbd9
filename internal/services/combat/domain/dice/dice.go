// Package dice implements the two roll systems used by combat: additive
// rolls for initiative and exploding-six pools for skill tests.
package dice

import (
	"math/rand"

	apperrors "github.com/louisbranch/phaseline/internal/platform/errors"
)

// ErrMissingDice indicates a roll request had no dice specified.
var ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one die must be provided")

// ErrInvalidDiceSpec indicates a die specification has invalid fields.
var ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice must have positive sides and count")

// source is the randomness behind every roll. *rand.Rand satisfies it; tests
// script faces through it.
type source interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

func seeded(seed int64) source {
	return rand.New(rand.NewSource(seed))
}

// DiceSpec describes a die to roll and how many times to roll it.
type DiceSpec struct {
	Sides int
	Count int
}

// DieRoll captures the results for a single dice spec.
type DieRoll struct {
	Sides   int
	Results []int
	Total   int
}

// RollRequest describes a request to roll one or more dice.
type RollRequest struct {
	Dice []DiceSpec
	Seed int64
}

// RollResult captures the results from rolling multiple dice.
type RollResult struct {
	Rolls []DieRoll
	Total int
}

// RollDice rolls dice based on the provided request.
//
// # Determinism
//
// RollDice is deterministic with respect to the Seed field on RollRequest.
// Given the same Seed and the same Dice slice (including order and values),
// RollDice will always produce the same RollResult.
//
// # Ordering
//
// Dice specs are processed in slice order and RollResult.Rolls keeps that
// order. Each DieRoll.Total is the sum of its Results; RollResult.Total is
// the sum of every die rolled.
//
// Constraints and errors
//
//   - At least one DiceSpec must be provided, otherwise ErrMissingDice.
//   - Each DiceSpec must have Sides > 0 and Count > 0, otherwise
//     ErrInvalidDiceSpec.
//
// Example:
//
//	result, err := RollDice(RollRequest{
//	    Dice: []DiceSpec{{Sides: 6, Count: 2}, {Sides: 8, Count: 1}},
//	    Seed: 1,
//	})
func RollDice(request RollRequest) (RollResult, error) {
	return rollDice(seeded(request.Seed), request.Dice)
}

func rollDice(src source, specs []DiceSpec) (RollResult, error) {
	if len(specs) == 0 {
		return RollResult{}, ErrMissingDice
	}
	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return RollResult{}, ErrInvalidDiceSpec
		}
	}

	rolls := make([]DieRoll, 0, len(specs))
	total := 0
	for _, spec := range specs {
		results := make([]int, spec.Count)
		rollTotal := 0
		for i := range results {
			value := rollDie(src, spec.Sides)
			results[i] = value
			rollTotal += value
		}
		rolls = append(rolls, DieRoll{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return RollResult{
		Rolls: rolls,
		Total: total,
	}, nil
}

// rollDie rolls a die with the provided number of sides.
func rollDie(src source, sides int) int {
	return src.Intn(sides) + 1
}
