package dice

import apperrors "github.com/louisbranch/phaseline/internal/platform/errors"

// PoolSides is the face count of every die in a skill-test pool.
const PoolSides = 6

// MinTargetNumber is the lowest target a pool die can be tested against.
const MinTargetNumber = 2

// ErrInvalidPoolSize indicates a pool with fewer than one die reached the engine.
var ErrInvalidPoolSize = apperrors.New(apperrors.CodeDicePoolInvalid, "dice pool must hold at least one die")

// ErrInvalidTargetNumber indicates a target number below MinTargetNumber.
var ErrInvalidTargetNumber = apperrors.New(apperrors.CodeDiceTargetInvalid, "target number must be at least 2")

// PoolRequest describes a skill-test pool roll.
type PoolRequest struct {
	Size   int
	Target int
	Seed   int64
}

// PoolDie is one die of a pool: every draw in order and their sum.
type PoolDie struct {
	Draws   []int
	Total   int
	Success bool
}

// First returns the face the die showed before exploding.
func (d PoolDie) First() int {
	if len(d.Draws) == 0 {
		return 0
	}
	return d.Draws[0]
}

// Exploded reports whether the die was re-rolled at least once.
func (d PoolDie) Exploded() bool {
	return len(d.Draws) > 1
}

// PoolResult aggregates a pool roll.
type PoolResult struct {
	Size            int
	Target          int
	Dice            []PoolDie
	Successes       int
	Ones            int
	CriticalFailure bool
}

// RollPool rolls Size six-sided dice against Target.
//
// A die that shows a six is rolled again and the new face added, for as long
// as sixes keep coming. A die succeeds when its total meets Target. Ones
// counts dice whose first face was a one; exploded draws never count toward
// it. CriticalFailure is set when every die showed a one first and none
// succeeded.
//
// Size below 1 and Target below 2 are rejected rather than clamped.
func RollPool(request PoolRequest) (PoolResult, error) {
	if request.Size < 1 {
		return PoolResult{}, ErrInvalidPoolSize
	}
	if request.Target < MinTargetNumber {
		return PoolResult{}, ErrInvalidTargetNumber
	}
	return rollPool(seeded(request.Seed), request.Size, request.Target), nil
}

func rollPool(src source, size, target int) PoolResult {
	result := PoolResult{
		Size:   size,
		Target: target,
		Dice:   make([]PoolDie, size),
	}
	for i := range result.Dice {
		die := rollExploding(src)
		die.Success = die.Total >= target
		if die.Success {
			result.Successes++
		}
		if die.First() == 1 {
			result.Ones++
		}
		result.Dice[i] = die
	}
	result.CriticalFailure = result.Ones == size && result.Successes == 0
	return result
}

func rollExploding(src source) PoolDie {
	var die PoolDie
	for {
		face := rollDie(src, PoolSides)
		die.Draws = append(die.Draws, face)
		die.Total += face
		if face != PoolSides {
			return die
		}
	}
}
