package dice

import apperrors "github.com/louisbranch/phaseline/internal/platform/errors"

// InitiativeSides is the face count of initiative dice.
const InitiativeSides = 6

// ErrInvalidInitiativeDice indicates an initiative roll with no dice.
var ErrInvalidInitiativeDice = apperrors.New(apperrors.CodeInitiativeDiceInvalid, "initiative needs at least one die")

// ErrInvalidReactionBonus indicates a negative reaction bonus.
var ErrInvalidReactionBonus = apperrors.New(apperrors.CodeInitiativeBonusInvalid, "reaction bonus must be non-negative")

// InitiativeRequest describes an initiative roll: Dice plain d6 plus Bonus.
type InitiativeRequest struct {
	Dice  int
	Bonus int
	Seed  int64
}

// InitiativeResult captures an initiative roll.
type InitiativeResult struct {
	Results   []int
	DiceTotal int
	Bonus     int
	Total     int
}

// RollInitiative sums Dice six-sided dice and adds Bonus. Sixes do not
// explode here; that rule belongs to RollPool only.
func RollInitiative(request InitiativeRequest) (InitiativeResult, error) {
	return rollInitiative(seeded(request.Seed), request.Dice, request.Bonus)
}

func rollInitiative(src source, count, bonus int) (InitiativeResult, error) {
	if count < 1 {
		return InitiativeResult{}, ErrInvalidInitiativeDice
	}
	if bonus < 0 {
		return InitiativeResult{}, ErrInvalidReactionBonus
	}

	roll, err := rollDice(src, []DiceSpec{{Sides: InitiativeSides, Count: count}})
	if err != nil {
		return InitiativeResult{}, err
	}

	return InitiativeResult{
		Results:   roll.Rolls[0].Results,
		DiceTotal: roll.Total,
		Bonus:     bonus,
		Total:     roll.Total + bonus,
	}, nil
}
