// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Access errors
	CodeNotAuthorized Code = "NOT_AUTHORIZED"
	CodeNotFound      Code = "NOT_FOUND"

	// Combat lifecycle errors
	CodeCombatAlreadyActive Code = "COMBAT_ALREADY_ACTIVE"
	CodeCombatNotActive     Code = "COMBAT_NOT_ACTIVE"
	CodeCombatNotAllRolled  Code = "COMBAT_NOT_ALL_ROLLED"
	CodeCombatRosterEmpty   Code = "COMBAT_ROSTER_EMPTY"
	CodeSessionNameEmpty    Code = "SESSION_NAME_EMPTY"

	// Combatant errors
	CodeCombatantExists        Code = "COMBATANT_EXISTS"
	CodeCombatantAlreadyRolled Code = "COMBATANT_ALREADY_ROLLED"
	CodeCombatantInvalid       Code = "COMBATANT_INVALID"

	// Dice/mechanics errors
	CodeDiceMissing            Code = "DICE_MISSING"
	CodeDiceInvalidSpec        Code = "DICE_INVALID_SPEC"
	CodeDicePoolInvalid        Code = "DICE_POOL_INVALID"
	CodeDiceTargetInvalid      Code = "DICE_TARGET_INVALID"
	CodeInitiativeDiceInvalid  Code = "INITIATIVE_DICE_INVALID"
	CodeInitiativeBonusInvalid Code = "INITIATIVE_BONUS_INVALID"
	CodePhaseInvalid           Code = "PHASE_INVALID"
)

// Category groups codes by how callers should react to them.
type Category int

const (
	// CategoryInternal is an unexpected failure.
	CategoryInternal Category = iota
	// CategoryInvalidArgument is bad caller input.
	CategoryInvalidArgument
	// CategoryFailedPrecondition means the state does not allow the operation.
	CategoryFailedPrecondition
	// CategoryPermissionDenied means the caller lacks the required role.
	CategoryPermissionDenied
	// CategoryNotFound means the addressed resource does not exist.
	CategoryNotFound
	// CategoryAlreadyExists means a uniqueness rule was violated.
	CategoryAlreadyExists
)

func (c Category) String() string {
	switch c {
	case CategoryInvalidArgument:
		return "INVALID_ARGUMENT"
	case CategoryFailedPrecondition:
		return "FAILED_PRECONDITION"
	case CategoryPermissionDenied:
		return "PERMISSION_DENIED"
	case CategoryNotFound:
		return "NOT_FOUND"
	case CategoryAlreadyExists:
		return "ALREADY_EXISTS"
	default:
		return "INTERNAL"
	}
}

// Category maps domain codes to their reaction category.
func (c Code) Category() Category {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeSessionNameEmpty,
		CodeCombatantInvalid,
		CodeDiceMissing,
		CodeDiceInvalidSpec,
		CodeDicePoolInvalid,
		CodeDiceTargetInvalid,
		CodeInitiativeDiceInvalid,
		CodeInitiativeBonusInvalid,
		CodePhaseInvalid:
		return CategoryInvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeCombatAlreadyActive,
		CodeCombatNotActive,
		CodeCombatNotAllRolled,
		CodeCombatRosterEmpty,
		CodeCombatantAlreadyRolled:
		return CategoryFailedPrecondition

	case CodeNotAuthorized:
		return CategoryPermissionDenied

	case CodeNotFound:
		return CategoryNotFound

	case CodeCombatantExists:
		return CategoryAlreadyExists

	default:
		return CategoryInternal
	}
}
