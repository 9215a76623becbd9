package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotAuthorized          = "NOT_AUTHORIZED"
	CodeNotFound               = "NOT_FOUND"
	CodeCombatAlreadyActive    = "COMBAT_ALREADY_ACTIVE"
	CodeCombatNotActive        = "COMBAT_NOT_ACTIVE"
	CodeCombatNotAllRolled     = "COMBAT_NOT_ALL_ROLLED"
	CodeCombatRosterEmpty      = "COMBAT_ROSTER_EMPTY"
	CodeSessionNameEmpty       = "SESSION_NAME_EMPTY"
	CodeCombatantExists        = "COMBATANT_EXISTS"
	CodeCombatantAlreadyRolled = "COMBATANT_ALREADY_ROLLED"
	CodeCombatantInvalid       = "COMBATANT_INVALID"
	CodeDiceMissing            = "DICE_MISSING"
	CodeDiceInvalidSpec        = "DICE_INVALID_SPEC"
	CodeDicePoolInvalid        = "DICE_POOL_INVALID"
	CodeDiceTargetInvalid      = "DICE_TARGET_INVALID"
	CodeInitiativeDiceInvalid  = "INITIATIVE_DICE_INVALID"
	CodeInitiativeBonusInvalid = "INITIATIVE_BONUS_INVALID"
	CodePhaseInvalid           = "PHASE_INVALID"
)

var enUSMessages = map[Code]string{
	CodeNotAuthorized:          "Only the game master can do that.",
	CodeNotFound:               "{{if .Resource}}{{.Resource}} not found.{{else}}Not found.{{end}}",
	CodeCombatAlreadyActive:    "Combat is already running. Reset it first.",
	CodeCombatNotActive:        "Combat has not started yet.",
	CodeCombatNotAllRolled:     "Everyone must roll initiative before combat starts. Still waiting on: {{.Combatants}}.",
	CodeCombatRosterEmpty:      "Add at least one combatant before starting combat.",
	CodeSessionNameEmpty:       "The combat session needs a name.",
	CodeCombatantExists:        "{{.Name}} is already in the combat.",
	CodeCombatantAlreadyRolled: "{{.Name}} already rolled initiative. Re-roll explicitly to replace it.",
	CodeCombatantInvalid:       "That combatant entry is not valid: {{.Reason}}.",
	CodeDiceMissing:            "At least one die is required.",
	CodeDiceInvalidSpec:        "Dice must have positive sides and count.",
	CodeDicePoolInvalid:        "The dice pool must hold at least one die.",
	CodeDiceTargetInvalid:      "The target number must be at least 2.",
	CodeInitiativeDiceInvalid:  "Initiative needs at least one die.",
	CodeInitiativeBonusInvalid: "The reaction bonus cannot be negative.",
	CodePhaseInvalid:           "Phases start at 1.",
}
