package tracker

// EventKind names something that happened in a combat session.
type EventKind string

const (
	EventCombatStarted     EventKind = "combat_started"
	EventCombatReset       EventKind = "combat_reset"
	EventRoundStarted      EventKind = "round_started"
	EventPhaseStarted      EventKind = "phase_started"
	EventPhaseEmpty        EventKind = "phase_empty"
	EventTurnStarted       EventKind = "turn_started"
	EventCombatantAdded    EventKind = "combatant_added"
	EventCombatantRemoved  EventKind = "combatant_removed"
	EventCombatantModified EventKind = "combatant_modified"
	EventInitiativeRolled  EventKind = "initiative_rolled"
	EventWarning           EventKind = "warning"
)

// Event is an announcement produced by a session operation. Publishing is
// the caller's job; a failed publish never undoes the operation.
type Event struct {
	Kind          EventKind `json:"kind"`
	SessionID     string    `json:"session_id"`
	SessionName   string    `json:"session_name,omitempty"`
	Round         int       `json:"round"`
	Phase         int       `json:"phase"`
	CombatantID   string    `json:"combatant_id,omitempty"`
	CombatantName string    `json:"combatant_name,omitempty"`
	// Initiative is the per-phase value for turns and the total for rolls.
	Initiative int   `json:"initiative,omitempty"`
	Dice       []int `json:"dice,omitempty"`
	Bonus      int   `json:"bonus,omitempty"`
	// GMOnly events must only reach the game master.
	GMOnly  bool   `json:"gm_only,omitempty"`
	Message string `json:"message,omitempty"`
}
