// Package tracker runs the turn order of a combat session: rounds, phases
// spaced ten initiative points apart, and the turn cursor within a phase.
package tracker

import (
	"sort"
	"strings"
	"time"

	apperrors "github.com/louisbranch/phaseline/internal/platform/errors"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/phase"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusSetup allows roster edits and rolling; turns do not advance.
	StatusSetup Status = "SETUP"
	// StatusActive runs turns, phases and rounds.
	StatusActive Status = "ACTIVE"
)

var (
	// ErrSessionNameEmpty indicates a missing session name.
	ErrSessionNameEmpty = apperrors.New(apperrors.CodeSessionNameEmpty, "session name is required")
	// ErrCombatActive indicates a start while combat already runs.
	ErrCombatActive = apperrors.New(apperrors.CodeCombatAlreadyActive, "combat is already active")
	// ErrCombatNotActive indicates turn advancement during setup.
	ErrCombatNotActive = apperrors.New(apperrors.CodeCombatNotActive, "combat is not active")
	// ErrRosterEmpty indicates a start with no combatants.
	ErrRosterEmpty = apperrors.New(apperrors.CodeCombatRosterEmpty, "combat needs at least one combatant")
	// ErrNotAllRolled indicates a start while some combatants have not rolled.
	ErrNotAllRolled = apperrors.New(apperrors.CodeCombatNotAllRolled, "every combatant must roll initiative")
)

// Turn is one combatant's slot in a phase.
type Turn struct {
	Combatant  roster.Combatant
	Initiative int
}

// Session is one combat encounter. It is not safe for concurrent use.
type Session struct {
	ID        string
	Name      string
	Status    Status
	Round     int
	Phase     int
	Cursor    int
	Roster    *roster.Registry
	CreatedAt time.Time
	UpdatedAt time.Time

	now func() time.Time
}

// New creates a session in setup. A nil now uses the wall clock in UTC.
func New(id, name string, newID roster.IDGenerator, now func() time.Time) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSessionNameEmpty
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	created := now()
	return &Session{
		ID:        id,
		Name:      name,
		Status:    StatusSetup,
		Phase:     1,
		Roster:    roster.New(newID),
		CreatedAt: created,
		UpdatedAt: created,
		now:       now,
	}, nil
}

// Active reports whether combat is running.
func (s *Session) Active() bool {
	return s.Status == StatusActive
}

// Start begins round 1. Every combatant must have rolled.
func (s *Session) Start() ([]Event, error) {
	if s.Active() {
		return nil, ErrCombatActive
	}
	if s.Roster.Len() == 0 {
		return nil, ErrRosterEmpty
	}
	if unrolled := s.Roster.Unrolled(); len(unrolled) > 0 {
		names := make([]string, len(unrolled))
		ids := make([]string, len(unrolled))
		for i, c := range unrolled {
			names[i] = c.DisplayName
			ids[i] = c.ID
		}
		return nil, apperrors.WithMetadata(
			apperrors.CodeCombatNotAllRolled,
			"combatants have not rolled initiative: "+strings.Join(names, ", "),
			map[string]string{
				"Combatants":   strings.Join(names, ", "),
				"CombatantIDs": strings.Join(ids, ","),
			},
		)
	}

	s.Status = StatusActive
	s.Round = 1
	s.Phase = 1
	s.Cursor = 0
	s.touch()

	events := []Event{s.event(EventCombatStarted)}
	return append(events, s.turnEvents()...), nil
}

// ActiveForPhase lists who acts in the given phase, highest per-phase
// initiative first. Ties go to the higher rolled total, then roster order.
func (s *Session) ActiveForPhase(p int) ([]Turn, error) {
	if p < 1 {
		return nil, phase.ErrInvalidPhase
	}
	var turns []Turn
	for _, c := range s.Roster.List() {
		value, ok, err := phase.At(c.ActionPhases, p)
		if err != nil {
			return nil, err
		}
		if ok {
			turns = append(turns, Turn{Combatant: c, Initiative: value})
		}
	}
	sort.SliceStable(turns, func(i, j int) bool {
		if turns[i].Initiative != turns[j].Initiative {
			return turns[i].Initiative > turns[j].Initiative
		}
		return turns[i].Combatant.RolledTotal > turns[j].Combatant.RolledTotal
	})
	return turns, nil
}

// Current returns the combatant whose turn it is.
func (s *Session) Current() (Turn, bool) {
	if !s.Active() {
		return Turn{}, false
	}
	turns := s.currentTurns()
	if s.Cursor < 0 || s.Cursor >= len(turns) {
		return Turn{}, false
	}
	return turns[s.Cursor], true
}

// MaxPhases is the number of phases the current round spans. It never
// exceeds the phase lists phase.Calculate stores.
func (s *Session) MaxPhases() int {
	return min(phase.Count(s.Roster.MaxRolledTotal()), phase.MaxIterations)
}

// NextTurn moves to the next combatant, advancing the phase once the
// current phase runs out.
func (s *Session) NextTurn() ([]Event, error) {
	if !s.Active() {
		return nil, ErrCombatNotActive
	}
	s.Cursor++
	if s.Cursor >= len(s.currentTurns()) {
		return s.advancePhase(), nil
	}
	s.touch()
	return s.turnEvents(), nil
}

// NextPhase moves to the next phase. Past the last phase of the round a new
// round starts at phase 1.
func (s *Session) NextPhase() ([]Event, error) {
	if !s.Active() {
		return nil, ErrCombatNotActive
	}
	return s.advancePhase(), nil
}

func (s *Session) advancePhase() []Event {
	s.Phase++
	s.Cursor = 0
	s.touch()

	if len(s.currentTurns()) > 0 {
		return append([]Event{s.event(EventPhaseStarted)}, s.turnEvents()...)
	}
	if s.Phase <= s.MaxPhases() {
		return []Event{s.event(EventPhaseEmpty)}
	}

	s.Round++
	s.Phase = 1
	events := []Event{s.event(EventRoundStarted)}
	if len(s.currentTurns()) == 0 {
		return append(events, s.event(EventPhaseEmpty))
	}
	return append(events, s.turnEvents()...)
}

// Reset returns to setup and clears every roll. Repeated calls leave the
// same state.
func (s *Session) Reset() []Event {
	s.Status = StatusSetup
	s.Round = 0
	s.Phase = 1
	s.Cursor = 0
	s.Roster.Reset()
	s.touch()
	return []Event{s.event(EventCombatReset)}
}

// AddCombatant adds a combatant. During combat an unrolled newcomer simply
// has no phases until it rolls.
func (s *Session) AddCombatant(caller roster.Caller, draft roster.Draft) (roster.Combatant, []Event, error) {
	current := s.currentID()
	c, err := s.Roster.Add(caller, draft)
	if err != nil {
		return roster.Combatant{}, nil, err
	}
	s.touch()
	ev := s.combatantEvent(EventCombatantAdded, c)
	return c, append([]Event{ev}, s.settle(current)...), nil
}

// RemoveCombatant removes a combatant and keeps the cursor on a valid turn.
// Unknown ids produce a warning event and removed=false.
func (s *Session) RemoveCombatant(caller roster.Caller, id string) (bool, []Event, error) {
	current := s.currentID()
	c, removed, err := s.Roster.Remove(caller, id)
	if err != nil {
		return false, nil, err
	}
	if !removed {
		ev := s.event(EventWarning)
		ev.CombatantID = id
		ev.Message = "no combatant with id " + id
		return false, []Event{ev}, nil
	}
	s.touch()
	ev := s.combatantEvent(EventCombatantRemoved, c)
	return true, append([]Event{ev}, s.settle(current)...), nil
}

// RollInitiative rolls for one combatant. NPC rolls are announced to the
// game master only.
func (s *Session) RollInitiative(caller roster.Caller, id string, seed int64, force bool) (roster.Combatant, dice.InitiativeResult, []Event, error) {
	current := s.currentID()
	c, roll, err := s.Roster.RollInitiative(caller, id, seed, force)
	if err != nil {
		return roster.Combatant{}, dice.InitiativeResult{}, nil, err
	}
	s.touch()
	ev := s.combatantEvent(EventInitiativeRolled, c)
	ev.Initiative = roll.Total
	ev.Dice = roll.Results
	ev.Bonus = roll.Bonus
	ev.GMOnly = c.IsNPC()
	return c, roll, append([]Event{ev}, s.settle(current)...), nil
}

// ModifyCombatant applies a game-master edit.
func (s *Session) ModifyCombatant(caller roster.Caller, id string, patch roster.Patch) (roster.Combatant, []Event, error) {
	current := s.currentID()
	c, err := s.Roster.Modify(caller, id, patch)
	if err != nil {
		return roster.Combatant{}, nil, err
	}
	s.touch()
	ev := s.combatantEvent(EventCombatantModified, c)
	ev.Initiative = c.RolledTotal
	ev.GMOnly = c.IsNPC()
	return c, append([]Event{ev}, s.settle(current)...), nil
}

// settle keeps the cursor on the combatant that held the turn before a
// roster change. When that combatant left the phase the cursor is clamped
// and the new holder is announced.
func (s *Session) settle(previous string) []Event {
	if !s.Active() {
		return nil
	}
	turns := s.currentTurns()
	for i, turn := range turns {
		if turn.Combatant.ID == previous {
			s.Cursor = i
			return nil
		}
	}
	s.Cursor = min(max(s.Cursor, 0), max(len(turns)-1, 0))
	if len(turns) == 0 {
		return nil
	}
	return s.turnEvents()
}

func (s *Session) currentID() string {
	turn, ok := s.Current()
	if !ok {
		return ""
	}
	return turn.Combatant.ID
}

func (s *Session) currentTurns() []Turn {
	// Phase is always >= 1 so the lookup cannot fail.
	turns, _ := s.ActiveForPhase(s.Phase)
	return turns
}

func (s *Session) turnEvents() []Event {
	turn, ok := s.Current()
	if !ok {
		return nil
	}
	ev := s.combatantEvent(EventTurnStarted, turn.Combatant)
	ev.Initiative = turn.Initiative
	return []Event{ev}
}

func (s *Session) event(kind EventKind) Event {
	return Event{
		Kind:        kind,
		SessionID:   s.ID,
		SessionName: s.Name,
		Round:       s.Round,
		Phase:       s.Phase,
	}
}

func (s *Session) combatantEvent(kind EventKind, c roster.Combatant) Event {
	ev := s.event(kind)
	ev.CombatantID = c.ID
	ev.CombatantName = c.DisplayName
	return ev
}

func (s *Session) touch() {
	s.UpdatedAt = s.now()
}
