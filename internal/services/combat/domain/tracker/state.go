package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
)

// State is the plain-data snapshot of a session used for persistence.
type State struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Status     Status             `json:"status"`
	Round      int                `json:"round"`
	Phase      int                `json:"phase"`
	Cursor     int                `json:"cursor"`
	Combatants []roster.Combatant `json:"combatants"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	return State{
		ID:         s.ID,
		Name:       s.Name,
		Status:     s.Status,
		Round:      s.Round,
		Phase:      s.Phase,
		Cursor:     s.Cursor,
		Combatants: s.Roster.List(),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// Restore rebuilds a session from a snapshot. Out-of-range counters are
// normalized rather than rejected so a stale snapshot still loads.
func Restore(state State, newID roster.IDGenerator, now func() time.Time) (*Session, error) {
	if strings.TrimSpace(state.ID) == "" {
		return nil, fmt.Errorf("restore session: id is required")
	}
	s, err := New(state.ID, state.Name, newID, now)
	if err != nil {
		return nil, err
	}
	if err := s.Roster.Restore(state.Combatants); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", state.ID, err)
	}

	switch state.Status {
	case StatusActive:
		s.Status = StatusActive
		s.Round = max(state.Round, 1)
	case StatusSetup, "":
		s.Status = StatusSetup
		s.Round = max(state.Round, 0)
	default:
		return nil, fmt.Errorf("restore session %s: unknown status %q", state.ID, state.Status)
	}
	s.Phase = max(state.Phase, 1)
	s.Cursor = state.Cursor
	if s.Active() {
		s.settle("")
	} else {
		s.Cursor = 0
	}

	if !state.CreatedAt.IsZero() {
		s.CreatedAt = state.CreatedAt
	}
	if !state.UpdatedAt.IsZero() {
		s.UpdatedAt = state.UpdatedAt
	}
	return s, nil
}
