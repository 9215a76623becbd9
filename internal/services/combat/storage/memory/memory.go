// Package memory provides an in-process session store.
package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
	"github.com/louisbranch/phaseline/internal/services/combat/storage"
)

// ErrSessionIDRequired indicates a missing session id.
var ErrSessionIDRequired = errors.New("session id is required")

// Store keeps session snapshots in memory. Snapshots are copied on the way
// in and out.
type Store struct {
	mu       sync.Mutex
	sessions map[string]tracker.State
}

// New creates an empty store.
func New() *Store {
	return &Store{sessions: make(map[string]tracker.State)}
}

// SaveSession stores or replaces a snapshot.
func (s *Store) SaveSession(ctx context.Context, state tracker.State) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if s == nil {
		return errors.New("session store is required")
	}
	id := strings.TrimSpace(state.ID)
	if id == "" {
		return ErrSessionIDRequired
	}
	state.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = cloneState(state)
	return nil
}

// GetSession returns the snapshot for id.
func (s *Store) GetSession(ctx context.Context, id string) (tracker.State, error) {
	if err := ctxErr(ctx); err != nil {
		return tracker.State{}, err
	}
	if s == nil {
		return tracker.State{}, errors.New("session store is required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return tracker.State{}, ErrSessionIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[id]
	if !ok {
		return tracker.State{}, storage.ErrNotFound
	}
	return cloneState(state), nil
}

// ListSessions returns every snapshot, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]tracker.State, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("session store is required")
	}

	s.mu.Lock()
	out := make([]tracker.State, 0, len(s.sessions))
	for _, state := range s.sessions {
		out = append(out, cloneState(state))
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteSession removes a snapshot. Missing ids report ErrNotFound.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if s == nil {
		return errors.New("session store is required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrSessionIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}

func cloneState(state tracker.State) tracker.State {
	combatants := make([]roster.Combatant, len(state.Combatants))
	for i, c := range state.Combatants {
		c.OwnerIDs = slices.Clone(c.OwnerIDs)
		c.ActionPhases = slices.Clone(c.ActionPhases)
		combatants[i] = c
	}
	state.Combatants = combatants
	return state
}
