// Package app coordinates combat sessions: it serializes commands per
// session, persists snapshots and publishes announcements.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/phaseline/internal/platform/errors"
	"github.com/louisbranch/phaseline/internal/platform/id"
	platformotel "github.com/louisbranch/phaseline/internal/platform/otel"
	"github.com/louisbranch/phaseline/internal/platform/timeouts"
	"github.com/louisbranch/phaseline/internal/random"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
	"github.com/louisbranch/phaseline/internal/services/combat/storage"
)

const tracerName = "github.com/louisbranch/phaseline/internal/services/combat/app"

var (
	// ErrSessionNotFound indicates an unknown session id.
	ErrSessionNotFound = apperrors.New(apperrors.CodeNotFound, "session not found")
	// ErrNotAuthorized indicates the caller may not run the command.
	ErrNotAuthorized = roster.ErrNotAuthorized
)

// Caller identifies who issued a command.
type Caller = roster.Caller

// Config wires the service ports. Store is required; the rest default to
// no-op or process-local implementations.
type Config struct {
	Store      storage.SessionStore
	Actors     ActorSource
	Selections SelectionSource
	Ownership  OwnershipClassifier
	Announcer  Announcer
	NewID      func() (string, error)
	NewSeed    func() (int64, error)
	Now        func() time.Time
}

// Service owns every live combat session.
type Service struct {
	store      storage.SessionStore
	actors     ActorSource
	selections SelectionSource
	ownership  OwnershipClassifier
	announcer  Announcer
	newID      func() (string, error)
	newSeed    func() (int64, error)
	now        func() time.Time
	tracer     trace.Tracer

	mu       sync.Mutex
	sessions map[string]*entry
}

// entry serializes every command on one session.
type entry struct {
	mu      sync.Mutex
	session *tracker.Session
	deleted bool
}

// NewService builds a service from cfg.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	s := &Service{
		store:      cfg.Store,
		actors:     cfg.Actors,
		selections: cfg.Selections,
		ownership:  cfg.Ownership,
		announcer:  cfg.Announcer,
		newID:      cfg.NewID,
		newSeed:    cfg.NewSeed,
		now:        cfg.Now,
		tracer:     platformotel.Tracer(tracerName),
		sessions:   make(map[string]*entry),
	}
	if s.actors == nil {
		s.actors = noActors{}
	}
	if s.selections == nil {
		s.selections = noSelections{}
	}
	if s.ownership == nil {
		s.ownership = allNPC{}
	}
	if s.announcer == nil {
		s.announcer = silent{}
	}
	if s.newID == nil {
		s.newID = id.NewID
	}
	if s.newSeed == nil {
		s.newSeed = random.NewSeed
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s, nil
}

// Load restores every stored session into memory.
func (s *Service) Load(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "combat.Load")
	defer span.End()

	states, err := s.store.ListSessions(ctx)
	if err != nil {
		return s.fail(span, fmt.Errorf("list sessions: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, state := range states {
		session, err := tracker.Restore(state, s.newID, s.now)
		if err != nil {
			log.Printf("combat: skip stored session %s: %v", state.ID, err)
			continue
		}
		s.sessions[session.ID] = &entry{session: session}
	}
	span.SetAttributes(attribute.Int("combat.sessions", len(s.sessions)))
	return nil
}

// CreateSession opens a new session in setup. Game masters only.
func (s *Service) CreateSession(ctx context.Context, caller Caller, name string) (tracker.State, error) {
	ctx, span := s.tracer.Start(ctx, "combat.CreateSession")
	defer span.End()

	if !caller.Privileged() {
		return tracker.State{}, s.fail(span, ErrNotAuthorized)
	}
	sessionID, err := s.newID()
	if err != nil {
		return tracker.State{}, s.fail(span, fmt.Errorf("generate session id: %w", err))
	}
	session, err := tracker.New(sessionID, name, s.newID, s.now)
	if err != nil {
		return tracker.State{}, s.fail(span, err)
	}
	state := session.State()
	if err := s.save(ctx, state); err != nil {
		return tracker.State{}, s.fail(span, err)
	}

	s.mu.Lock()
	s.sessions[sessionID] = &entry{session: session}
	s.mu.Unlock()

	span.SetAttributes(attribute.String("combat.session_id", sessionID))
	log.Printf("combat: session %s %q created by %s", sessionID, state.Name, caller.ParticipantID)
	return state, nil
}

// GetSession returns the current snapshot of a session.
func (s *Service) GetSession(ctx context.Context, sessionID string) (tracker.State, error) {
	_, span := s.tracer.Start(ctx, "combat.GetSession", trace.WithAttributes(attribute.String("combat.session_id", sessionID)))
	defer span.End()

	e, err := s.lookup(sessionID)
	if err != nil {
		return tracker.State{}, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.State(), nil
}

// ListSessions returns every session, oldest first.
func (s *Service) ListSessions(ctx context.Context) []tracker.State {
	_, span := s.tracer.Start(ctx, "combat.ListSessions")
	defer span.End()

	s.mu.Lock()
	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	states := make([]tracker.State, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		states = append(states, e.session.State())
		e.mu.Unlock()
	}
	sort.Slice(states, func(i, j int) bool {
		if !states[i].CreatedAt.Equal(states[j].CreatedAt) {
			return states[i].CreatedAt.Before(states[j].CreatedAt)
		}
		return states[i].ID < states[j].ID
	})
	return states
}

// DeleteSession removes a session. Game masters only.
func (s *Service) DeleteSession(ctx context.Context, caller Caller, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "combat.DeleteSession", trace.WithAttributes(attribute.String("combat.session_id", sessionID)))
	defer span.End()

	if !caller.Privileged() {
		return s.fail(span, ErrNotAuthorized)
	}
	e, err := s.lookup(sessionID)
	if err != nil {
		return s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	storeCtx, cancel := context.WithTimeout(ctx, timeouts.StoreOp)
	defer cancel()
	if err := s.store.DeleteSession(storeCtx, sessionID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return s.fail(span, fmt.Errorf("delete session %s: %w", sessionID, err))
	}

	e.deleted = true
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	log.Printf("combat: session %s deleted by %s", sessionID, caller.ParticipantID)
	return nil
}

// ActiveForPhase lists who acts in a phase of the session. It has no side
// effects.
func (s *Service) ActiveForPhase(ctx context.Context, sessionID string, phase int) ([]tracker.Turn, error) {
	_, span := s.tracer.Start(ctx, "combat.ActiveForPhase", trace.WithAttributes(
		attribute.String("combat.session_id", sessionID),
		attribute.Int("combat.phase", phase),
	))
	defer span.End()

	e, err := s.lookup(sessionID)
	if err != nil {
		return nil, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	turns, err := e.session.ActiveForPhase(phase)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return turns, nil
}

// PoolRoll is the outcome of a skill-test pool roll.
type PoolRoll struct {
	Result     dice.PoolResult
	Seed       int64
	SeedSource random.SeedSource
}

// RollPool rolls a skill-test pool and announces the result to the
// session's table. An empty sessionID announces to every table.
func (s *Service) RollPool(ctx context.Context, sessionID string, size, target int, seed *int64) (PoolRoll, error) {
	ctx, span := s.tracer.Start(ctx, "combat.RollPool", trace.WithAttributes(
		attribute.Int("dice.pool", size),
		attribute.Int("dice.target", target),
	))
	defer span.End()

	if sessionID != "" {
		if _, err := s.lookup(sessionID); err != nil {
			return PoolRoll{}, s.fail(span, err)
		}
	}
	resolved, source, err := random.ResolveSeed(seed, s.newSeed)
	if err != nil {
		return PoolRoll{}, s.fail(span, fmt.Errorf("generate seed: %w", err))
	}
	result, err := dice.RollPool(dice.PoolRequest{Size: size, Target: target, Seed: resolved})
	if err != nil {
		return PoolRoll{}, s.fail(span, err)
	}
	span.SetAttributes(
		attribute.Int("dice.successes", result.Successes),
		attribute.Bool("dice.critical_failure", result.CriticalFailure),
	)
	if err := s.announcer.AnnouncePool(ctx, sessionID, result); err != nil {
		log.Printf("combat: announce pool roll: %v", err)
	}
	return PoolRoll{Result: result, Seed: resolved, SeedSource: source}, nil
}

// mutate runs fn under the session lock, persists the new snapshot and
// publishes the events. A failed save restores the previous snapshot.
func (s *Service) mutate(ctx context.Context, op, sessionID string, fn func(*tracker.Session) ([]tracker.Event, error)) (tracker.State, []tracker.Event, error) {
	ctx, span := s.tracer.Start(ctx, "combat."+op, trace.WithAttributes(attribute.String("combat.session_id", sessionID)))
	defer span.End()

	e, err := s.lookup(sessionID)
	if err != nil {
		return tracker.State{}, nil, s.fail(span, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return tracker.State{}, nil, s.fail(span, ErrSessionNotFound)
	}

	before := e.session.State()
	events, err := fn(e.session)
	if err != nil {
		s.rollback(e, before)
		return tracker.State{}, nil, s.fail(span, err)
	}
	state := e.session.State()
	if err := s.save(ctx, state); err != nil {
		s.rollback(e, before)
		return tracker.State{}, nil, s.fail(span, err)
	}

	span.SetAttributes(
		attribute.String("combat.status", string(state.Status)),
		attribute.Int("combat.round", state.Round),
		attribute.Int("combat.phase", state.Phase),
		attribute.Int("combat.events", len(events)),
	)
	if len(events) > 0 {
		if err := s.announcer.Announce(ctx, events); err != nil {
			log.Printf("combat: announce %s on session %s: %v", op, sessionID, err)
		}
	}
	return state, events, nil
}

// rollback puts the entry back to the snapshot taken before a failed command.
func (s *Service) rollback(e *entry, before tracker.State) {
	restored, err := tracker.Restore(before, s.newID, s.now)
	if err != nil {
		log.Printf("combat: restore session %s after failed command: %v", before.ID, err)
		return
	}
	e.session = restored
}

func (s *Service) save(ctx context.Context, state tracker.State) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreOp)
	defer cancel()
	if err := s.store.SaveSession(ctx, state); err != nil {
		return fmt.Errorf("save session %s: %w", state.ID, err)
	}
	return nil
}

func (s *Service) lookup(sessionID string) (*entry, error) {
	sessionID = strings.TrimSpace(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "session "+sessionID+" not found", map[string]string{
			"Resource": "Session",
			"ID":       sessionID,
		})
	}
	return e, nil
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if appErr, ok := apperrors.As(err); ok {
		span.SetAttributes(attribute.String("error.code", string(appErr.Code)))
	}
	return err
}

type noActors struct{}

func (noActors) Actor(context.Context, string) (roster.ActorData, bool, error) {
	return roster.ActorData{}, false, nil
}

type noSelections struct{}

func (noSelections) Selection(context.Context, string) ([]roster.Ref, error) {
	return nil, nil
}

type allNPC struct{}

func (allNPC) Ownership(context.Context, string) (roster.Ownership, error) {
	return roster.Ownership{NPC: true}, nil
}

type silent struct{}

func (silent) Announce(context.Context, []tracker.Event) error { return nil }

func (silent) AnnouncePool(context.Context, string, dice.PoolResult) error { return nil }

func invalidArgument(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeCombatantInvalid, reason, map[string]string{"Reason": reason})
}
