package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/phaseline/internal/random"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
)

// Outcome is the result of a session command.
type Outcome struct {
	State  tracker.State
	Events []tracker.Event
}

// Added reports the combatants added by one command.
type Added struct {
	Outcome
	Combatants []roster.Combatant
	Warnings   []string
}

// Rolled reports one initiative roll.
type Rolled struct {
	Outcome
	Combatant  roster.Combatant
	Result     dice.InitiativeResult
	Seed       int64
	SeedSource random.SeedSource
}

// AddActor resolves an actor through the configured sources and adds it to
// the roster. Missing actor data never blocks the add.
func (s *Service) AddActor(ctx context.Context, caller Caller, sessionID string, ref roster.Ref) (Added, error) {
	draft, warnings, err := s.draftFor(ctx, ref)
	if err != nil {
		return Added{}, err
	}
	var added []roster.Combatant
	state, events, err := s.mutate(ctx, "AddActor", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		c, events, err := session.AddCombatant(caller, draft)
		if err != nil {
			return nil, err
		}
		added = append(added, c)
		return append(events, warningEvents(session, warnings)...), nil
	})
	if err != nil {
		return Added{}, err
	}
	return Added{Outcome: Outcome{State: state, Events: events}, Combatants: added, Warnings: warnings}, nil
}

// AddDraft adds a fully specified combatant without consulting the actor
// sources.
func (s *Service) AddDraft(ctx context.Context, caller Caller, sessionID string, draft roster.Draft) (Added, error) {
	var added []roster.Combatant
	state, events, err := s.mutate(ctx, "AddDraft", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		c, events, err := session.AddCombatant(caller, draft)
		if err != nil {
			return nil, err
		}
		added = append(added, c)
		return events, nil
	})
	if err != nil {
		return Added{}, err
	}
	return Added{Outcome: Outcome{State: state, Events: events}, Combatants: added}, nil
}

// AddSelected adds every token the caller has selected. Tokens already on
// the roster or refused for the caller become warnings instead of failing
// the whole batch.
func (s *Service) AddSelected(ctx context.Context, caller Caller, sessionID string) (Added, error) {
	refs, err := s.selections.Selection(ctx, caller.ParticipantID)
	if err != nil {
		return Added{}, fmt.Errorf("read selection for %s: %w", caller.ParticipantID, err)
	}
	if len(refs) == 0 {
		return Added{}, invalidArgument("no tokens selected")
	}

	type pending struct {
		draft    roster.Draft
		warnings []string
	}
	drafts := make([]pending, 0, len(refs))
	for _, ref := range refs {
		draft, warnings, err := s.draftFor(ctx, ref)
		if err != nil {
			return Added{}, err
		}
		drafts = append(drafts, pending{draft: draft, warnings: warnings})
	}

	var (
		added    []roster.Combatant
		warnings []string
	)
	state, events, err := s.mutate(ctx, "AddSelected", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		var events []tracker.Event
		for _, p := range drafts {
			c, evs, err := session.AddCombatant(caller, p.draft)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("skipped %s: %v", p.draft.DisplayName, err))
				continue
			}
			added = append(added, c)
			warnings = append(warnings, p.warnings...)
			events = append(events, evs...)
		}
		return append(events, warningEvents(session, warnings)...), nil
	})
	if err != nil {
		return Added{}, err
	}
	return Added{Outcome: Outcome{State: state, Events: events}, Combatants: added, Warnings: warnings}, nil
}

// RemoveCombatant removes a combatant. Removing an unknown id is reported
// with removed=false and a warning event.
func (s *Service) RemoveCombatant(ctx context.Context, caller Caller, sessionID, combatantID string) (Outcome, bool, error) {
	var removed bool
	state, events, err := s.mutate(ctx, "RemoveCombatant", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		ok, events, err := session.RemoveCombatant(caller, combatantID)
		removed = ok
		return events, err
	})
	if err != nil {
		return Outcome{}, false, err
	}
	return Outcome{State: state, Events: events}, removed, nil
}

// RollInitiative rolls for one combatant. A nil seed draws a fresh one.
func (s *Service) RollInitiative(ctx context.Context, caller Caller, sessionID, combatantID string, seed *int64, force bool) (Rolled, error) {
	resolved, source, err := random.ResolveSeed(seed, s.newSeed)
	if err != nil {
		return Rolled{}, fmt.Errorf("generate seed: %w", err)
	}
	var (
		combatant roster.Combatant
		result    dice.InitiativeResult
	)
	state, events, err := s.mutate(ctx, "RollInitiative", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		c, r, events, err := session.RollInitiative(caller, combatantID, resolved, force)
		combatant, result = c, r
		return events, err
	})
	if err != nil {
		return Rolled{}, err
	}
	return Rolled{
		Outcome:    Outcome{State: state, Events: events},
		Combatant:  combatant,
		Result:     result,
		Seed:       resolved,
		SeedSource: source,
	}, nil
}

// RollAll rolls for every combatant that has not rolled yet, or only for
// unrolled NPCs when npcOnly is set. Game masters only.
func (s *Service) RollAll(ctx context.Context, caller Caller, sessionID string, npcOnly bool) (Outcome, []roster.Combatant, error) {
	if !caller.Privileged() {
		return Outcome{}, nil, ErrNotAuthorized
	}
	var rolled []roster.Combatant
	state, events, err := s.mutate(ctx, "RollAll", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		var events []tracker.Event
		for _, c := range session.Roster.Unrolled() {
			if npcOnly && !c.IsNPC() {
				continue
			}
			seed, err := s.newSeed()
			if err != nil {
				return nil, fmt.Errorf("generate seed: %w", err)
			}
			updated, _, evs, err := session.RollInitiative(caller, c.ID, seed, false)
			if err != nil {
				return nil, err
			}
			rolled = append(rolled, updated)
			events = append(events, evs...)
		}
		return events, nil
	})
	if err != nil {
		return Outcome{}, nil, err
	}
	return Outcome{State: state, Events: events}, rolled, nil
}

// ModifyCombatant applies a patch to a combatant. Game masters only.
func (s *Service) ModifyCombatant(ctx context.Context, caller Caller, sessionID, combatantID string, patch roster.Patch) (Outcome, roster.Combatant, error) {
	var modified roster.Combatant
	state, events, err := s.mutate(ctx, "ModifyCombatant", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		c, events, err := session.ModifyCombatant(caller, combatantID, patch)
		modified = c
		return events, err
	})
	if err != nil {
		return Outcome{}, roster.Combatant{}, err
	}
	return Outcome{State: state, Events: events}, modified, nil
}

// StartCombat begins round 1. Game masters only.
func (s *Service) StartCombat(ctx context.Context, caller Caller, sessionID string) (Outcome, error) {
	if !caller.Privileged() {
		return Outcome{}, ErrNotAuthorized
	}
	return s.outcome(s.mutate(ctx, "StartCombat", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		return session.Start()
	}))
}

// NextTurn hands the turn to the next combatant. The game master or the
// owner of the combatant holding the turn may end it.
func (s *Service) NextTurn(ctx context.Context, caller Caller, sessionID string) (Outcome, error) {
	return s.outcome(s.mutate(ctx, "NextTurn", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		if !caller.Privileged() {
			current, ok := session.Current()
			if !ok || !current.Combatant.OwnedBy(caller.ParticipantID) {
				return nil, ErrNotAuthorized
			}
		}
		return session.NextTurn()
	}))
}

// NextPhase skips the rest of the phase. Game masters only.
func (s *Service) NextPhase(ctx context.Context, caller Caller, sessionID string) (Outcome, error) {
	if !caller.Privileged() {
		return Outcome{}, ErrNotAuthorized
	}
	return s.outcome(s.mutate(ctx, "NextPhase", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		return session.NextPhase()
	}))
}

// ResetCombat returns the session to setup. Game masters only.
func (s *Service) ResetCombat(ctx context.Context, caller Caller, sessionID string) (Outcome, error) {
	if !caller.Privileged() {
		return Outcome{}, ErrNotAuthorized
	}
	return s.outcome(s.mutate(ctx, "ResetCombat", sessionID, func(session *tracker.Session) ([]tracker.Event, error) {
		return session.Reset(), nil
	}))
}

func (s *Service) outcome(state tracker.State, events []tracker.Event, err error) (Outcome, error) {
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{State: state, Events: events}, nil
}

// draftFor builds a draft from the actor sources. Source failures degrade to
// defaults with a warning, except for ownership which decides permissions.
func (s *Service) draftFor(ctx context.Context, ref roster.Ref) (roster.Draft, []string, error) {
	ref.ActorID = strings.TrimSpace(ref.ActorID)
	ref.TokenID = strings.TrimSpace(ref.TokenID)
	if ref.ActorID == "" {
		return roster.Draft{}, nil, invalidArgument("actor id is required")
	}

	ownership, err := s.ownership.Ownership(ctx, ref.ActorID)
	if err != nil {
		return roster.Draft{}, nil, fmt.Errorf("classify actor %s: %w", ref.ActorID, err)
	}

	var (
		data     *roster.ActorData
		warnings []string
	)
	actor, found, err := s.actors.Actor(ctx, ref.ActorID)
	switch {
	case err != nil:
		log.Printf("combat: read actor %s: %v", ref.ActorID, err)
		warnings = append(warnings, fmt.Sprintf("actor %s could not be read", ref.ActorID))
	case found:
		data = &actor
	}

	draft, more := roster.BuildDraft(ref, data, ownership)
	return draft, append(warnings, more...), nil
}

func warningEvents(session *tracker.Session, warnings []string) []tracker.Event {
	events := make([]tracker.Event, 0, len(warnings))
	for _, w := range warnings {
		events = append(events, tracker.Event{
			Kind:        tracker.EventWarning,
			SessionID:   session.ID,
			SessionName: session.Name,
			Round:       session.Round,
			Phase:       session.Phase,
			GMOnly:      true,
			Message:     w,
		})
	}
	return events
}
