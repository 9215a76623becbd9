package domain

import (
	"context"

	"github.com/louisbranch/phaseline/internal/services/combat/actors"
	"github.com/louisbranch/phaseline/internal/services/combat/app"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
)

// CombatService is the command surface the MCP tools drive.
type CombatService interface {
	CreateSession(ctx context.Context, caller app.Caller, name string) (tracker.State, error)
	GetSession(ctx context.Context, sessionID string) (tracker.State, error)
	ListSessions(ctx context.Context) []tracker.State
	DeleteSession(ctx context.Context, caller app.Caller, sessionID string) error

	AddActor(ctx context.Context, caller app.Caller, sessionID string, ref roster.Ref) (app.Added, error)
	AddDraft(ctx context.Context, caller app.Caller, sessionID string, draft roster.Draft) (app.Added, error)
	AddSelected(ctx context.Context, caller app.Caller, sessionID string) (app.Added, error)
	RemoveCombatant(ctx context.Context, caller app.Caller, sessionID, combatantID string) (app.Outcome, bool, error)
	ModifyCombatant(ctx context.Context, caller app.Caller, sessionID, combatantID string, patch roster.Patch) (app.Outcome, roster.Combatant, error)
	RollInitiative(ctx context.Context, caller app.Caller, sessionID, combatantID string, seed *int64, force bool) (app.Rolled, error)
	RollAll(ctx context.Context, caller app.Caller, sessionID string, npcOnly bool) (app.Outcome, []roster.Combatant, error)

	StartCombat(ctx context.Context, caller app.Caller, sessionID string) (app.Outcome, error)
	NextTurn(ctx context.Context, caller app.Caller, sessionID string) (app.Outcome, error)
	NextPhase(ctx context.Context, caller app.Caller, sessionID string) (app.Outcome, error)
	ResetCombat(ctx context.Context, caller app.Caller, sessionID string) (app.Outcome, error)
	ActiveForPhase(ctx context.Context, sessionID string, phase int) ([]tracker.Turn, error)

	RollPool(ctx context.Context, sessionID string, size, target int, seed *int64) (app.PoolRoll, error)
}

// ActorCatalog stores the actors and token selections the tracker reads.
type ActorCatalog interface {
	Put(actor actors.Actor) error
	Delete(id string) bool
	List() []actors.Actor
	SetSelection(participantID string, refs []roster.Ref)
}

// ResourceUpdateNotifier signals that a resource URI changed.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// NotifyResourceUpdates sends one notification per non-empty URI.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	for _, uri := range uris {
		if uri == "" {
			continue
		}
		notify(ctx, uri)
	}
}
