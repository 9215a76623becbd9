package app

import (
	"context"

	"github.com/louisbranch/phaseline/internal/services/combat/domain/dice"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/roster"
	"github.com/louisbranch/phaseline/internal/services/combat/domain/tracker"
)

//go:generate go tool mockgen -destination=./mocks/ports_mock.go -package=mocks . ActorSource,SelectionSource,OwnershipClassifier,Announcer

// ActorSource reads actor records. The service never writes to it.
type ActorSource interface {
	// Actor returns found=false when the actor is unknown.
	Actor(ctx context.Context, actorID string) (roster.ActorData, bool, error)
}

// SelectionSource returns the tokens a participant has selected.
type SelectionSource interface {
	Selection(ctx context.Context, participantID string) ([]roster.Ref, error)
}

// OwnershipClassifier decides whether an actor is an NPC and who owns it.
type OwnershipClassifier interface {
	Ownership(ctx context.Context, actorID string) (roster.Ownership, error)
}

// Announcer publishes combat announcements. Failures are logged by the
// service and never undo the operation that produced them.
type Announcer interface {
	Announce(ctx context.Context, events []tracker.Event) error
	AnnouncePool(ctx context.Context, sessionID string, result dice.PoolResult) error
}
